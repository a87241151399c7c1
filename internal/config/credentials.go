package config

import (
	"errors"
	"os"
	"strings"
)

// Credentials is the exchange API key set, read from the environment once at
// startup and passed to constructors explicitly.
type Credentials struct {
	Key        string
	Secret     string
	Passphrase string
	KeyVersion string
}

func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		Key:        strings.TrimSpace(os.Getenv("KUCOIN_API_KEY")),
		Secret:     strings.TrimSpace(os.Getenv("KUCOIN_API_SECRET")),
		Passphrase: strings.TrimSpace(os.Getenv("KUCOIN_API_PASSPHRASE")),
		KeyVersion: strings.TrimSpace(os.Getenv("KUCOIN_API_KEY_VERSION")),
	}
	if creds.Key == "" {
		return Credentials{}, errors.New("KUCOIN_API_KEY is required")
	}
	if creds.Secret == "" {
		return Credentials{}, errors.New("KUCOIN_API_SECRET is required")
	}
	if creds.Passphrase == "" {
		return Credentials{}, errors.New("KUCOIN_API_PASSPHRASE is required")
	}
	if creds.KeyVersion == "" {
		creds.KeyVersion = "2"
	}
	return creds, nil
}
