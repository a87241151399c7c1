// Package announce polls the exchange announcement feed and forwards new
// entries to the operator channel.
package announce

import (
	"context"
	"fmt"
	"time"

	"kc-strategy-bot/internal/kucoin"

	"go.uber.org/zap"
)

type Source interface {
	Announcements(ctx context.Context, startTime int64) ([]kucoin.Announcement, error)
}

type Notifier interface {
	Send(ctx context.Context, message string) error
}

// Poller watches for announcements published after it started. Types, when
// set, restricts forwarding to announcements carrying at least one matching
// type tag.
type Poller struct {
	source   Source
	notifier Notifier
	log      *zap.Logger
	period   time.Duration
	types    map[string]struct{}
	now      func() time.Time

	since int64
	seen  map[int64]struct{}
}

func NewPoller(source Source, notifier Notifier, log *zap.Logger, period time.Duration, types []string) *Poller {
	var filter map[string]struct{}
	if len(types) > 0 {
		filter = make(map[string]struct{}, len(types))
		for _, t := range types {
			filter[t] = struct{}{}
		}
	}
	return &Poller{
		source:   source,
		notifier: notifier,
		log:      log,
		period:   period,
		types:    filter,
		now:      time.Now,
		seen:     make(map[int64]struct{}),
	}
}

func (p *Poller) Run(ctx context.Context) {
	p.since = p.now().UnixMilli()
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				p.log.Warn("announcement poll failed", zap.Error(err))
			}
		}
	}
}

func (p *Poller) poll(ctx context.Context) error {
	announcements, err := p.source.Announcements(ctx, p.since)
	if err != nil {
		return err
	}
	for _, ann := range announcements {
		if _, ok := p.seen[ann.ID]; ok {
			continue
		}
		p.seen[ann.ID] = struct{}{}
		if ann.Time > p.since {
			p.since = ann.Time
		}
		if !p.wanted(ann) {
			continue
		}
		message := fmt.Sprintf("📣 <b>%s</b>\n%s", ann.Title, ann.URL)
		if err := p.notifier.Send(ctx, message); err != nil {
			p.log.Warn("announcement notification failed", zap.Error(err))
		}
	}
	return nil
}

func (p *Poller) wanted(ann kucoin.Announcement) bool {
	if p.types == nil {
		return true
	}
	for _, t := range ann.Types {
		if _, ok := p.types[t]; ok {
			return true
		}
	}
	return false
}
