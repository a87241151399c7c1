package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kc-strategy-bot/internal/alerts"

	"go.uber.org/zap"
)

const historyDefaultLimit = 10

func (a *App) startOperator(ctx context.Context) {
	if !a.cfg.Telegram.OperatorEnabled {
		return
	}
	chatID, err := strconv.ParseInt(strings.TrimSpace(a.cfg.Telegram.ChatID), 10, 64)
	if err != nil {
		a.log.Warn("telegram operator disabled: invalid chat_id", zap.Error(err))
		return
	}
	pollInterval := a.cfg.Telegram.OperatorPollInterval
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	allowedUsers := make(map[int64]struct{}, len(a.cfg.Telegram.OperatorAllowedUserIDs))
	for _, id := range a.cfg.Telegram.OperatorAllowedUserIDs {
		allowedUsers[id] = struct{}{}
	}
	go a.operatorLoop(ctx, chatID, allowedUsers, pollInterval)
}

func (a *App) operatorLoop(ctx context.Context, chatID int64, allowedUsers map[int64]struct{}, pollInterval time.Duration) {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		updates, err := a.alerts.GetUpdates(ctx, offset, pollInterval)
		if err != nil {
			a.logOperatorError(err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollInterval):
			}
			continue
		}
		if a.operatorWarned {
			a.log.Info("telegram operator recovered")
			a.operatorWarned = false
		}
		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			a.handleOperatorUpdate(ctx, upd, chatID, allowedUsers)
		}
	}
}

func (a *App) handleOperatorUpdate(ctx context.Context, upd alerts.Update, chatID int64, allowedUsers map[int64]struct{}) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	if msg.Chat == nil || msg.From == nil {
		return
	}
	if msg.Chat.ID != chatID {
		return
	}
	if len(allowedUsers) > 0 {
		if _, ok := allowedUsers[msg.From.ID]; !ok {
			return
		}
	}
	cmd, args, ok := parseOperatorCommand(msg.Text)
	if !ok {
		return
	}
	resp, err := a.handleOperatorCommand(ctx, cmd, args)
	if err != nil {
		resp = fmt.Sprintf("command failed: %v", err)
	}
	if resp == "" {
		return
	}
	if err := a.alerts.Send(ctx, resp); err != nil {
		a.log.Warn("operator response failed", zap.Error(err))
	}
}

func parseOperatorCommand(text string) (string, []string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", nil, false
	}
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return "", nil, false
	}
	cmd := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	return cmd, fields[1:], true
}

func (a *App) handleOperatorCommand(ctx context.Context, cmd string, args []string) (string, error) {
	switch cmd {
	case "status":
		return a.operatorStatus(), nil
	case "strategies":
		return a.operatorStrategies(), nil
	case "strategy":
		if len(args) != 1 {
			return "usage: /strategy <name>", nil
		}
		strategy, ok := a.rules.Get(args[0])
		if !ok {
			return fmt.Sprintf("no strategy named %q", args[0]), nil
		}
		return strategy.String(), nil
	case "remove":
		if len(args) != 1 {
			return "usage: /remove <name>", nil
		}
		if !a.rules.Remove(args[0]) {
			return fmt.Sprintf("no strategy named %q", args[0]), nil
		}
		return fmt.Sprintf("removed %q", args[0]), nil
	case "pause":
		if a.scheduler.Paused() {
			return "already paused", nil
		}
		a.scheduler.Pause()
		return "strategy execution paused", nil
	case "resume":
		if !a.scheduler.Paused() {
			return "already active", nil
		}
		a.scheduler.Resume()
		return "strategy execution resumed", nil
	case "history":
		limit := historyDefaultLimit
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed <= 0 {
				return "usage: /history [count]", nil
			}
			limit = parsed
		}
		return a.operatorHistory(ctx, limit)
	case "help":
		return operatorHelpText(), nil
	default:
		return operatorHelpText(), nil
	}
}

func (a *App) operatorStatus() string {
	lines := []string{
		fmt.Sprintf("paused: %t", a.scheduler.Paused()),
		fmt.Sprintf("strategies: %d", a.rules.Len()),
		fmt.Sprintf("pending lending orders: %d", a.market.LendingOrderCount()),
	}
	if recent := a.market.RecentTickers(); len(recent) > 0 {
		lines = append(lines, "recent pairs: "+strings.Join(recent, ", "))
	}
	if recent := a.market.RecentLendingCurrencies(); len(recent) > 0 {
		lines = append(lines, "recent lending: "+strings.Join(recent, ", "))
	}
	return strings.Join(lines, "\n")
}

func (a *App) operatorStrategies() string {
	names := a.rules.Names()
	if len(names) == 0 {
		return "no strategies configured"
	}
	return strings.Join(names, "\n")
}

func (a *App) operatorHistory(ctx context.Context, limit int) (string, error) {
	entries, err := a.journal.Recent(ctx, limit)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "no executions recorded", nil
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		mark := "✅"
		if entry.Status != "success" {
			mark = "❌"
		}
		lines = append(lines, fmt.Sprintf("%s %s <b>%s</b> %s (%g): %s",
			mark, entry.Time.Format(time.RFC3339), entry.Strategy, entry.Action, entry.Amount, entry.Detail))
	}
	return strings.Join(lines, "\n"), nil
}

func operatorHelpText() string {
	return strings.Join([]string{
		"commands:",
		"/status - scheduler and market data status",
		"/strategies - list strategy names",
		"/strategy <name> - show one strategy",
		"/remove <name> - delete a strategy",
		"/pause - stop executing actions",
		"/resume - resume executing actions",
		"/history [count] - recent executions",
	}, "\n")
}

func (a *App) logOperatorError(err error) {
	if a.operatorWarned {
		return
	}
	a.operatorWarned = true
	a.log.Warn("telegram operator failed", zap.Error(err))
}
