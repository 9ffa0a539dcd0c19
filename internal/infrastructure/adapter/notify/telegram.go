package notify

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/notify"
)

// TelegramNotifier sends operator alerts to a configured chat
type TelegramNotifier struct {
	bot    *telego.Bot
	chatID int64
	logger coreport.Logger
}

// NewTelegramNotifier creates a notifier backed by a Telegram bot
func NewTelegramNotifier(token string, chatID int64, logger coreport.Logger) (*TelegramNotifier, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}, nil
}

// NotifyDepositRequested alerts operators that a new request was created
func (n *TelegramNotifier) NotifyDepositRequested(ctx context.Context, event notify.DepositEvent) error {
	text := fmt.Sprintf(
		"🔔 <b>New deposit request</b>\n"+
			"ID: %d\n"+
			"User: %s\n"+
			"Amount: %s USDT (%s)\n"+
			"JOY: %d\n"+
			"Address: <code>%s</code>",
		event.DepositID, event.UserEmail, event.AmountUSDT, event.Chain,
		event.JoyAmount, event.WalletAddress,
	)
	return n.send(ctx, text)
}

// NotifyDepositApproved alerts operators that an approval completed
func (n *TelegramNotifier) NotifyDepositApproved(ctx context.Context, event notify.DepositEvent) error {
	text := fmt.Sprintf(
		"✅ <b>Deposit approved</b>\n"+
			"ID: %d\n"+
			"User: %s\n"+
			"Amount: %s USDT (%s)\n"+
			"Credited JOY: %d\n"+
			"Send the JOY to the user's wallet.",
		event.DepositID, event.UserEmail, event.AmountUSDT, event.Chain,
		event.JoyAmount,
	)
	return n.send(ctx, text)
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	_, err := n.bot.SendMessage(ctx, tu.Message(tu.ID(n.chatID), text).WithParseMode(telego.ModeHTML))
	if err != nil {
		n.logger.Warn("Failed to send telegram alert", map[string]any{"error": err.Error()})
		return err
	}
	return nil
}

// NoopNotifier is used when no bot token is configured
type NoopNotifier struct{}

// NewNoopNotifier creates a notifier that drops all events
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

// NotifyDepositRequested does nothing
func (n *NoopNotifier) NotifyDepositRequested(ctx context.Context, event notify.DepositEvent) error {
	return nil
}

// NotifyDepositApproved does nothing
func (n *NoopNotifier) NotifyDepositApproved(ctx context.Context, event notify.DepositEvent) error {
	return nil
}
