// Package notify tells clients about their executed orders over Telegram.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/pkg/dictionary"
	"github.com/leonid6372/stock-ledger/pkg/log"
	"go.uber.org/zap"
)

const (
	msgOrderExecutedBuy  = "order_executed_buy"
	msgOrderExecutedSell = "order_executed_sell"
	msgOrderLine         = "order_line"
)

const DefaultQueueSize = 256

// Sender delivers an HTML message to a Telegram chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Notifier queues executed orders and sends them from a single worker.
type Notifier struct {
	sender     Sender
	dictionary *dictionary.Dictionary
	accounts   domain.AccountsRepository

	queue chan *domain.Order
}

func New(sender Sender, dictionary *dictionary.Dictionary, accounts domain.AccountsRepository, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Notifier{
		sender:     sender,
		dictionary: dictionary,
		accounts:   accounts,
		queue:      make(chan *domain.Order, queueSize),
	}
}

// OrderExecuted enqueues order without blocking. The order is dropped when the queue is full.
func (n *Notifier) OrderExecuted(order *domain.Order) {
	select {
	case n.queue <- order:
	default:
		log.Warn("notification queue is full, dropping order", zap.String("code", order.Code))
	}
}

// Run sends queued notifications until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case order := <-n.queue:
			if err := n.send(ctx, order); err != nil {
				log.Error("failed to send order notification", zap.String("code", order.Code), zap.Error(err))
			}
		}
	}
}

func (n *Notifier) send(ctx context.Context, order *domain.Order) error {
	account, err := n.accounts.GetClientAccount(ctx, order.ClientID)
	if err != nil {
		return fmt.Errorf("failed to get client account: %w", err)
	}

	if account.TelegramID == 0 {
		log.Debug("client has no telegram chat", zap.Int64("client_id", account.ID))
		return nil
	}

	if err := n.sender.Send(ctx, account.TelegramID, n.render(order, account)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (n *Notifier) render(order *domain.Order, account *domain.ClientAccount) string {
	lang := account.LanguageCode

	lines := make([]string, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		lines = append(lines, n.dictionary.Text(lang, msgOrderLine, map[string]any{
			"symbol":   li.Symbol,
			"quantity": li.Quantity,
			"price":    li.UnitPrice,
		}))
	}

	key := msgOrderExecutedBuy
	if order.Kind == domain.OrderKindSell {
		key = msgOrderExecutedSell
	}

	text := n.dictionary.Text(lang, key, map[string]any{
		"code":  order.Code,
		"total": order.TotalAmount,
		"lines": len(order.LineItems),
		"cash":  account.CashAvailable,
	})

	return text + "\n" + strings.Join(lines, "\n")
}

// Nop discards every notification.
type Nop struct{}

func (Nop) OrderExecuted(*domain.Order) {}
