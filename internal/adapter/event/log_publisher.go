package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/bookshop/internal/core/domain"
)

// LogPublisher writes fulfilled orders to the log instead of a broker.
// Used when no Kafka broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishOrderFulfilled(ctx context.Context, event domain.OrderFulfilled) error {
	p.logger.Info("order fulfilled",
		zap.String("order_id", event.OrderID),
		zap.Int64("book_id", event.BookID),
		zap.Int("quantity", event.Quantity),
		zap.String("buyer_id", event.BuyerID))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
