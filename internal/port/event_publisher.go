package port

import (
	"context"

	"github.com/rl1809/bookshop/internal/core/domain"
)

type EventPublisher interface {
	// PublishOrderFulfilled emits the event to downstream consumers.
	// Errors are reported to the caller for logging only; they must not
	// be treated as order-submission failures.
	PublishOrderFulfilled(ctx context.Context, event domain.OrderFulfilled) error

	Close() error
}
