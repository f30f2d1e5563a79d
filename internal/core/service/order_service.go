package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/bookshop/internal/core/domain"
	"github.com/rl1809/bookshop/internal/port"
)

const (
	// maxDecrementAttempts caps retries of the conditional write when the
	// store reports a transient failure. Each attempt re-runs the full
	// check-then-write against the current committed stock.
	maxDecrementAttempts = 3

	retryBackoff = 50 * time.Millisecond

	publishTimeout = 5 * time.Second
)

type OrderService struct {
	repo      port.InventoryRepository
	cache     port.CacheRepository
	publisher port.EventPublisher
	logger    *zap.Logger
}

// NewOrderService wires the order-submission path. cache may be nil, in
// which case duplicate-request suppression is disabled.
func NewOrderService(repo port.InventoryRepository, cache port.CacheRepository, publisher port.EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// SubmitOrder validates the intent, atomically decrements the book's
// stock, and on success emits exactly one OrderFulfilled notification.
// The decrement is the commit point: once it is applied the order has
// succeeded regardless of what happens to the notification.
func (s *OrderService) SubmitOrder(ctx context.Context, intent domain.OrderIntent) (*domain.Book, *domain.Order, error) {
	if intent.Quantity < 1 {
		return nil, nil, domain.ErrInvalidQuantity
	}

	if s.cache != nil && intent.RequestID != "" {
		key := fmt.Sprintf("order:%s:%s", intent.BuyerID, intent.RequestID)
		ok, err := s.cache.SetIdempotency(ctx, key)
		if err != nil {
			// Cache outage degrades to no duplicate suppression rather
			// than blocking orders.
			s.logger.Warn("idempotency check unavailable",
				zap.String("buyer_id", intent.BuyerID),
				zap.Error(err))
		} else if !ok {
			return nil, nil, domain.ErrDuplicateOrder
		}
	}

	book, err := s.decrementWithRetry(ctx, intent.BookID, intent.Quantity)
	if err != nil {
		return nil, nil, err
	}

	order := domain.Order{
		ID:        uuid.NewString(),
		BookID:    intent.BookID,
		BuyerID:   intent.BuyerID,
		Quantity:  intent.Quantity,
		Status:    domain.OrderStatusConfirmed,
		CreatedAt: time.Now(),
	}

	// The order is already committed from the buyer's perspective, so the
	// notification goes out even if the request context was cancelled,
	// and a publish failure is reported out-of-band only.
	event := domain.OrderFulfilled{
		OrderID:    order.ID,
		BookID:     intent.BookID,
		Quantity:   intent.Quantity,
		BuyerID:    intent.BuyerID,
		OccurredAt: order.CreatedAt,
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if pubErr := s.publisher.PublishOrderFulfilled(pubCtx, event); pubErr != nil {
		s.logger.Error("order notification failed",
			zap.String("order_id", order.ID),
			zap.Int64("book_id", intent.BookID),
			zap.Error(pubErr))
	}

	return book, &order, nil
}

func (s *OrderService) decrementWithRetry(ctx context.Context, bookID int64, quantity int) (*domain.Book, error) {
	var (
		book *domain.Book
		err  error
	)
	for attempt := 1; attempt <= maxDecrementAttempts; attempt++ {
		book, err = s.repo.DecrementStock(ctx, bookID, quantity)
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			return book, err
		}
		s.logger.Warn("stock decrement attempt failed",
			zap.Int64("book_id", bookID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < maxDecrementAttempts {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("stock decrement aborted: %w", err)
			}
		}
	}
	return nil, fmt.Errorf("stock decrement exhausted %d attempts: %w", maxDecrementAttempts, err)
}
