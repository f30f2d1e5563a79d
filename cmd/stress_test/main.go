package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/bookshop/internal/adapter/storage"
	"github.com/rl1809/bookshop/internal/core/domain"
	"github.com/rl1809/bookshop/internal/core/service"
)

const (
	bookID        = int64(7)
	initialStock  = 20
	totalRequests = 50
)

// nopPublisher drops events; this tool measures the decrement path only.
type nopPublisher struct{}

func (nopPublisher) PublishOrderFulfilled(ctx context.Context, event domain.OrderFulfilled) error {
	return nil
}

func (nopPublisher) Close() error { return nil }

func main() {
	ctx := context.Background()

	repo := storage.NewMemoryAdapter()
	repo.PutBook(domain.Book{
		ID:    bookID,
		Title: "Stress Test Book",
		Price: decimal.NewFromFloat(9.99),
		Stock: initialStock,
	})

	orderService := service.NewOrderService(repo, nil, nopPublisher{}, zap.NewNop())

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(buyerID int) {
			defer wg.Done()

			_, _, err := orderService.SubmitOrder(ctx, domain.OrderIntent{
				BookID:   bookID,
				Quantity: 1,
				BuyerID:  fmt.Sprintf("buyer-%d", buyerID),
			})
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	book, err := repo.GetBook(ctx, bookID)
	if err != nil {
		panic(err)
	}

	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Final Stock:      %d\n", book.Stock)
	fmt.Printf("Elapsed:          %v\n", elapsed)

	if int(success) != initialStock {
		fmt.Println("RESULT: FAIL - oversold or undersold")
		return
	}
	if book.Stock != 0 {
		fmt.Println("RESULT: FAIL - stock accounting mismatch")
		return
	}
	fmt.Println("RESULT: PASS - no overselling")
}
