package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/bookshop/internal/adapter/storage"
	"github.com/rl1809/bookshop/internal/core/domain"
	"github.com/rl1809/bookshop/internal/core/service"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.OrderFulfilled
}

func (p *capturePublisher) PublishOrderFulfilled(ctx context.Context, event domain.OrderFulfilled) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *storage.MemoryAdapter, *capturePublisher) {
	t.Helper()

	repo := storage.NewMemoryAdapter()
	repo.PutAuthor(domain.Author{ID: 101, Name: "Emily Brontë"})
	repo.PutBook(domain.Book{ID: 201, Title: "Wuthering Heights", AuthorID: 101, Price: decimal.NewFromFloat(11.11), Stock: 12})
	repo.PutBook(domain.Book{ID: 251, Title: "The Raven", AuthorID: 101, Price: decimal.NewFromFloat(13.13), Stock: 333})

	pub := &capturePublisher{}
	orderSvc := service.NewOrderService(repo, nil, pub, zap.NewNop())
	catalogSvc := service.NewCatalogService(repo)

	h := NewHTTPHandler(orderSvc, catalogSvc)
	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, repo, pub
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSubmitOrderEndpoint_Success(t *testing.T) {
	srv, repo, pub := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", `{"book_id":201,"quantity":3,"buyer_id":"alice"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[SubmitOrderResponse](t, resp)
	assert.NotEmpty(t, body.OrderID)
	assert.Equal(t, int64(201), body.BookID)
	assert.Equal(t, 9, body.Stock)
	assert.Equal(t, "confirmed", body.Status)

	book, err := repo.GetBook(context.Background(), 201)
	require.NoError(t, err)
	assert.Equal(t, 9, book.Stock)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "alice", pub.events[0].BuyerID)
}

func TestSubmitOrderEndpoint_InsufficientStock(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", `{"book_id":201,"quantity":100,"buyer_id":"bob"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	book, err := repo.GetBook(context.Background(), 201)
	require.NoError(t, err)
	assert.Equal(t, 12, book.Stock)
}

func TestSubmitOrderEndpoint_InvalidQuantity(t *testing.T) {
	srv, _, pub := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", `{"book_id":201,"quantity":0,"buyer_id":"bob"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	assert.Empty(t, pub.events)
}

func TestSubmitOrderEndpoint_BookNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", `{"book_id":999,"quantity":1,"buyer_id":"bob"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSubmitOrderEndpoint_MissingBuyer(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", `{"book_id":201,"quantity":1}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestListBooksEndpoint_DiscountLabel(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/books")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	books := decode[[]BookResponse](t, resp)
	require.Len(t, books, 2)

	byID := make(map[int64]BookResponse)
	for _, b := range books {
		byID[b.ID] = b
	}

	// Overstocked books are labelled, normal ones are not.
	assert.Equal(t, "The Raven -- 11% discount!", byID[251].Title)
	assert.Equal(t, "Wuthering Heights", byID[201].Title)
	assert.Equal(t, "Emily Brontë", byID[201].Author)
}

func TestGetBookEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/books/201")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	book := decode[BookResponse](t, resp)
	assert.Equal(t, "Wuthering Heights", book.Title)
	assert.Equal(t, 12, book.Stock)

	resp, err = http.Get(srv.URL + "/api/books/999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateAndUpdateBookEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/books", `{"title":"Eleonora","author_id":101,"price":"14.00","stock":555}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[BookResponse](t, resp)
	require.NotZero(t, created.ID)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/books/201", strings.NewReader(`{"stock":5}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	updated := decode[BookResponse](t, putResp)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, "Wuthering Heights", updated.Title)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
