package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rl1809/bookshop/internal/core/domain"
	"github.com/rl1809/bookshop/internal/core/service"
)

// Books above this stock level get a discount label on listing output.
// Display-only, never persisted.
const overstockThreshold = 111

const discountSuffix = " -- 11% discount!"

type HTTPHandler struct {
	orderService   *service.OrderService
	catalogService *service.CatalogService
}

func NewHTTPHandler(orderService *service.OrderService, catalogService *service.CatalogService) *HTTPHandler {
	return &HTTPHandler{
		orderService:   orderService,
		catalogService: catalogService,
	}
}

// Register attaches all routes to mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /api/books", h.ListBooks)
	mux.HandleFunc("GET /api/books/{id}", h.GetBook)
	mux.HandleFunc("POST /api/books", h.CreateBook)
	mux.HandleFunc("PUT /api/books/{id}", h.UpdateBook)
	mux.HandleFunc("GET /api/authors", h.ListAuthors)
	mux.HandleFunc("POST /api/orders", h.SubmitOrder)
}

type BookResponse struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	AuthorID int64           `json:"author_id"`
	Author   string          `json:"author,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
}

type BookRequest struct {
	Title    string           `json:"title"`
	AuthorID int64            `json:"author_id"`
	Price    *decimal.Decimal `json:"price"`
	Stock    *int             `json:"stock"`
}

type AuthorResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SubmitOrderRequest struct {
	BookID    int64  `json:"book_id"`
	Quantity  int    `json:"quantity"`
	BuyerID   string `json:"buyer_id"`
	RequestID string `json:"request_id"`
}

type SubmitOrderResponse struct {
	OrderID string `json:"order_id"`
	BookID  int64  `json:"book_id"`
	Stock   int    `json:"stock"`
	Status  string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalogService.ListBooks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]BookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, BookResponse{
			ID:       b.ID,
			Title:    displayTitle(b.Title, b.Stock),
			AuthorID: b.AuthorID,
			Author:   b.AuthorName,
			Price:    b.Price,
			Stock:    b.Stock,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
		return
	}

	book, err := h.catalogService.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookResponse(book))
}

func (h *HTTPHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "title is required"})
		return
	}

	book := domain.Book{
		Title:    req.Title,
		AuthorID: req.AuthorID,
	}
	if req.Price != nil {
		book.Price = *req.Price
	}
	if req.Stock != nil {
		book.Stock = *req.Stock
	}

	if err := h.catalogService.CreateBook(r.Context(), &book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookResponse(&book))
}

func (h *HTTPHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
		return
	}

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	patch := domain.BookPatch{
		Price: req.Price,
		Stock: req.Stock,
	}
	if req.Title != "" {
		patch.Title = &req.Title
	}
	if req.AuthorID != 0 {
		patch.AuthorID = &req.AuthorID
	}

	book, err := h.catalogService.UpdateBook(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookResponse(book))
}

func (h *HTTPHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.catalogService.ListAuthors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]AuthorResponse, 0, len(authors))
	for _, a := range authors {
		resp = append(resp, AuthorResponse{ID: a.ID, Name: a.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.BuyerID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "buyer_id is required"})
		return
	}

	book, order, err := h.orderService.SubmitOrder(r.Context(), domain.OrderIntent{
		BookID:    req.BookID,
		Quantity:  req.Quantity,
		BuyerID:   req.BuyerID,
		RequestID: req.RequestID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SubmitOrderResponse{
		OrderID: order.ID,
		BookID:  book.ID,
		Stock:   book.Stock,
		Status:  string(order.Status),
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:       b.ID,
		Title:    b.Title,
		AuthorID: b.AuthorID,
		Price:    b.Price,
		Stock:    b.Stock,
	}
}

func displayTitle(title string, stock int) string {
	if stock > overstockThreshold {
		return title + discountSuffix
	}
	return title
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		status = http.StatusNotFound
		message = domain.ErrBookNotFound.Error()
	case errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusBadRequest
		message = domain.ErrInvalidQuantity.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		status = http.StatusConflict
		message = domain.ErrInsufficientStock.Error()
	case errors.Is(err, domain.ErrDuplicateOrder):
		status = http.StatusConflict
		message = domain.ErrDuplicateOrder.Error()
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		message = domain.ErrStoreUnavailable.Error()
	}

	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
