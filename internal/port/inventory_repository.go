package port

import (
	"context"

	"github.com/rl1809/bookshop/internal/core/domain"
)

type InventoryRepository interface {
	// GetBook retrieves a book by id, ErrBookNotFound if absent
	GetBook(ctx context.Context, id int64) (*domain.Book, error)

	// ListBooks returns all books in the catalog
	ListBooks(ctx context.Context) ([]domain.Book, error)

	// ListAuthors returns all known authors
	ListAuthors(ctx context.Context) ([]domain.Author, error)

	// CreateBook persists a new book and assigns its id
	CreateBook(ctx context.Context, book *domain.Book) error

	// UpdateBook applies the non-nil fields of patch to an existing book
	UpdateBook(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error)

	// DecrementStock subtracts quantity from the book's stock only if the
	// committed stock still covers it, and returns the post-decrement book.
	// Fails with ErrBookNotFound, ErrInsufficientStock, or
	// ErrStoreUnavailable; the stock value is never left partially written.
	DecrementStock(ctx context.Context, bookID int64, quantity int) (*domain.Book, error)
}
