package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/bookshop/internal/core/domain"
)

// MemoryAdapter is an in-memory InventoryRepository used for tests and
// database-free development. Each book carries its own lock so that
// decrements on different books never contend with each other.
type MemoryAdapter struct {
	mu           sync.RWMutex
	books        map[int64]*bookEntry
	authors      map[int64]domain.Author
	nextBookID   int64
	nextAuthorID int64
}

type bookEntry struct {
	mu   sync.Mutex
	book domain.Book
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		books:   make(map[int64]*bookEntry),
		authors: make(map[int64]domain.Author),
	}
}

// PutBook inserts or replaces a book under a fixed id, for seeding.
func (m *MemoryAdapter) PutBook(book domain.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = &bookEntry{book: book}
	if book.ID > m.nextBookID {
		m.nextBookID = book.ID
	}
}

// PutAuthor inserts or replaces an author under a fixed id, for seeding.
func (m *MemoryAdapter) PutAuthor(author domain.Author) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authors[author.ID] = author
	if author.ID > m.nextAuthorID {
		m.nextAuthorID = author.ID
	}
}

func (m *MemoryAdapter) entry(id int64) (*bookEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.books[id]
	return e, ok
}

func (m *MemoryAdapter) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	e, ok := m.entry(id)
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	book := e.book
	return &book, nil
}

func (m *MemoryAdapter) ListBooks(ctx context.Context) ([]domain.Book, error) {
	m.mu.RLock()
	entries := make([]*bookEntry, 0, len(m.books))
	for _, e := range m.books {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	books := make([]domain.Book, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		books = append(books, e.book)
		e.mu.Unlock()
	}
	return books, nil
}

func (m *MemoryAdapter) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	authors := make([]domain.Author, 0, len(m.authors))
	for _, a := range m.authors {
		authors = append(authors, a)
	}
	return authors, nil
}

func (m *MemoryAdapter) CreateBook(ctx context.Context, book *domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBookID++
	book.ID = m.nextBookID
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	copied := *book
	m.books[book.ID] = &bookEntry{book: copied}
	return nil
}

func (m *MemoryAdapter) UpdateBook(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error) {
	e, ok := m.entry(id)
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if patch.Title != nil {
		e.book.Title = *patch.Title
	}
	if patch.AuthorID != nil {
		e.book.AuthorID = *patch.AuthorID
	}
	if patch.Price != nil {
		e.book.Price = *patch.Price
	}
	if patch.Stock != nil {
		e.book.Stock = *patch.Stock
	}
	e.book.UpdatedAt = time.Now()
	book := e.book
	return &book, nil
}

// DecrementStock holds the book's lock across the check and the write,
// so concurrent decrements on the same book serialize and stock can
// never go negative.
func (m *MemoryAdapter) DecrementStock(ctx context.Context, bookID int64, quantity int) (*domain.Book, error) {
	e, ok := m.entry(bookID)
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if quantity > e.book.Stock {
		return nil, domain.ErrInsufficientStock
	}
	e.book.Stock -= quantity
	e.book.UpdatedAt = time.Now()
	book := e.book
	return &book, nil
}
