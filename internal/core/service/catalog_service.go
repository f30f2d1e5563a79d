package service

import (
	"context"
	"fmt"

	"github.com/rl1809/bookshop/internal/core/domain"
	"github.com/rl1809/bookshop/internal/port"
)

// CatalogService is thin pass-through CRUD over the repository. It never
// touches the stock decrement path.
type CatalogService struct {
	repo port.InventoryRepository
}

func NewCatalogService(repo port.InventoryRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListBooks returns all books with their author names resolved.
func (s *CatalogService) ListBooks(ctx context.Context) ([]domain.BookDetails, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	authors, err := s.repo.ListAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	names := make(map[int64]string, len(authors))
	for _, a := range authors {
		names[a.ID] = a.Name
	}

	details := make([]domain.BookDetails, 0, len(books))
	for _, b := range books {
		details = append(details, domain.BookDetails{Book: b, AuthorName: names[b.AuthorID]})
	}
	return details, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *CatalogService) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *CatalogService) CreateBook(ctx context.Context, book *domain.Book) error {
	return s.repo.CreateBook(ctx, book)
}

func (s *CatalogService) UpdateBook(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error) {
	return s.repo.UpdateBook(ctx, id, patch)
}
