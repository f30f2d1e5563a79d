package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/rl1809/bookshop/internal/core/domain"
)

const bookColumns = `id, title, author_id, price, COALESCE(stock, 0) AS stock, created_at, updated_at`

type MySQLAdapter struct {
	db *sqlx.DB
}

func NewMySQLAdapter(db *sqlx.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	var book domain.Book
	err := m.db.GetContext(ctx, &book, `
		SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, storeError("query book", err)
	}
	return &book, nil
}

func (m *MySQLAdapter) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	err := m.db.SelectContext(ctx, &books, `
		SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, storeError("list books", err)
	}
	return books, nil
}

func (m *MySQLAdapter) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	var authors []domain.Author
	err := m.db.SelectContext(ctx, &authors, `SELECT id, name FROM authors ORDER BY id`)
	if err != nil {
		return nil, storeError("list authors", err)
	}
	return authors, nil
}

func (m *MySQLAdapter) CreateBook(ctx context.Context, book *domain.Book) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO books (title, author_id, price, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		book.Title, book.AuthorID, book.Price, book.Stock)
	if err != nil {
		return storeError("insert book", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storeError("insert book id", err)
	}
	book.ID = id
	created, err := m.GetBook(ctx, id)
	if err != nil {
		return err
	}
	*book = *created
	return nil
}

func (m *MySQLAdapter) UpdateBook(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.AuthorID != nil {
		sets = append(sets, "author_id = ?")
		args = append(args, *patch.AuthorID)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.Stock != nil {
		// Absolute stock write; not serialized against DecrementStock,
		// last writer wins.
		sets = append(sets, "stock = ?")
		args = append(args, *patch.Stock)
	}
	if len(sets) == 0 {
		return m.GetBook(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	result, err := m.db.ExecContext(ctx, `
		UPDATE books SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, storeError("update book", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, storeError("update book rows", err)
	}
	if rows == 0 {
		// Could also be an identical write; disambiguate via read.
		if _, err := m.GetBook(ctx, id); err != nil {
			return nil, err
		}
	}
	return m.GetBook(ctx, id)
}

// DecrementStock runs the check-then-write as a single conditional
// UPDATE, so the precondition is evaluated against the committed stock
// under the row lock. A NULL stock never satisfies the predicate.
func (m *MySQLAdapter) DecrementStock(ctx context.Context, bookID int64, quantity int) (*domain.Book, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeError("begin tx", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE books
		SET stock = stock - ?, updated_at = NOW()
		WHERE id = ? AND stock >= ?`,
		quantity, bookID, quantity)
	if err != nil {
		return nil, storeError("decrement stock", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, storeError("decrement stock rows", err)
	}
	if rows == 0 {
		var exists int
		err := tx.GetContext(ctx, &exists, `SELECT 1 FROM books WHERE id = ?`, bookID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		if err != nil {
			return nil, storeError("probe book", err)
		}
		return nil, domain.ErrInsufficientStock
	}

	var book domain.Book
	err = tx.GetContext(ctx, &book, `
		SELECT `+bookColumns+` FROM books WHERE id = ?`, bookID)
	if err != nil {
		return nil, storeError("read book after decrement", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeError("commit decrement", err)
	}
	return &book, nil
}

// storeError wraps driver failures; transient ones (connectivity,
// deadlock, lock wait timeout) are marked ErrStoreUnavailable so the
// service layer can retry the whole check-then-write.
func storeError(op string, err error) error {
	if isTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1205, 1213: // lock wait timeout, deadlock
			return true
		}
	}
	return false
}
