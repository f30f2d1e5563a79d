package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID        int64           `db:"id"`
	Title     string          `db:"title"`
	AuthorID  int64           `db:"author_id"`
	Price     decimal.Decimal `db:"price"`
	Stock     int             `db:"stock"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

type Author struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// BookDetails is a Book joined with its resolved author name, used by
// listing output.
type BookDetails struct {
	Book
	AuthorName string
}

// BookPatch carries a partial update; nil fields are left untouched.
// Stock set through a patch is an absolute administrative write and is
// not synchronized with concurrent order submission (last writer wins).
type BookPatch struct {
	Title    *string
	AuthorID *int64
	Price    *decimal.Decimal
	Stock    *int
}
