package book

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a book is not found under either key.
var ErrNotFound = errors.New("book not found")

// ErrDuplicateBookID is returned by the repository when an insert hits the
// unique index on bookId.
var ErrDuplicateBookID = errors.New("duplicate book id")

// ErrBookIDTaken is returned when a client-supplied bookId already exists.
var ErrBookIDTaken = errors.New("book id already in use")

// ErrAllocationExhausted is returned when the allocator cannot find a free
// bookId within its retry bound.
var ErrAllocationExhausted = errors.New("could not allocate a unique book id")

// ErrBlobNotFound is returned by the blob store for an unknown file id.
var ErrBlobNotFound = errors.New("file not found")

// ValidationError reports required fields that were missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Book represents a catalog entry. ID is the store-assigned surrogate key;
// BookID is the short public identifier shown to users.
type Book struct {
	ID              string    `json:"id"`
	BookID          string    `json:"bookId"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	CoverImage      string    `json:"coverImage"`
	PDFFile         string    `json:"pdfFile"`
	Genre           string    `json:"genre"`
	PublicationYear int       `json:"publicationYear"`
	Rating          float64   `json:"rating"`
	Availability    bool      `json:"availability"`
	ISBN            string    `json:"isbn"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Query defines filters for listing books.
type Query struct {
	// Search matches the whole title, case-insensitively. Empty means all.
	Search string
	Sort   string
	Desc   bool
}
