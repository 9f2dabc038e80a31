package book

import (
	"context"
	"io"
)

// Repository defines the contract for book persistence.
type Repository interface {
	Insert(ctx context.Context, b *Book) error
	FindByID(ctx context.Context, id string) (Book, error)
	FindByBookID(ctx context.Context, bookID string) (Book, error)
	BookIDExists(ctx context.Context, bookID string) (bool, error)
	List(ctx context.Context, q Query) ([]Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
}

// Blob is an open download stream plus the metadata recorded at upload time.
type Blob struct {
	io.ReadCloser
	Name        string
	ContentType string
	Size        int64
}

// BlobStore defines the contract for binary asset storage. Put returns the
// store-assigned reference once the write is durably acknowledged.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (*Blob, error)
	Remove(ctx context.Context, ref string) error
}
