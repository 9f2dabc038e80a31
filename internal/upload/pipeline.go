// Package upload validates multipart file parts by field role and streams
// accepted files into the blob store.
package upload

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"minilibrary/internal/book"
)

// Field roles accepted from multipart requests.
const (
	FieldCoverImage = "coverImage"
	FieldPDFFile    = "pdfFile"
	FieldPDF        = "pdf"
)

// InvalidTypeError reports a part whose declared Content-Type does not match
// its field role.
type InvalidTypeError struct {
	Field string
}

func (e *InvalidTypeError) Error() string {
	switch e.Field {
	case FieldCoverImage:
		return "Only image files are allowed for cover image"
	default:
		return "Only PDF files are allowed for " + e.Field
	}
}

// StorageError wraps a blob store write failure.
type StorageError struct {
	Field string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to store %s: %v", e.Field, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Pipeline streams validated multipart parts into a blob store.
type Pipeline struct {
	blobs book.BlobStore
	// now is swappable in tests; it feeds the storage-name token.
	now func() time.Time
}

func NewPipeline(blobs book.BlobStore) *Pipeline {
	return &Pipeline{blobs: blobs, now: time.Now}
}

// Store validates one file part against its field role and writes it to the
// blob store, returning the assigned reference after the write is
// acknowledged. The storage name combines a millisecond timestamp with the
// original filename; that keeps names distinguishable but is not a security
// boundary, the store-assigned reference is what gets persisted.
func (p *Pipeline) Store(ctx context.Context, field string, fh *multipart.FileHeader) (string, error) {
	contentType := fh.Header.Get("Content-Type")
	switch field {
	case FieldCoverImage:
		if !strings.HasPrefix(contentType, "image/") {
			return "", &InvalidTypeError{Field: field}
		}
	case FieldPDFFile, FieldPDF:
		if contentType != "application/pdf" {
			return "", &InvalidTypeError{Field: field}
		}
	default:
		return "", fmt.Errorf("unknown upload field %q", field)
	}

	f, err := fh.Open()
	if err != nil {
		return "", &StorageError{Field: field, Err: err}
	}
	defer f.Close()

	name := fmt.Sprintf("%d-%s", p.now().UnixMilli(), fh.Filename)
	ref, err := p.blobs.Put(ctx, name, contentType, f)
	if err != nil {
		return "", &StorageError{Field: field, Err: err}
	}
	return ref, nil
}
