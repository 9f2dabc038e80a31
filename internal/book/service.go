package book

import (
	"context"
	"errors"
	"time"
)

// CreateInput carries the fields for a new book. CoverImage and PDFFile are
// blob references; file upload happens before the service is called.
type CreateInput struct {
	BookID          string
	Title           string
	Author          string
	Description     string
	CoverImage      string
	PDFFile         string
	Genre           string
	PublicationYear int
	Rating          float64
	Availability    *bool
	ISBN            string
}

// UpdateInput carries a partial update. Zero values mean "not provided" and
// leave the stored field untouched, so an explicit empty string cannot clear
// a field. That mirrors the long-standing API behavior and clients depend on
// it.
type UpdateInput struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Description     string  `json:"description"`
	CoverImage      string  `json:"coverImage"`
	PDFFile         string  `json:"pdfFile"`
	Genre           string  `json:"genre"`
	PublicationYear int     `json:"publicationYear"`
	Rating          float64 `json:"rating"`
	Availability    bool    `json:"availability"`
	ISBN            string  `json:"isbn"`
}

// Service orchestrates all book mutations and dual-key reads.
type Service struct {
	repo  Repository
	alloc *Allocator
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, alloc: NewAllocator(repo)}
}

// Create validates required fields, allocates a bookId when the caller did
// not supply one, and inserts the record. The allocator's existence check can
// lose a race with a concurrent create; when a server-generated id hits the
// unique index at insert time, one full re-allocation cycle runs before the
// error surfaces.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Author == "" {
		missing = append(missing, "author")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.CoverImage == "" {
		missing = append(missing, "coverImage")
	}
	if len(missing) > 0 {
		return Book{}, &ValidationError{Fields: missing}
	}

	generated := in.BookID == ""
	bookID := in.BookID
	if generated {
		id, err := s.alloc.Allocate(ctx)
		if err != nil {
			return Book{}, err
		}
		bookID = id
	}

	availability := true
	if in.Availability != nil {
		availability = *in.Availability
	}

	now := time.Now().UTC()
	b := Book{
		BookID:          bookID,
		Title:           in.Title,
		Author:          in.Author,
		Description:     in.Description,
		CoverImage:      in.CoverImage,
		PDFFile:         in.PDFFile,
		Genre:           in.Genre,
		PublicationYear: in.PublicationYear,
		Rating:          in.Rating,
		Availability:    availability,
		ISBN:            in.ISBN,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.repo.Insert(ctx, &b)
	if errors.Is(err, ErrDuplicateBookID) {
		if !generated {
			return Book{}, ErrBookIDTaken
		}
		// Lost the race between the existence check and the insert.
		id, allocErr := s.alloc.Allocate(ctx)
		if allocErr != nil {
			return Book{}, allocErr
		}
		b.BookID = id
		err = s.repo.Insert(ctx, &b)
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

// Get looks a book up by surrogate id first when the key has the surrogate
// shape, then falls back to the public bookId.
func (s *Service) Get(ctx context.Context, key string) (Book, error) {
	if ParseKey(key) == KeySurrogate {
		b, err := s.repo.FindByID(ctx, key)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Book{}, err
		}
	}
	return s.repo.FindByBookID(ctx, key)
}

// GetByID looks a book up by surrogate id only. Mutation routes address
// books this way; only reads are dual-key.
func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a falsy-skip partial update to the book with the given
// surrogate id.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	if in.Title != "" {
		b.Title = in.Title
	}
	if in.Author != "" {
		b.Author = in.Author
	}
	if in.Description != "" {
		b.Description = in.Description
	}
	if in.CoverImage != "" {
		b.CoverImage = in.CoverImage
	}
	if in.PDFFile != "" {
		b.PDFFile = in.PDFFile
	}
	if in.Genre != "" {
		b.Genre = in.Genre
	}
	if in.PublicationYear != 0 {
		b.PublicationYear = in.PublicationYear
	}
	if in.Rating != 0 {
		b.Rating = in.Rating
	}
	if in.Availability {
		b.Availability = true
	}
	if in.ISBN != "" {
		b.ISBN = in.ISBN
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Delete removes the record. Blob assets are left in place; cleanup is a
// deliberate non-feature for now.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns books matching the query, or all books when the query is
// empty.
func (s *Service) List(ctx context.Context, q Query) ([]Book, error) {
	return s.repo.List(ctx, q)
}

// AttachPDF sets the pdf reference on an existing book. A later upload
// overwrites the reference; the previous blob is not removed.
func (s *Service) AttachPDF(ctx context.Context, id, ref string) (Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	b.PDFFile = ref
	b.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}
