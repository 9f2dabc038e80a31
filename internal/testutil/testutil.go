// Package testutil provides in-memory store fakes and request builders
// shared across test packages.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"sort"
	"strings"
	"sync"

	"minilibrary/internal/book"
)

// MemRepo is an in-memory book.Repository with the same observable behavior
// as the Mongo adapter: unique bookId, anchored case-insensitive search,
// insertion-order listing.
type MemRepo struct {
	mu     sync.Mutex
	seq    int
	books  []book.Book
	FailOn map[string]error // method name -> forced error
}

func NewMemRepo() *MemRepo {
	return &MemRepo{}
}

func (m *MemRepo) fail(method string) error {
	if m.FailOn == nil {
		return nil
	}
	return m.FailOn[method]
}

func (m *MemRepo) Insert(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Insert"); err != nil {
		return err
	}
	for _, existing := range m.books {
		if existing.BookID == b.BookID {
			return book.ErrDuplicateBookID
		}
	}
	m.seq++
	b.ID = fmt.Sprintf("%024x", m.seq)
	m.books = append(m.books, *b)
	return nil
}

func (m *MemRepo) FindByID(_ context.Context, id string) (book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("FindByID"); err != nil {
		return book.Book{}, err
	}
	for _, b := range m.books {
		if b.ID == id {
			return b, nil
		}
	}
	return book.Book{}, book.ErrNotFound
}

func (m *MemRepo) FindByBookID(_ context.Context, bookID string) (book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("FindByBookID"); err != nil {
		return book.Book{}, err
	}
	for _, b := range m.books {
		if b.BookID == bookID {
			return b, nil
		}
	}
	return book.Book{}, book.ErrNotFound
}

func (m *MemRepo) BookIDExists(_ context.Context, bookID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("BookIDExists"); err != nil {
		return false, err
	}
	for _, b := range m.books {
		if b.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemRepo) List(_ context.Context, q book.Query) ([]book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("List"); err != nil {
		return nil, err
	}

	var re *regexp.Regexp
	if q.Search != "" {
		re = regexp.MustCompile("(?i)^" + regexp.QuoteMeta(q.Search) + "$")
	}

	out := []book.Book{}
	for _, b := range m.books {
		if re == nil || re.MatchString(b.Title) {
			out = append(out, b)
		}
	}
	if q.Sort == "title" {
		sort.SliceStable(out, func(i, j int) bool {
			if q.Desc {
				return out[i].Title > out[j].Title
			}
			return out[i].Title < out[j].Title
		})
	}
	return out, nil
}

func (m *MemRepo) Update(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Update"); err != nil {
		return err
	}
	for i := range m.books {
		if m.books[i].ID == b.ID {
			m.books[i] = *b
			return nil
		}
	}
	return book.ErrNotFound
}

func (m *MemRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Delete"); err != nil {
		return err
	}
	for i := range m.books {
		if m.books[i].ID == id {
			m.books = append(m.books[:i], m.books[i+1:]...)
			return nil
		}
	}
	return book.ErrNotFound
}

// Count reports the number of stored books.
func (m *MemRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.books)
}

// Seed inserts books directly, bypassing error injection.
func (m *MemRepo) Seed(books ...book.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range books {
		m.seq++
		if b.ID == "" {
			b.ID = fmt.Sprintf("%024x", m.seq)
		}
		m.books = append(m.books, b)
	}
}

// MemBlob is one stored file in a MemBlobStore.
type MemBlob struct {
	Name        string
	ContentType string
	Data        []byte
}

// MemBlobStore is an in-memory book.BlobStore.
type MemBlobStore struct {
	mu    sync.Mutex
	seq   int
	blobs map[string]MemBlob
	// PutErr, when set, fails every Put.
	PutErr error
}

func NewMemBlobStore() *MemBlobStore {
	return &MemBlobStore{blobs: make(map[string]MemBlob)}
}

func (m *MemBlobStore) Put(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return "", m.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.seq++
	ref := fmt.Sprintf("%024x", 0xb10b0000+m.seq)
	m.blobs[ref] = MemBlob{Name: name, ContentType: contentType, Data: data}
	return ref, nil
}

func (m *MemBlobStore) Open(_ context.Context, ref string) (*book.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[ref]
	if !ok {
		return nil, book.ErrBlobNotFound
	}
	return &book.Blob{
		ReadCloser:  io.NopCloser(bytes.NewReader(b.Data)),
		Name:        b.Name,
		ContentType: b.ContentType,
		Size:        int64(len(b.Data)),
	}, nil
}

func (m *MemBlobStore) Remove(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[ref]; !ok {
		return book.ErrBlobNotFound
	}
	delete(m.blobs, ref)
	return nil
}

// Get returns a stored blob by reference.
func (m *MemBlobStore) Get(ref string) (MemBlob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[ref]
	return b, ok
}

// Len reports the number of stored blobs.
func (m *MemBlobStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

// FilePart describes one file part for MultipartRequest.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// MultipartRequest builds a multipart/form-data request from form values and
// file parts.
func MultipartRequest(method, path string, fields map[string]string, files ...FilePart) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		h.Set("Content-Type", f.ContentType)
		part, _ := mw.CreatePart(h)
		_, _ = part.Write(f.Data)
	}
	_ = mw.Close()

	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

// JSONRequest builds a request with a JSON body.
func JSONRequest(method, path string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	data, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(data))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// DecodeBody decodes a recorded JSON response body into a map.
func DecodeBody(w *httptest.ResponseRecorder) map[string]interface{} {
	var m map[string]interface{}
	_ = json.NewDecoder(strings.NewReader(w.Body.String())).Decode(&m)
	return m
}
