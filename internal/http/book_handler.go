package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"minilibrary/internal/book"
	"minilibrary/internal/httpx"
	"minilibrary/internal/upload"
)

// maxMultipartMemory bounds how much of a multipart body is buffered in
// memory before spilling to disk.
const maxMultipartMemory = 32 << 20

type BookHandler struct {
	svc     *book.Service
	uploads *upload.Pipeline
}

func NewBookHandler(svc *book.Service, uploads *upload.Pipeline) *BookHandler {
	return &BookHandler{svc: svc, uploads: uploads}
}

// List handles GET /api/books
// @Summary List or search books
// @Description List all books, or search by exact title (case-insensitive)
// @Tags books
// @Produce json
// @Param search query string false "Whole-title search term"
// @Param sort query string false "Sort key (title, author, createdAt, publicationYear, rating)"
// @Param desc query bool false "Sort descending"
// @Success 200 {array} book.Book
// @Router /api/books [get]
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	q := book.Query{
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
		Desc:   r.URL.Query().Get("desc") == "true",
	}

	books, err := h.svc.List(r.Context(), q)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to list books")
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Get handles GET /api/books/{id}
// @Summary Get a book
// @Description Look up by surrogate id first, then by public bookId
// @Tags books
// @Produce json
// @Param id path string true "Surrogate id or bookId"
// @Success 200 {object} book.Book
// @Failure 404 {object} httpx.MessageResponse
// @Router /api/books/{id} [get]
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to fetch book")
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Create handles POST /api/books (multipart form).
// @Summary Create a book
// @Tags books
// @Accept mpfd
// @Produce json
// @Success 201 {object} book.Book
// @Failure 400 {object} httpx.MessageResponse
// @Router /api/books [post]
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req := CreateBookRequest{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Description: r.FormValue("description"),
	}
	if missing := ValidateRequired(req); len(missing) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, (&book.ValidationError{Fields: missing}).Error())
		return
	}

	in := book.CreateInput{
		BookID:      r.FormValue("bookId"),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		// A pre-uploaded reference may stand in for a cover file part.
		CoverImage: r.FormValue("coverImage"),
		Genre:      r.FormValue("genre"),
		ISBN:       r.FormValue("isbn"),
	}
	if v := r.FormValue("publicationYear"); v != "" {
		in.PublicationYear, _ = strconv.Atoi(v)
	}
	if v := r.FormValue("rating"); v != "" {
		in.Rating, _ = strconv.ParseFloat(v, 64)
	}
	if v := r.FormValue("availability"); v != "" {
		avail := v == "true"
		in.Availability = &avail
	}

	// Files are stored before the record is written; any file failure aborts
	// the request with nothing persisted in the catalog.
	if fhs := r.MultipartForm.File[upload.FieldCoverImage]; len(fhs) > 0 {
		ref, err := h.uploads.Store(r.Context(), upload.FieldCoverImage, fhs[0])
		if err != nil {
			uploadError(w, err)
			return
		}
		in.CoverImage = ref
	}
	if fhs := r.MultipartForm.File[upload.FieldPDFFile]; len(fhs) > 0 {
		ref, err := h.uploads.Store(r.Context(), upload.FieldPDFFile, fhs[0])
		if err != nil {
			uploadError(w, err)
			return
		}
		in.PDFFile = ref
	}

	b, err := h.svc.Create(r.Context(), in)
	if err != nil {
		var verr *book.ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.JSONError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, book.ErrBookIDTaken):
			httpx.JSONError(w, http.StatusBadRequest, "Book id already in use")
		case errors.Is(err, book.ErrAllocationExhausted):
			httpx.JSONError(w, http.StatusInternalServerError, "Could not allocate a unique book id")
		default:
			httpx.JSONError(w, http.StatusBadRequest, "Failed to create book")
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

// Update handles PUT /api/books/{id} (JSON body, partial fields).
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Success 200 {object} book.Book
// @Failure 404 {object} httpx.MessageResponse
// @Router /api/books/{id} [put]
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in book.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.svc.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusBadRequest, "Failed to update book")
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Delete handles DELETE /api/books/{id}.
// @Summary Delete a book
// @Tags books
// @Produce json
// @Success 200 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.MessageResponse
// @Router /api/books/{id} [delete]
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to delete book")
		return
	}
	httpx.JSONMessage(w, http.StatusOK, "Book deleted")
}

// UploadPDF handles POST /api/books/{id}/upload-pdf (multipart form, field
// "pdf").
// @Summary Attach a PDF to a book
// @Tags books
// @Accept mpfd
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} httpx.MessageResponse
// @Router /api/books/{id}/upload-pdf [post]
func (h *BookHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// 404 wins over a missing file part.
	if _, err := h.svc.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to fetch book")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "No PDF file uploaded")
		return
	}
	fhs := r.MultipartForm.File[upload.FieldPDF]
	if len(fhs) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "No PDF file uploaded")
		return
	}

	ref, err := h.uploads.Store(r.Context(), upload.FieldPDF, fhs[0])
	if err != nil {
		uploadError(w, err)
		return
	}

	if _, err := h.svc.AttachPDF(r.Context(), id, ref); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to attach PDF")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": "PDF uploaded successfully",
		"pdfFile": ref,
	})
}

func uploadError(w http.ResponseWriter, err error) {
	var typeErr *upload.InvalidTypeError
	if errors.As(err, &typeErr) {
		httpx.JSONError(w, http.StatusBadRequest, typeErr.Error())
		return
	}
	httpx.JSONError(w, http.StatusBadRequest, "Failed to store uploaded file")
}
