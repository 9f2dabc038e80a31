package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"minilibrary/internal/book"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookMongo implements book.Repository on a MongoDB collection.
type BookMongo struct {
	coll *mongo.Collection
}

func NewBookMongo(c *Client) *BookMongo {
	return &BookMongo{coll: c.Books()}
}

type bookDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	BookID          string             `bson:"bookId"`
	Title           string             `bson:"title"`
	Author          string             `bson:"author"`
	Description     string             `bson:"description"`
	CoverImage      string             `bson:"coverImage"`
	PDFFile         string             `bson:"pdfFile"`
	Genre           string             `bson:"genre"`
	PublicationYear int                `bson:"publicationYear"`
	Rating          float64            `bson:"rating"`
	Availability    bool               `bson:"availability"`
	ISBN            string             `bson:"isbn"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func toDoc(b *book.Book) (bookDoc, error) {
	d := bookDoc{
		BookID:          b.BookID,
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		CoverImage:      b.CoverImage,
		PDFFile:         b.PDFFile,
		Genre:           b.Genre,
		PublicationYear: b.PublicationYear,
		Rating:          b.Rating,
		Availability:    b.Availability,
		ISBN:            b.ISBN,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.ID != "" {
		oid, err := primitive.ObjectIDFromHex(b.ID)
		if err != nil {
			return bookDoc{}, err
		}
		d.ID = oid
	}
	return d, nil
}

func (d bookDoc) toBook() book.Book {
	return book.Book{
		ID:              d.ID.Hex(),
		BookID:          d.BookID,
		Title:           d.Title,
		Author:          d.Author,
		Description:     d.Description,
		CoverImage:      d.CoverImage,
		PDFFile:         d.PDFFile,
		Genre:           d.Genre,
		PublicationYear: d.PublicationYear,
		Rating:          d.Rating,
		Availability:    d.Availability,
		ISBN:            d.ISBN,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// Insert stores a new book and writes the assigned surrogate id back into b.
func (r *BookMongo) Insert(ctx context.Context, b *book.Book) error {
	d, err := toDoc(b)
	if err != nil {
		return err
	}
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return book.ErrDuplicateBookID
		}
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("store: unexpected inserted id type")
	}
	b.ID = oid.Hex()
	return nil
}

func (r *BookMongo) FindByID(ctx context.Context, id string) (book.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return book.Book{}, book.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *BookMongo) FindByBookID(ctx context.Context, bookID string) (book.Book, error) {
	return r.findOne(ctx, bson.M{"bookId": bookID})
}

func (r *BookMongo) findOne(ctx context.Context, filter bson.M) (book.Book, error) {
	var d bookDoc
	err := r.coll.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, err
	}
	return d.toBook(), nil
}

func (r *BookMongo) BookIDExists(ctx context.Context, bookID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"bookId": bookID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns books matching q. A search term matches the whole title as a
// case-insensitive anchored regex; the term is quoted so metacharacters in
// titles match literally.
func (r *BookMongo) List(ctx context.Context, q book.Query) ([]book.Book, error) {
	filter := bson.M{}
	if q.Search != "" {
		filter["title"] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(q.Search) + "$",
			Options: "i",
		}
	}

	findOpts := options.Find()
	if key, ok := sortKeys[q.Sort]; ok {
		dir := 1
		if q.Desc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: key, Value: dir}})
	}

	cur, err := r.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	books := []book.Book{}
	for cur.Next(ctx) {
		var d bookDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		books = append(books, d.toBook())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

var sortKeys = map[string]string{
	"title":           "title",
	"author":          "author",
	"createdAt":       "createdAt",
	"publicationYear": "publicationYear",
	"rating":          "rating",
}

func (r *BookMongo) Update(ctx context.Context, b *book.Book) error {
	d, err := toDoc(b)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *BookMongo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return book.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return book.ErrNotFound
	}
	return nil
}
