// Seeds demo books for local frontend work. Cover placeholders are 1x1 PNGs
// written into GridFS so every seeded book is valid (cover required).
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"

	"minilibrary/internal/book"
	"minilibrary/internal/store"

	"github.com/joho/godotenv"
)

// Smallest valid PNG: 1x1 transparent pixel.
var placeholderPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type seedBook struct {
	title, author, description, genre, isbn string
	year                                    int
	rating                                  float64
}

var seedBooks = []seedBook{
	{"Dune", "Frank Herbert", "Paul Atreides and the desert planet Arrakis.", "Science Fiction", "9780441172719", 1965, 4.7},
	{"Dune Messiah", "Frank Herbert", "The second book of the Dune saga.", "Science Fiction", "9780441172696", 1969, 4.2},
	{"The Hobbit", "J.R.R. Tolkien", "Bilbo Baggins leaves the Shire.", "Fantasy", "9780547928227", 1937, 4.6},
	{"Foundation", "Isaac Asimov", "Psychohistory and the fall of a galactic empire.", "Science Fiction", "9780553293357", 1951, 4.4},
	{"A Brief History of Time", "Stephen Hawking", "From the Big Bang to black holes.", "Science", "9780553380163", 1988, 4.3},
}

func main() {
	_ = godotenv.Load(".env.local")

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "minilibrary"
	}

	ctx := context.Background()
	client, err := store.Open(ctx, uri, dbName)
	if err != nil {
		log.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer client.Close(ctx)

	if err := client.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	repo := store.NewBookMongo(client)
	blobs := store.NewGridFS(client)
	svc := book.NewService(repo)

	seeded := 0
	for i, sb := range seedBooks {
		existing, err := repo.List(ctx, book.Query{Search: sb.title})
		if err != nil {
			log.Fatalf("Failed to check existing books: %v", err)
		}
		if len(existing) > 0 {
			log.Printf("already seeded %q", sb.title)
			continue
		}

		coverRef, err := blobs.Put(ctx, fmt.Sprintf("seed-cover-%d.png", i+1), "image/png", bytes.NewReader(placeholderPNG))
		if err != nil {
			log.Fatalf("Failed to store cover: %v", err)
		}

		_, err = svc.Create(ctx, book.CreateInput{
			Title:           sb.title,
			Author:          sb.author,
			Description:     sb.description,
			CoverImage:      coverRef,
			Genre:           sb.genre,
			PublicationYear: sb.year,
			Rating:          sb.rating,
			ISBN:            sb.isbn,
		})
		if err != nil {
			// Orphans the cover blob; acceptable for a dev seeding tool.
			log.Printf("skipping %q: %v", sb.title, err)
			continue
		}
		seeded++
	}

	log.Printf("Seeded %d books into %s", seeded, dbName)
}
