package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"minilibrary/internal/book"
	apphttp "minilibrary/internal/http"
	"minilibrary/internal/store"
	"minilibrary/internal/upload"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	serverAddress := getEnv("APP_ADDR", ":5000")
	mongoURI := mustGetEnv("MONGO_URI")
	mongoDB := getEnv("MONGO_DB", "minilibrary")
	staticDir := getEnv("STATIC_DIR", "")

	ctx := context.Background()
	client := mustOpenStore(ctx, mongoURI, mongoDB)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Close(shutdownCtx)
	}()

	bookRepository := store.NewBookMongo(client)
	blobStore := store.NewGridFS(client)

	bookService := book.NewService(bookRepository)
	uploadPipeline := upload.NewPipeline(blobStore)

	bookHandler := apphttp.NewBookHandler(bookService, uploadPipeline)
	fileHandler := apphttp.NewFileHandler(blobStore)

	router := apphttp.NewRouter(bookHandler, fileHandler, apphttp.RouterConfig{
		CORSOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MaxBodyBytes: getEnvInt64("MAX_UPLOAD_BYTES", 64<<20),
		RateRPS:      getEnvFloat("RATE_LIMIT_RPS", 0),
		RateBurst:    int(getEnvInt64("RATE_LIMIT_BURST", 20)),
		StaticDir:    staticDir,
		Ready:        client.Ping,
	})

	httpServer := &http.Server{
		Addr:        serverAddress,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	log.Printf("Starting server on %s", serverAddress)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustGetEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	log.Fatalf("missing required environment variable: %s", key)
	return ""
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func mustOpenStore(ctx context.Context, uri, dbName string) *store.Client {
	client, err := store.Open(ctx, uri, dbName)
	if err != nil {
		log.Fatalf("cannot connect to mongodb (%s): %v", redactURI(uri), err)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		_ = client.Close(ctx)
		log.Fatalf("cannot create indexes: %v", err)
	}
	log.Println("database connection OK")
	return client
}

func redactURI(uri string) string {
	const marker = "://"
	start := strings.Index(uri, marker)
	if start < 0 {
		return uri
	}
	start += len(marker)
	end := strings.Index(uri[start:], "@")
	if end < 0 {
		return uri
	}
	return uri[:start] + "***" + uri[start+end:]
}
