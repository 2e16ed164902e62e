package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/t-sasaki1124/book-review-portal/internal/httpx"
	"github.com/t-sasaki1124/book-review-portal/internal/server"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	serverAddress := getEnv("APP_ADDR", ":8080")
	databaseDSN := os.Getenv("DB_DSN")
	jwtSecret := getEnv("JWT_SECRET", "")
	rateLimitRPS := getFloatEnv("RATE_LIMIT_RPS", 5)
	rateLimitBurst := getIntEnv("RATE_LIMIT_BURST", 10)

	var repo server.Repository
	var dbPool *pgxpool.Pool
	if databaseDSN == "" {
		log.Println("DB_DSN not set, using in-memory record store")
		repo = server.NewMemoryRepo()
	} else {
		dbPool = mustOpenDB(databaseDSN)
		defer dbPool.Close()
		repo = server.NewPostgresRepo(dbPool)
	}

	handler := server.NewHandler(repo)

	router := http.NewServeMux()
	handler.Routes(router)

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if dbPool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := dbPool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	rateLimit := httpx.NewRateLimitMiddleware(rateLimitRPS, rateLimitBurst)

	var wrapped http.Handler = router
	wrapped = rateLimit.Middleware(wrapped)
	if jwtSecret != "" {
		wrapped = httpx.AuthMiddleware(jwtSecret)(wrapped)
	}
	wrapped = httpx.RequestSizeLimitMiddleware(2 << 20)(wrapped) // inline cover images
	wrapped = httpx.CORSMiddleware([]string{"*"})(wrapped)
	wrapped = httpx.SecurityHeadersMiddleware(wrapped)
	wrapped = httpx.RecoveryMiddleware(wrapped)
	wrapped = httpx.AccessLogMiddleware(wrapped)
	wrapped = httpx.RequestIDMiddleware(wrapped)

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      wrapped,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting record API on %s", serverAddress)
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

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
