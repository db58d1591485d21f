/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Stockbook server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize the SQLite document store
  3. Create the API handler with its dependencies
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

CONFIGURATION:
  Flags, with environment variables as defaults:
    -port        HTTP server port             (PORT, default 8080)
    -db          SQLite database path         (DB_PATH, default stockbook.db)
                 Use ":memory:" for an in-memory database
    -backup-dir  Local snapshot directory     (BACKUP_DIR, default backups)
    -backup-url  Remote snapshot endpoint     (BACKUP_URL, optional)
  The bearer credential for remote backups comes only from the
  BACKUP_TOKEN environment variable - never from a flag.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - docstore/sqlite: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/stockbook/stockbook/api"
	"github.com/stockbook/stockbook/backup"
	"github.com/stockbook/stockbook/docstore/sqlite"
)

func main() {
	// .env is optional; real env vars win either way.
	godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "stockbook.db"), "SQLite database path")
	backupDir := flag.String("backup-dir", envStr("BACKUP_DIR", "backups"), "local snapshot directory")
	backupURL := flag.String("backup-url", envStr("BACKUP_URL", ""), "remote snapshot endpoint")
	flag.Parse()

	// Initialize store. Created once, injected everywhere, lives for the
	// whole process.
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)
	handler.BackupDir = *backupDir
	if *backupURL != "" {
		handler.Uploader = backup.NewUploader(*backupURL, os.Getenv("BACKUP_TOKEN"))
	}

	// Create router and server
	router := api.NewRouter(handler)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
