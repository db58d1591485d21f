/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the browser frontend

STATIC FILE SERVING:
  Serves the built scanner frontend from web/dist/ when present, with
  an index.html fallback for client-side routing.

SECURITY NOTE:
  No authentication middleware. Single local user, single device.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/parts", func(r chi.Router) {
			r.Get("/", h.ListParts)
			r.Post("/", h.SavePart)
			r.Get("/{sku}", h.GetPart)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.AddTransaction)
		})

		r.Get("/balances", h.GetBalances)
		r.Get("/customers/{name}/statement", h.GetStatement)
		r.Post("/backup", h.TriggerBackup)
	})

	// Serve the scanner frontend when built.
	staticDir := "./web/dist"
	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
			fullPath := filepath.Join(staticDir, req.URL.Path)
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, req, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, req)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Stockbook</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Stockbook API</h1>
<p>The frontend is not built yet.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/parts">/api/parts</a> - Stocked parts</li>
<li><a href="/api/transactions">/api/transactions</a> - Ledger history</li>
<li><a href="/api/balances">/api/balances</a> - Customer balances</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}
