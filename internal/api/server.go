package api

import (
	"net/http"
	"time"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(addr string, handler *Handler) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /market/{ticker}", handler.GetMarket)
	mux.HandleFunc("GET /market", handler.ListMarket)
	mux.HandleFunc("GET /portfolio", handler.GetPortfolio)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
