package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"marketfeed/internal/coordinator"
	"marketfeed/internal/fetcher"
	"marketfeed/internal/portfolio"
	"marketfeed/internal/snapshot"
	"marketfeed/internal/symbol"
)

// Poll cadence expected of clients, advertised through Cache-Control.
const (
	quotePollInterval     = 15 * time.Second
	portfolioPollInterval = 60 * time.Second
)

// Handler provides HTTP endpoints for the market feed.
type Handler struct {
	source         portfolio.Source
	snapshots      *snapshot.Orchestrator
	refresh        *coordinator.Coordinator
	refreshTimeout time.Duration
}

// NewHandler creates a new API handler.
func NewHandler(source portfolio.Source, snapshots *snapshot.Orchestrator, refresh *coordinator.Coordinator, refreshTimeout time.Duration) *Handler {
	return &Handler{
		source:         source,
		snapshots:      snapshots,
		refresh:        refresh,
		refreshTimeout: refreshTimeout,
	}
}

type marketResponse struct {
	Ticker     string             `json:"ticker"`
	Symbols    *symbol.Mapping    `json:"symbols"`
	MarketData *snapshot.Snapshot `json:"marketData"`
}

type marketResult struct {
	Ticker     string             `json:"ticker"`
	Symbols    *symbol.Mapping    `json:"symbols"`
	MarketData *snapshot.Snapshot `json:"marketData"`
	Error      string             `json:"error,omitempty"`
}

type marketListResponse struct {
	Results []marketResult `json:"results"`
}

type portfolioResponse struct {
	Portfolio *portfolio.Portfolio      `json:"portfolio"`
	Sectors   []portfolio.SectorSummary `json:"sectors"`
}

// GetMarket handles GET /market/{ticker}.
func (h *Handler) GetMarket(w http.ResponseWriter, r *http.Request) {
	ticker := r.PathValue("ticker")

	p, err := h.source.Portfolio(r.Context())
	if err != nil {
		slog.Error("failed to load portfolio", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	holding, err := p.FindByTicker(ticker)
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown ticker %s", ticker))
			return
		}
		slog.Error("failed to look up ticker", "ticker", ticker, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	symbols := symbol.Resolve(holding.Ticker.String())
	if symbols == nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Ticker %s does not have a valid exchange mapping", ticker))
		return
	}

	marketData, err := h.snapshots.FetchMapping(r.Context(), symbols)
	if err != nil {
		if r.Context().Err() != nil {
			slog.Debug("client went away during market fetch", "ticker", ticker)
			return
		}
		logProviderError(ticker, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Cache-Control", cacheControl(quotePollInterval))
	writeJSON(w, http.StatusOK, marketResponse{
		Ticker:     ticker,
		Symbols:    symbols,
		MarketData: marketData,
	})
}

// ListMarket handles GET /market. Each holding succeeds or fails on its own.
func (h *Handler) ListMarket(w http.ResponseWriter, r *http.Request) {
	p, err := h.source.Portfolio(r.Context())
	if err != nil {
		slog.Error("failed to load portfolio", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	ctx := r.Context()
	if h.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.refreshTimeout)
		defer cancel()
	}

	results, err := h.refresh.Run(ctx, p.Holdings)
	if err != nil && !errors.Is(err, coordinator.ErrNoHoldings) {
		slog.Error("portfolio refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := marketListResponse{Results: make([]marketResult, 0, len(results))}
	for _, res := range results {
		item := marketResult{
			Ticker:     res.Ticker,
			Symbols:    res.Symbols,
			MarketData: res.Snapshot,
		}
		switch {
		case res.Symbols == nil:
			item.Error = "no exchange mapping"
		case res.Err != nil:
			item.Error = res.Err.Error()
		}
		resp.Results = append(resp.Results, item)
	}

	w.Header().Set("Cache-Control", cacheControl(quotePollInterval))
	writeJSON(w, http.StatusOK, resp)
}

// GetPortfolio handles GET /portfolio.
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.source.Portfolio(r.Context())
	if err != nil {
		slog.Error("failed to load portfolio", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Cache-Control", cacheControl(portfolioPollInterval))
	writeJSON(w, http.StatusOK, portfolioResponse{
		Portfolio: p,
		Sectors:   portfolio.SectorSummaries(p.Holdings),
	})
}

func logProviderError(ticker string, err error) {
	var perr *fetcher.ProviderError
	if errors.As(err, &perr) {
		slog.Warn("market data provider failed",
			"ticker", ticker,
			"provider", perr.Provider,
			"type", perr.Type,
			"status_code", perr.StatusCode,
			"error", err)
		return
	}
	slog.Warn("market data fetch failed", "ticker", ticker, "error", err)
}

func cacheControl(d time.Duration) string {
	return fmt.Sprintf("public, max-age=%d", int(d.Seconds()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
