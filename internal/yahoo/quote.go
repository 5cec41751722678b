package yahoo

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"resty.dev/v3"

	"marketfeed/internal/fetcher"
	"marketfeed/internal/ratelimit"
)

const (
	// Provider names this source in quotes and errors.
	Provider = "yahoo"

	// DefaultBaseURL is the v7 quote endpoint.
	DefaultBaseURL = "https://query1.finance.yahoo.com/v7/finance/quote"

	// RevalidateWindow is how long a quote may be served from the transport
	// cache. It matches the 15s cadence of quote-bearing views.
	RevalidateWindow = 15 * time.Second
)

// QuoteResponse represents the Yahoo Finance v7 quote payload
type QuoteResponse struct {
	QuoteResponse *struct {
		Result []QuoteResult `json:"result"`
		Error  any           `json:"error"`
	} `json:"quoteResponse"`
}

// QuoteResult is one entry of QuoteResponse. Fields Yahoo omits stay nil.
type QuoteResult struct {
	Symbol                     string   `json:"symbol"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	Currency                   *string  `json:"currency"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
}

// QuoteFetcher fetches live quotes from Yahoo Finance
type QuoteFetcher struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
	now     func() time.Time
}

// NewQuoteFetcher creates a quote fetcher against baseURL. limiter may be nil.
func NewQuoteFetcher(baseURL string, opts fetcher.ClientOptions, limiter *ratelimit.Limiter) *QuoteFetcher {
	return &QuoteFetcher{
		client:  fetcher.NewHTTPClient(baseURL, opts),
		limiter: limiter,
		now:     time.Now,
	}
}

// FetchQuote retrieves the current quote for one Yahoo symbol, e.g. "TCS.NS".
func (f *QuoteFetcher) FetchQuote(ctx context.Context, symbol string) (fetcher.Quote, error) {
	if err := f.limiter.Wait(ctx, ratelimit.APIYahoo); err != nil {
		return fetcher.Quote{}, fetcher.ClassifyTransportError(Provider, err)
	}

	start := f.now()
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("symbols", symbol).
		Get("")

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return fetcher.Quote{}, fetcher.ClassifyTransportError(Provider, err)
	}

	if !resp.IsSuccess() {
		return fetcher.Quote{}, fetcher.ClassifyHTTPError(Provider, resp.StatusCode())
	}

	var payload QuoteResponse
	if err := json.Unmarshal([]byte(resp.String()), &payload); err != nil {
		return fetcher.Quote{}, fetcher.NewValidationError(Provider, "unreadable quote payload for "+symbol, err)
	}
	if payload.QuoteResponse == nil {
		return fetcher.Quote{}, fetcher.NewValidationError(Provider, "quoteResponse missing for "+symbol, nil)
	}

	quote := fetcher.Quote{
		Source:    Provider,
		Symbol:    symbol,
		FetchedAt: f.now(),
	}
	if results := payload.QuoteResponse.Result; len(results) > 0 {
		quote.Price = results[0].RegularMarketPrice
		quote.Currency = results[0].Currency
		quote.ChangePercent = results[0].RegularMarketChangePercent
	}

	slog.Debug("fetched quote",
		"symbol", symbol,
		"status_code", resp.StatusCode(),
		"has_price", quote.Price != nil,
		"duration", quote.FetchedAt.Sub(start))

	return quote, nil
}
