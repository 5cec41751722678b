package googlefinance

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"resty.dev/v3"

	"marketfeed/internal/fetcher"
	"marketfeed/internal/ratelimit"
)

const (
	// Provider names this source in fundamentals and errors.
	Provider = "google"

	// DefaultBaseURL is the quote page root; the symbol is appended as a path segment.
	DefaultBaseURL = "https://www.google.com/finance/quote"

	// DefaultUserAgent is sent because the page is served to browsers only.
	DefaultUserAgent = "Mozilla/5.0 (compatible; marketfeed/1.0)"

	// RevalidateWindow is four times the quote window; ratios move slowly.
	RevalidateWindow = 60 * time.Second
)

// Field identifiers carried in the data-snapfield attribute of the quote page.
const (
	FieldPERatio  = "PE_RATIO"
	FieldEarnings = "EPS"
)

// FundamentalsFetcher scrapes valuation ratios from Google Finance quote pages.
// The page has no structured API, so the fetcher depends on its markup.
type FundamentalsFetcher struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
	now     func() time.Time
}

// NewFundamentalsFetcher creates a fundamentals fetcher against baseURL.
// limiter may be nil.
func NewFundamentalsFetcher(baseURL string, opts fetcher.ClientOptions, limiter *ratelimit.Limiter) *FundamentalsFetcher {
	if opts.Accept == "" {
		opts.Accept = "text/html"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &FundamentalsFetcher{
		client:  fetcher.NewHTTPClient(baseURL, opts),
		limiter: limiter,
		now:     time.Now,
	}
}

// FetchFundamentals retrieves P/E and EPS for one Google symbol, e.g. "TCS:NSE".
func (f *FundamentalsFetcher) FetchFundamentals(ctx context.Context, symbol string) (fetcher.Fundamentals, error) {
	if err := f.limiter.Wait(ctx, ratelimit.APIGoogle); err != nil {
		return fetcher.Fundamentals{}, fetcher.ClassifyTransportError(Provider, err)
	}

	start := f.now()
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("hl", "en").
		Get("/" + url.PathEscape(symbol))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return fetcher.Fundamentals{}, fetcher.ClassifyTransportError(Provider, err)
	}

	if !resp.IsSuccess() {
		return fetcher.Fundamentals{}, fetcher.ClassifyHTTPError(Provider, resp.StatusCode())
	}

	result := fetcher.Fundamentals{
		Source:    Provider,
		Symbol:    symbol,
		FetchedAt: f.now(),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		// x/net/html recovers from almost any markup; treat the rest as an empty page.
		slog.Warn("unparseable fundamentals page", "symbol", symbol, "error", err)
		return result, nil
	}

	result.PERatio = ParseNumber(snapField(doc, FieldPERatio))
	result.LatestEarnings = ParseNumber(snapField(doc, FieldEarnings))

	slog.Debug("fetched fundamentals",
		"symbol", symbol,
		"status_code", resp.StatusCode(),
		"has_pe", result.PERatio != nil,
		"has_eps", result.LatestEarnings != nil,
		"duration", result.FetchedAt.Sub(start))

	return result, nil
}

func snapField(doc *goquery.Document, field string) string {
	return doc.Find(`[data-snapfield="` + field + `"]`).First().Text()
}
