package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sourcegraph/conc/iter"

	"marketfeed/internal/portfolio"
	"marketfeed/internal/snapshot"
	"marketfeed/internal/symbol"
)

// ErrNoHoldings is returned by Run when there is nothing to refresh.
var ErrNoHoldings = errors.New("no holdings with a ticker")

const defaultConcurrency = 4

// SnapshotFetcher fetches the market snapshot for a resolved mapping.
type SnapshotFetcher interface {
	FetchMapping(ctx context.Context, mapping *symbol.Mapping) (*snapshot.Snapshot, error)
}

// Result is the outcome of refreshing one holding. Symbols is nil when the
// ticker has no exchange mapping; Err is set when the fetch failed.
type Result struct {
	Ticker   string
	Symbols  *symbol.Mapping
	Snapshot *snapshot.Snapshot
	Err      error
}

// Coordinator refreshes every holding of a portfolio concurrently. A failing
// ticker never affects the others.
type Coordinator struct {
	snapshots      SnapshotFetcher
	maxConcurrency int
}

// New creates a Coordinator that runs at most maxConcurrency snapshot
// fetches at once.
func New(snapshots SnapshotFetcher, maxConcurrency int) *Coordinator {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultConcurrency
	}
	return &Coordinator{
		snapshots:      snapshots,
		maxConcurrency: maxConcurrency,
	}
}

// Run fetches a snapshot for each holding that has a ticker. Results keep
// the order of holdings.
func (c *Coordinator) Run(ctx context.Context, holdings []portfolio.Holding) ([]Result, error) {
	tickers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if !h.Ticker.IsZero() {
			tickers = append(tickers, h.Ticker.String())
		}
	}
	if len(tickers) == 0 {
		return nil, ErrNoHoldings
	}

	mapper := iter.Mapper[string, Result]{MaxGoroutines: c.maxConcurrency}
	results := mapper.Map(tickers, func(ticker *string) Result {
		res := Result{Ticker: *ticker, Symbols: symbol.Resolve(*ticker)}
		if res.Symbols == nil {
			return res
		}
		res.Snapshot, res.Err = c.snapshots.FetchMapping(ctx, res.Symbols)
		if res.Err != nil {
			slog.Warn("refresh failed", "ticker", *ticker, "error", res.Err)
		}
		return res
	})

	return results, nil
}

// Print writes one line per result in the format:
//   - Success: "TICKER (SYMBOL): PRICE CURRENCY  P/E x  EPS y"
//   - No mapping: "TICKER: no exchange mapping"
//   - Error: "TICKER: ERROR - error message"
func Print(w io.Writer, results []Result) {
	for _, r := range results {
		switch {
		case r.Symbols == nil:
			fmt.Fprintf(w, "%s: no exchange mapping\n", r.Ticker)
		case r.Err != nil:
			fmt.Fprintf(w, "%s: ERROR - %v\n", r.Ticker, r.Err)
		default:
			q, f := r.Snapshot.Quote, r.Snapshot.Fundamentals
			currency := ""
			if q.Currency != nil {
				currency = " " + *q.Currency
			}
			fmt.Fprintf(w, "%s (%s): %s%s  P/E %s  EPS %s\n",
				r.Ticker, r.Symbols.Exchange, number(q.Price), currency, number(f.PERatio), number(f.LatestEarnings))
		}
	}
}

func number(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
