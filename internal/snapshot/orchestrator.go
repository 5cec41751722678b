package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"marketfeed/internal/fetcher"
	"marketfeed/internal/portfolio"
	"marketfeed/internal/symbol"
)

// Snapshot is the combined market data for one holding in one fetch cycle.
// Both halves are always present.
type Snapshot struct {
	Quote        fetcher.Quote        `json:"quote"`
	Fundamentals fetcher.Fundamentals `json:"fundamentals"`
}

// Orchestrator resolves a holding's ticker and fetches its quote and
// fundamentals concurrently.
type Orchestrator struct {
	quotes       fetcher.QuoteProvider
	fundamentals fetcher.FundamentalsProvider
}

// NewOrchestrator creates an orchestrator over the two providers.
func NewOrchestrator(quotes fetcher.QuoteProvider, fundamentals fetcher.FundamentalsProvider) *Orchestrator {
	return &Orchestrator{
		quotes:       quotes,
		fundamentals: fundamentals,
	}
}

// Fetch returns the snapshot for h. It returns nil, nil when the ticker has
// no exchange mapping. If either provider fails the whole fetch fails; no
// partial snapshot is built.
func (o *Orchestrator) Fetch(ctx context.Context, h portfolio.Holding) (*Snapshot, error) {
	mapping := symbol.Resolve(h.Ticker.String())
	if mapping == nil {
		return nil, nil
	}
	return o.FetchMapping(ctx, mapping)
}

// FetchMapping fetches both halves of a snapshot for an already resolved mapping.
func (o *Orchestrator) FetchMapping(ctx context.Context, mapping *symbol.Mapping) (*Snapshot, error) {
	var (
		quote        fetcher.Quote
		fundamentals fetcher.Fundamentals
	)

	err := JoinAll(ctx,
		func(ctx context.Context) error {
			q, err := o.quotes.FetchQuote(ctx, mapping.YahooSymbol)
			if err != nil {
				return err
			}
			quote = q
			return nil
		},
		func(ctx context.Context) error {
			f, err := o.fundamentals.FetchFundamentals(ctx, mapping.GoogleSymbol)
			if err != nil {
				return err
			}
			fundamentals = f
			return nil
		},
	)
	if err != nil {
		slog.Debug("snapshot fetch failed", "ticker", mapping.Raw, "error", err)
		return nil, fmt.Errorf("market data for %s: %w", mapping.Raw, err)
	}

	return &Snapshot{Quote: quote, Fundamentals: fundamentals}, nil
}
