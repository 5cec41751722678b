package coordinator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"marketfeed/internal/fetcher"
	"marketfeed/internal/portfolio"
	"marketfeed/internal/snapshot"
	"marketfeed/internal/symbol"
	"marketfeed/internal/testutil"
)

type mockSnapshots struct {
	fn func(ctx context.Context, m *symbol.Mapping) (*snapshot.Snapshot, error)
}

func (m *mockSnapshots) FetchMapping(ctx context.Context, mapping *symbol.Mapping) (*snapshot.Snapshot, error) {
	return m.fn(ctx, mapping)
}

func holdings(tickers ...portfolio.Ticker) []portfolio.Holding {
	out := make([]portfolio.Holding, len(tickers))
	for i, tk := range tickers {
		out[i] = portfolio.Holding{ID: i + 1, Ticker: tk}
	}
	return out
}

func TestNew(t *testing.T) {
	coord := New(&mockSnapshots{}, 0)
	if coord == nil {
		t.Fatal("New() returned nil")
	}
	if coord.maxConcurrency != defaultConcurrency {
		t.Errorf("maxConcurrency = %d, want %d", coord.maxConcurrency, defaultConcurrency)
	}
}

func TestRun_Success(t *testing.T) {
	orch := snapshot.NewOrchestrator(
		testutil.NewMockQuoteProvider(100.5, nil),
		testutil.NewMockFundamentalsProvider(22, nil),
	)
	coord := New(orch, 2)

	results, err := coord.Run(context.Background(), holdings(
		portfolio.SymbolTicker("RELIANCE"),
		portfolio.CodeTicker(500325),
		portfolio.SymbolTicker("TCS"),
	))
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	wantTickers := []string{"RELIANCE", "500325", "TCS"}
	if len(results) != len(wantTickers) {
		t.Fatalf("Run() returned %d results, want %d", len(results), len(wantTickers))
	}
	for i, r := range results {
		if r.Ticker != wantTickers[i] {
			t.Errorf("results[%d].Ticker = %q, want %q", i, r.Ticker, wantTickers[i])
		}
		if r.Err != nil || r.Snapshot == nil {
			t.Errorf("results[%d] = %+v, want a snapshot", i, r)
		}
	}
	if results[1].Symbols.Exchange != symbol.ExchangeBSE {
		t.Errorf("results[1].Symbols.Exchange = %q, want BSE", results[1].Symbols.Exchange)
	}
}

func TestRun_IsolatesFailures(t *testing.T) {
	quotes := &testutil.MockQuoteProvider{
		FetchQuoteFunc: func(ctx context.Context, sym string) (fetcher.Quote, error) {
			if sym == "BROKEN.NS" {
				return fetcher.Quote{}, fetcher.ClassifyHTTPError("yahoo", 500)
			}
			return fetcher.Quote{Symbol: sym, Price: testutil.Float(10)}, nil
		},
	}
	orch := snapshot.NewOrchestrator(quotes, testutil.NewMockFundamentalsProvider(15, nil))

	results, err := New(orch, 4).Run(context.Background(), holdings(
		portfolio.SymbolTicker("GOOD"),
		portfolio.SymbolTicker("BROKEN"),
		portfolio.SymbolTicker("***"),
		portfolio.Ticker{},
	))
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Run() returned %d results, want 3 (zero ticker skipped)", len(results))
	}

	if results[0].Err != nil || results[0].Snapshot == nil {
		t.Errorf("GOOD result = %+v, want success", results[0])
	}
	var perr *fetcher.ProviderError
	if !errors.As(results[1].Err, &perr) || results[1].Snapshot != nil {
		t.Errorf("BROKEN result = %+v, want ProviderError and no snapshot", results[1])
	}
	if results[2].Symbols != nil || results[2].Err != nil {
		t.Errorf("*** result = %+v, want no mapping and no error", results[2])
	}
}

func TestRun_NoHoldings(t *testing.T) {
	_, err := New(&mockSnapshots{}, 1).Run(context.Background(), holdings(portfolio.Ticker{}))
	if !errors.Is(err, ErrNoHoldings) {
		t.Errorf("Run() error = %v, want ErrNoHoldings", err)
	}
}

func TestRun_BoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	snaps := &mockSnapshots{fn: func(ctx context.Context, m *symbol.Mapping) (*snapshot.Snapshot, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return &snapshot.Snapshot{}, nil
	}}

	var tickers []portfolio.Ticker
	for _, s := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		tickers = append(tickers, portfolio.SymbolTicker(s))
	}

	if _, err := New(snaps, 2).Run(context.Background(), holdings(tickers...)); err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	snaps := &mockSnapshots{fn: func(ctx context.Context, m *symbol.Mapping) (*snapshot.Snapshot, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return &snapshot.Snapshot{}, nil
		}
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	results, err := New(snaps, 1).Run(ctx, holdings(portfolio.SymbolTicker("SLOW")))
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}
	if !errors.Is(results[0].Err, context.DeadlineExceeded) {
		t.Errorf("results[0].Err = %v, want context.DeadlineExceeded", results[0].Err)
	}
}

func TestPrint(t *testing.T) {
	inr := "INR"
	results := []Result{
		{
			Ticker:  "TCS",
			Symbols: symbol.Resolve("TCS"),
			Snapshot: &snapshot.Snapshot{
				Quote:        fetcher.Quote{Price: testutil.Float(3890.1), Currency: &inr},
				Fundamentals: fetcher.Fundamentals{PERatio: testutil.Float(29.5)},
			},
		},
		{Ticker: "***"},
		{Ticker: "INFY", Symbols: symbol.Resolve("INFY"), Err: errors.New("yahoo: server error")},
	}

	var buf bytes.Buffer
	Print(&buf, results)

	want := []string{
		"TCS (NSE): 3890.10 INR  P/E 29.50  EPS n/a",
		"***: no exchange mapping",
		"INFY: ERROR - yahoo: server error",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("Print() wrote %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
