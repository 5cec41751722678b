package testutil

import (
	"context"
	"time"

	"marketfeed/internal/fetcher"
)

// MockQuoteProvider is a mock implementation of fetcher.QuoteProvider for testing
type MockQuoteProvider struct {
	FetchQuoteFunc func(ctx context.Context, symbol string) (fetcher.Quote, error)
}

// FetchQuote implements fetcher.QuoteProvider
func (m *MockQuoteProvider) FetchQuote(ctx context.Context, symbol string) (fetcher.Quote, error) {
	if m.FetchQuoteFunc != nil {
		return m.FetchQuoteFunc(ctx, symbol)
	}
	return fetcher.Quote{Source: "mock", Symbol: symbol, FetchedAt: time.Now()}, nil
}

// MockFundamentalsProvider is a mock implementation of fetcher.FundamentalsProvider for testing
type MockFundamentalsProvider struct {
	FetchFundamentalsFunc func(ctx context.Context, symbol string) (fetcher.Fundamentals, error)
}

// FetchFundamentals implements fetcher.FundamentalsProvider
func (m *MockFundamentalsProvider) FetchFundamentals(ctx context.Context, symbol string) (fetcher.Fundamentals, error) {
	if m.FetchFundamentalsFunc != nil {
		return m.FetchFundamentalsFunc(ctx, symbol)
	}
	return fetcher.Fundamentals{Source: "mock", Symbol: symbol, FetchedAt: time.Now()}, nil
}

// NewMockQuoteProvider creates a quote provider returning a fixed price or error
func NewMockQuoteProvider(price float64, err error) *MockQuoteProvider {
	return &MockQuoteProvider{
		FetchQuoteFunc: func(ctx context.Context, symbol string) (fetcher.Quote, error) {
			if err != nil {
				return fetcher.Quote{}, err
			}
			currency := "INR"
			return fetcher.Quote{
				Source:    "mock",
				Symbol:    symbol,
				Price:     Float(price),
				Currency:  &currency,
				FetchedAt: time.Now(),
			}, nil
		},
	}
}

// NewMockFundamentalsProvider creates a fundamentals provider returning a fixed P/E or error
func NewMockFundamentalsProvider(pe float64, err error) *MockFundamentalsProvider {
	return &MockFundamentalsProvider{
		FetchFundamentalsFunc: func(ctx context.Context, symbol string) (fetcher.Fundamentals, error) {
			if err != nil {
				return fetcher.Fundamentals{}, err
			}
			return fetcher.Fundamentals{
				Source:    "mock",
				Symbol:    symbol,
				PERatio:   Float(pe),
				FetchedAt: time.Now(),
			}, nil
		},
	}
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}
