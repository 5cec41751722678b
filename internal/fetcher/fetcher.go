package fetcher

import "context"

// QuoteProvider returns live price data for one provider-specific symbol.
// Implementations issue exactly one upstream request per call and never retry;
// retry policy belongs to whoever polls.
type QuoteProvider interface {
	// FetchQuote returns the normalized quote for symbol.
	// A *ProviderError is returned when the upstream call fails or its
	// payload cannot be decoded. Missing fields are not errors.
	FetchQuote(ctx context.Context, symbol string) (Quote, error)
}

// FundamentalsProvider returns slower-changing ratios for one symbol.
type FundamentalsProvider interface {
	// FetchFundamentals returns the normalized fundamentals for symbol.
	// Only a failed upstream call yields an error; fields that cannot be
	// read are left nil.
	FetchFundamentals(ctx context.Context, symbol string) (Fundamentals, error)
}
