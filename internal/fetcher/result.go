package fetcher

import "time"

// Quote is the normalized result of a quote fetch.
// A nil Price means the provider had no data for the symbol.
type Quote struct {
	Source        string    `json:"source"`
	Symbol        string    `json:"symbol"`
	Price         *float64  `json:"price"`
	Currency      *string   `json:"currency"`
	ChangePercent *float64  `json:"changePercent"`
	FetchedAt     time.Time `json:"fetchedAt"`
}

// Fundamentals is the normalized result of a fundamentals fetch.
// Fields the provider page did not carry, or carried in an unreadable form,
// are nil.
type Fundamentals struct {
	Source         string    `json:"source"`
	Symbol         string    `json:"symbol"`
	PERatio        *float64  `json:"peRatio"`
	LatestEarnings *float64  `json:"latestEarnings"`
	FetchedAt      time.Time `json:"fetchedAt"`
}
