package symbol

import (
	"regexp"
	"strings"
)

// Exchange identifies the Indian exchange a ticker trades on.
type Exchange string

const (
	// ExchangeNSE is the National Stock Exchange; tickers are trading symbols.
	ExchangeNSE Exchange = "NSE"
	// ExchangeBSE is the Bombay Stock Exchange; tickers are numeric security codes.
	ExchangeBSE Exchange = "BSE"
)

// Mapping holds the provider-specific symbols derived from a portfolio ticker.
type Mapping struct {
	Raw          string   `json:"raw"`
	YahooSymbol  string   `json:"yahooSymbol"`
	GoogleSymbol string   `json:"googleSymbol"`
	Exchange     Exchange `json:"exchange"`
}

var (
	digitsOnly  = regexp.MustCompile(`^[0-9]+$`)
	nonAlphaNum = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Resolve maps a raw ticker to its exchange symbols.
// Digit-only tickers are BSE security codes and are kept verbatim. Anything
// else is treated as an NSE symbol: non-alphanumerics are stripped and the
// result upper-cased. Resolve returns nil when nothing usable remains.
func Resolve(ticker string) *Mapping {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil
	}

	if digitsOnly.MatchString(ticker) {
		return &Mapping{
			Raw:          ticker,
			YahooSymbol:  ticker + ".BO",
			GoogleSymbol: ticker + ":BOM",
			Exchange:     ExchangeBSE,
		}
	}

	clean := strings.ToUpper(nonAlphaNum.ReplaceAllString(ticker, ""))
	if clean == "" {
		return nil
	}

	return &Mapping{
		Raw:          clean,
		YahooSymbol:  clean + ".NS",
		GoogleSymbol: clean + ":NSE",
		Exchange:     ExchangeNSE,
	}
}
