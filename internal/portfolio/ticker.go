package portfolio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Ticker is a holding's identifier as it appears in the seed: either a
// numeric BSE security code or an NSE trading symbol. The zero value is an
// absent ticker.
type Ticker struct {
	value   string
	numeric bool
}

// SymbolTicker returns a textual ticker.
func SymbolTicker(s string) Ticker { return Ticker{value: s} }

// CodeTicker returns a numeric ticker.
func CodeTicker(code int64) Ticker {
	return Ticker{value: strconv.FormatInt(code, 10), numeric: true}
}

// String returns the ticker text; numeric codes are rendered in base 10.
func (t Ticker) String() string { return t.value }

// IsZero reports whether the ticker is absent.
func (t Ticker) IsZero() bool { return t.value == "" }

// IsNumeric reports whether the seed stored the ticker as a number.
func (t Ticker) IsNumeric() bool { return t.numeric }

// MarshalJSON keeps the seed representation: number, string or null.
func (t Ticker) MarshalJSON() ([]byte, error) {
	switch {
	case t.IsZero():
		return []byte("null"), nil
	case t.numeric:
		return []byte(t.value), nil
	default:
		return json.Marshal(t.value)
	}
}

// UnmarshalJSON accepts a string, an integer or null.
func (t *Ticker) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Ticker{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = SymbolTicker(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ticker must be a string, integer or null: %w", err)
	}
	code, err := n.Int64()
	if err != nil {
		// Exported sheets sometimes carry codes as 500325.0.
		f, ferr := n.Float64()
		if ferr != nil || f != float64(int64(f)) || f < 0 {
			return fmt.Errorf("ticker %s is not an integer security code", n)
		}
		code = int64(f)
	}
	if code < 0 {
		return fmt.Errorf("ticker %s is not a valid security code", n)
	}
	*t = CodeTicker(code)
	return nil
}
