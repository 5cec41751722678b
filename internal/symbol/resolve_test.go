package symbol

import (
	"strings"
	"testing"
)

func TestResolve_Scenarios(t *testing.T) {
	tests := []struct {
		ticker string
		want   Mapping
	}{
		{"RELIANCE", Mapping{Raw: "RELIANCE", YahooSymbol: "RELIANCE.NS", GoogleSymbol: "RELIANCE:NSE", Exchange: ExchangeNSE}},
		{"500325", Mapping{Raw: "500325", YahooSymbol: "500325.BO", GoogleSymbol: "500325:BOM", Exchange: ExchangeBSE}},
		{"TCS.NS", Mapping{Raw: "TCSNS", YahooSymbol: "TCSNS.NS", GoogleSymbol: "TCSNS:NSE", Exchange: ExchangeNSE}},
		{"bajaj-auto", Mapping{Raw: "BAJAJAUTO", YahooSymbol: "BAJAJAUTO.NS", GoogleSymbol: "BAJAJAUTO:NSE", Exchange: ExchangeNSE}},
		{"M&M", Mapping{Raw: "MM", YahooSymbol: "MM.NS", GoogleSymbol: "MM:NSE", Exchange: ExchangeNSE}},
		{" 532540 ", Mapping{Raw: "532540", YahooSymbol: "532540.BO", GoogleSymbol: "532540:BOM", Exchange: ExchangeBSE}},
	}

	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			got := Resolve(tt.ticker)
			if got == nil {
				t.Fatalf("Resolve(%q) = nil, want %+v", tt.ticker, tt.want)
			}
			if *got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.ticker, *got, tt.want)
			}
		})
	}
}

func TestResolve_NoMapping(t *testing.T) {
	for _, ticker := range []string{"", "   ", "***", "-.-", "&"} {
		if got := Resolve(ticker); got != nil {
			t.Errorf("Resolve(%q) = %+v, want nil", ticker, *got)
		}
	}
}

func TestResolve_DigitsAreBSE(t *testing.T) {
	for _, ticker := range []string{"0", "1", "500325", "532174", "0001234"} {
		got := Resolve(ticker)
		if got == nil {
			t.Fatalf("Resolve(%q) = nil", ticker)
		}
		if got.Exchange != ExchangeBSE {
			t.Errorf("Resolve(%q).Exchange = %q, want BSE", ticker, got.Exchange)
		}
		if got.Raw != ticker {
			t.Errorf("Resolve(%q).Raw = %q, want %q", ticker, got.Raw, ticker)
		}
	}
}

func TestResolve_PunctuationStripped(t *testing.T) {
	for _, ticker := range []string{"hdfc.bank", "L&T", "ICICI-BANK", "tata motors", "infy!"} {
		got := Resolve(ticker)
		if got == nil {
			t.Fatalf("Resolve(%q) = nil", ticker)
		}
		want := strings.ToUpper(nonAlphaNum.ReplaceAllString(ticker, ""))
		if got.Raw != want {
			t.Errorf("Resolve(%q).Raw = %q, want %q", ticker, got.Raw, want)
		}
		if got.Exchange != ExchangeNSE {
			t.Errorf("Resolve(%q).Exchange = %q, want NSE", ticker, got.Exchange)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	for _, ticker := range []string{"RELIANCE", "500325", "TCS.NS", "***"} {
		first, second := Resolve(ticker), Resolve(ticker)
		if (first == nil) != (second == nil) {
			t.Fatalf("Resolve(%q) nil-ness differs between calls", ticker)
		}
		if first != nil && *first != *second {
			t.Errorf("Resolve(%q) = %+v then %+v", ticker, *first, *second)
		}
	}
}
