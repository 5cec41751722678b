package googlefinance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketfeed/internal/fetcher"
)

const quotePage = `<!doctype html>
<html><body>
<div class="gyFHrc">
  <div class="mfs7Fc">P/E ratio</div>
  <div class="P6K39c" data-snapfield="PE_RATIO">27.84</div>
</div>
<div class="gyFHrc">
  <div class="mfs7Fc">Earnings per share</div>
  <div class="P6K39c" data-snapfield="EPS">1,105.20</div>
</div>
<div data-snapfield="PE_RATIO">99.99</div>
</body></html>`

func newTestFetcher(url string) *FundamentalsFetcher {
	return NewFundamentalsFetcher(url, fetcher.ClientOptions{Timeout: 2 * time.Second}, nil)
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestFundamentalsFetcher_Fetch_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/TCS:NSE" {
			t.Errorf("path = %q, want /TCS:NSE", r.URL.Path)
		}
		if got := r.URL.Query().Get("hl"); got != "en" {
			t.Errorf("hl = %q, want en", got)
		}
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", ua, DefaultUserAgent)
		}
		w.Write([]byte(quotePage))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	fetchedAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	f := newTestFetcher(server.URL)
	f.now = func() time.Time { return fetchedAt }

	got, err := f.FetchFundamentals(context.Background(), "TCS:NSE")
	if err != nil {
		t.Fatalf("FetchFundamentals() returned unexpected error: %v", err)
	}

	if got.Source != Provider || got.Symbol != "TCS:NSE" {
		t.Errorf("Source/Symbol = %q/%q, want %q/TCS:NSE", got.Source, got.Symbol, Provider)
	}
	if got.PERatio == nil || *got.PERatio != 27.84 {
		t.Errorf("PERatio = %v, want 27.84 (first match)", got.PERatio)
	}
	if got.LatestEarnings == nil || *got.LatestEarnings != 1105.20 {
		t.Errorf("LatestEarnings = %v, want 1105.20", got.LatestEarnings)
	}
	if !got.FetchedAt.Equal(fetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, fetchedAt)
	}
}

func TestFundamentalsFetcher_Fetch_MissingEPS(t *testing.T) {
	server := serve(t, http.StatusOK, `<html><body>
		<div data-snapfield="PE_RATIO">31.2</div>
		<div data-snapfield="MARKET_CAP">14.2T INR</div>
	</body></html>`)
	defer server.Close()

	got, err := newTestFetcher(server.URL).FetchFundamentals(context.Background(), "INFY:NSE")
	if err != nil {
		t.Fatalf("FetchFundamentals() returned unexpected error: %v", err)
	}
	if got.LatestEarnings != nil {
		t.Errorf("LatestEarnings = %v, want nil", *got.LatestEarnings)
	}
	if got.PERatio == nil || *got.PERatio != 31.2 {
		t.Errorf("PERatio = %v, want 31.2", got.PERatio)
	}
}

func TestFundamentalsFetcher_Fetch_UnparseableFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"dashes", `<div data-snapfield="PE_RATIO">-</div><div data-snapfield="EPS">—</div>`},
		{"empty", `<div data-snapfield="PE_RATIO"></div><div data-snapfield="EPS">  </div>`},
		{"no markup", `<html><body>Our systems have detected unusual traffic</body></html>`},
		{"not html", `{"json": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := serve(t, http.StatusOK, tt.body)
			defer server.Close()

			got, err := newTestFetcher(server.URL).FetchFundamentals(context.Background(), "500325:BOM")
			if err != nil {
				t.Fatalf("FetchFundamentals() returned unexpected error: %v", err)
			}
			if got.PERatio != nil || got.LatestEarnings != nil {
				t.Errorf("FetchFundamentals() = %+v, want all fields nil", got)
			}
		})
	}
}

func TestFundamentalsFetcher_Fetch_HTTPError(t *testing.T) {
	server := serve(t, http.StatusBadGateway, "")
	defer server.Close()

	_, err := newTestFetcher(server.URL).FetchFundamentals(context.Background(), "TCS:NSE")
	var perr *fetcher.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("FetchFundamentals() error = %v, want *fetcher.ProviderError", err)
	}
	if perr.Provider != Provider || perr.StatusCode != http.StatusBadGateway || perr.Type != fetcher.ErrorTypeServer {
		t.Errorf("error = %+v, want google server error 502", perr)
	}
}

func TestFundamentalsFetcher_Fetch_NotFound(t *testing.T) {
	server := serve(t, http.StatusNotFound, "<html>not found</html>")
	defer server.Close()

	_, err := newTestFetcher(server.URL).FetchFundamentals(context.Background(), "NOPE:NSE")
	var perr *fetcher.ProviderError
	if !errors.As(err, &perr) || perr.Type != fetcher.ErrorTypeClient {
		t.Errorf("FetchFundamentals() error = %v, want client ProviderError", err)
	}
}
