package fetcher

import (
	"net/http"
	"time"

	"resty.dev/v3"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "marketfeed/1.0"
)

// ClientOptions tunes the HTTP client shared by the provider fetchers.
type ClientOptions struct {
	// Accept is sent as the Accept header. Defaults to application/json.
	Accept string
	// UserAgent is sent with every request.
	UserAgent string
	// Timeout bounds a single request, including reading the body.
	Timeout time.Duration
	// Transport replaces the default round tripper, e.g. with a
	// revalidation cache.
	Transport http.RoundTripper
}

// NewHTTPClient creates a new HTTP client for one upstream provider.
// Retries are deliberately not configured: a failed call surfaces to the
// caller, which polls again on its own schedule.
func NewHTTPClient(baseURL string, opts ClientOptions) *resty.Client {
	if opts.Accept == "" {
		opts.Accept = "application/json"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", opts.Accept).
		SetHeader("User-Agent", opts.UserAgent).
		SetTimeout(opts.Timeout)

	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}

	return client
}
