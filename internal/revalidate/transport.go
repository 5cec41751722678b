// Package revalidate provides an http.RoundTripper that serves repeated GET
// requests from a short-lived in-memory copy.
//
// It models the staleness window a polling client tolerates: within TTL a
// URL is fetched upstream at most once, and concurrent requests for the same
// URL share a single in-flight call.
package revalidate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Transport caches successful GET responses per URL for TTL.
type Transport struct {
	base http.RoundTripper
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

type entry struct {
	statusCode int
	header     http.Header
	body       []byte
	expiresAt  time.Time
}

// New wraps base. A nil base uses http.DefaultTransport; a non-positive ttl
// disables caching but keeps in-flight deduplication.
func New(base http.RoundTripper, ttl time.Duration) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:    base,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// TTL returns the revalidation window.
func (t *Transport) TTL() time.Duration { return t.ttl }

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base.RoundTrip(req)
	}

	key := req.URL.String()
	if e, ok := t.lookup(key); ok {
		slog.Debug("revalidate: serving cached response", "url", key)
		return e.response(req), nil
	}

	ctx := req.Context()
	ch := t.group.DoChan(key, func() (any, error) {
		return t.fetch(req, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			// The shared call belonged to another caller that gave up.
			// Ours is still live, so make the request ourselves.
			if res.Shared && isContextErr(res.Err) && ctx.Err() == nil {
				e, err := t.fetch(req, key)
				if err != nil {
					return nil, err
				}
				return e.response(req), nil
			}
			return nil, res.Err
		}
		return res.Val.(*entry).response(req), nil
	}
}

func (t *Transport) fetch(req *http.Request, key string) (*entry, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	e := &entry{
		statusCode: resp.StatusCode,
		header:     resp.Header.Clone(),
		body:       body,
		expiresAt:  t.now().Add(t.ttl),
	}

	if t.ttl > 0 && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		t.store(key, e)
	}
	return e, nil
}

func (t *Transport) lookup(key string) (*entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		return nil, false
	}
	if !t.now().Before(e.expiresAt) {
		delete(t.entries, key)
		return nil, false
	}
	return e, true
}

func (t *Transport) store(key string, e *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for k, old := range t.entries {
		if !now.Before(old.expiresAt) {
			delete(t.entries, k)
		}
	}
	t.entries[key] = e
}

func (e *entry) response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.statusCode, http.StatusText(e.statusCode)),
		StatusCode:    e.statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.body)),
		ContentLength: int64(len(e.body)),
		Request:       req,
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
