package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Source supplies the read-only portfolio to each request.
type Source interface {
	Portfolio(ctx context.Context) (*Portfolio, error)
}

// FileSource reads a JSON seed from disk on every call, so edits to the
// file show up without a restart.
type FileSource struct {
	path string
}

// NewFileSource returns a Source backed by the JSON file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Portfolio implements Source.
func (s *FileSource) Portfolio(_ context.Context) (*Portfolio, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading portfolio %s: %w", s.path, err)
	}
	return Decode(data)
}

// StaticSource always returns the same portfolio.
type StaticSource struct {
	p *Portfolio
}

// NewStaticSource wraps p.
func NewStaticSource(p *Portfolio) *StaticSource {
	return &StaticSource{p: p}
}

// Portfolio implements Source.
func (s *StaticSource) Portfolio(_ context.Context) (*Portfolio, error) {
	return s.p, nil
}

// Decode parses a JSON seed.
func Decode(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing portfolio: %w", err)
	}
	return &p, nil
}
