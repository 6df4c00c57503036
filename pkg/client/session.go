package client

import (
	"context"
	"errors"
	"sync"
)

// ErrStaleResponse is returned for a response superseded by a newer request.
var ErrStaleResponse = errors.New("response superseded by a newer search")

// Session runs searches for one search form. Only the response to the most
// recent request is delivered; earlier ones fail with ErrStaleResponse.
type Session struct {
	client *Client

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSession creates a session sending requests through c.
func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// Begin starts a new request and returns its sequence number. Any request
// still in flight is cancelled.
func (s *Session) Begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.seq++
	return ctx, s.seq
}

// Current reports whether seq is the latest request.
func (s *Session) Current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.seq
}

// Search sends document and returns the body unless a newer search started
// in the meantime.
func (s *Session) Search(ctx context.Context, document string) ([]byte, error) {
	ctx, seq := s.Begin(ctx)
	body, err := s.client.Get(ctx, document)
	if !s.Current(seq) {
		return nil, ErrStaleResponse
	}
	return body, err
}

// Close cancels the request in flight, if any.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}
