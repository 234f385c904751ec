package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/observability"
)

// Store keeps the document resident and writes it whole after every mutation.
// Update is the only mutation path and is serialized by mu.
type Store struct {
	mu      sync.RWMutex
	doc     *Document
	backend Backend
	logger  *zap.Logger
	metrics *observability.Metrics
	retry   func() backoff.BackOff
}

// Option configures a Store.
type Option func(*Store)

// WithFlushRetry retries failed writes with exponential backoff for up to maxElapsed.
// Zero disables retries.
func WithFlushRetry(maxElapsed time.Duration) Option {
	return func(s *Store) {
		if maxElapsed <= 0 {
			s.retry = func() backoff.BackOff { return &backoff.StopBackOff{} }
			return
		}
		s.retry = func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 50 * time.Millisecond
			bo.MaxElapsedTime = maxElapsed
			return bo
		}
	}
}

// WithMetrics records flush outcomes.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Open loads the document from backend, starting empty when nothing was stored.
func Open(ctx context.Context, backend Backend, logger *zap.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{backend: backend, logger: logger}
	WithFlushRetry(0)(s)
	for _, opt := range opts {
		opt(s)
	}

	data, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("decode document from %s: %w", backend.Name(), err)
	}
	s.doc = doc

	logger.Info("document loaded",
		zap.String("backend", backend.Name()),
		zap.Int("tickets", len(doc.Tickets)),
		zap.Int("comments", len(doc.Comments)),
		zap.Int("history", len(doc.History)))
	return s, nil
}

// View runs fn against the resident document under a read lock.
// fn must not mutate doc or retain references after it returns.
func (s *Store) View(_ context.Context, fn func(doc *Document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.doc)
}

// Update applies fn to a copy of the document, writes the copy, and swaps it in.
// When fn or the write fails, the resident document is left unchanged.
func (s *Store) Update(ctx context.Context, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.flush(ctx, next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (s *Store) flush(ctx context.Context, doc *Document) error {
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		saveErr := s.backend.Save(ctx, data)
		s.metrics.RecordFlush(s.backend.Name(), saveErr)
		if saveErr != nil {
			s.logger.Warn("document flush failed",
				zap.String("backend", s.backend.Name()),
				zap.Int("attempt", attempt),
				zap.Error(saveErr))
		}
		return saveErr
	}, backoff.WithContext(s.retry(), ctx))
	if err != nil {
		return fmt.Errorf("flush document to %s: %w", s.backend.Name(), err)
	}
	return nil
}

// snapshot returns a deep copy of the resident document.
func (s *Store) snapshot() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// BackendName names the configured backend.
func (s *Store) BackendName() string {
	return s.backend.Name()
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
