package persistence

import "context"

// Backend durably stores the encoded document as a single blob.
type Backend interface {
	Name() string
	// Load returns nil data when nothing has been written yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}
