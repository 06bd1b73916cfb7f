package storage

import (
	"context"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
)

// NoopStore discards uploads. Used when no bucket is configured so CSV
// import still works without archival.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (*NoopStore) Put(context.Context, string, []byte, string) (string, error) {
	return "", nil
}

var _ ports.FileStore = (*NoopStore)(nil)
