package audit

import (
	"context"
	"sync"
)

// Store is an append-only sink for ingestion records. Removal never occurs.
type Store interface {
	Append(ctx context.Context, record Record) error
	List(ctx context.Context) ([]Record, error)
}

// InMemoryLog keeps records in an unbounded in-process slice. Acceptable for
// this scope; production would cap or externalize it.
type InMemoryLog struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{}
}

func (l *InMemoryLog) Append(_ context.Context, record Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

func (l *InMemoryLog) List(_ context.Context) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Record{}, l.records...), nil
}
