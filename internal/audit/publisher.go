package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Publisher hands records to the background worker through a channel so
// ingestion never waits on the sink.
type Publisher struct {
	inbox chan<- Record
}

func NewPublisher(inbox chan<- Record) *Publisher {
	return &Publisher{inbox: inbox}
}

// Emit stamps the record and queues it. Emission blocks only when the inbox
// buffer is full, which means the worker has stalled.
func (p *Publisher) Emit(ctx context.Context, record Record) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	select {
	case p.inbox <- record:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
