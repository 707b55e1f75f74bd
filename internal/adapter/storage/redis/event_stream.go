package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"mexared-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// EventStreamSink implements ports.EventSink by appending each ledger event
// to a Redis stream. Consumers read it with XREAD/XREADGROUP.
type EventStreamSink struct {
	client goredis.Cmdable
	stream string
	maxLen int64
}

// NewEventStreamSink creates a sink writing to stream, trimmed to roughly
// maxLen entries (0 disables trimming).
func NewEventStreamSink(client goredis.Cmdable, stream string, maxLen int64) *EventStreamSink {
	return &EventStreamSink{client: client, stream: stream, maxLen: maxLen}
}

// Deliver appends the event. The entry ID doubles as delivery order.
func (s *EventStreamSink) Deliver(ctx context.Context, event domain.LedgerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal ledger event: %w", err)
	}

	args := &goredis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"entry_id":  event.EntryID.String(),
			"wallet_id": event.WalletID.String(),
			"direction": string(event.Direction),
			"reference": event.Reference,
			"payload":   payload,
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis xadd %s: %w", s.stream, err)
	}
	return nil
}
