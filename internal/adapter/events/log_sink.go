package events

import (
	"context"

	"mexared-ledger/internal/core/domain"

	"github.com/rs/zerolog"
)

// LogSink writes events to the log. It backs the dispatcher when no Redis
// stream is configured.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Deliver(_ context.Context, ev domain.LedgerEvent) error {
	s.log.Info().
		Str("entry_id", ev.EntryID.String()).
		Str("wallet_id", ev.WalletID.String()).
		Str("direction", string(ev.Direction)).
		Str("reference", ev.Reference).
		Str("reason", string(ev.Reason)).
		Int64("amount_minor", ev.Amount.Amount()).
		Str("currency", string(ev.Amount.Currency())).
		Time("timestamp", ev.Timestamp).
		Msg("ledger event")
	return nil
}
