package domain

import (
	"time"

	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
)

// LedgerEvent is published once per committed ledger entry.
type LedgerEvent struct {
	EntryID   uuid.UUID   `json:"entry_id"`
	WalletID  uuid.UUID   `json:"wallet_id"`
	Direction Direction   `json:"direction"`
	Amount    money.Money `json:"amount"`
	Reference string      `json:"reference"`
	Reason    Reason      `json:"reason"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewLedgerEvent derives the event for a committed entry.
func NewLedgerEvent(e *LedgerEntry) LedgerEvent {
	return LedgerEvent{
		EntryID:   e.ID,
		WalletID:  e.WalletID,
		Direction: e.Direction,
		Amount:    e.Amount,
		Reference: e.Reference,
		Reason:    e.Reason,
		Timestamp: e.CreatedAt,
	}
}
