package domain

import (
	"time"

	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
)

// IncidentKind classifies an integrity violation.
type IncidentKind string

const (
	IncidentBalanceMismatch IncidentKind = "BALANCE_MISMATCH"
	IncidentHashChainBroken IncidentKind = "HASH_CHAIN_BROKEN"
)

// IntegrityIncident records a wallet frozen by reconciliation and, once an
// operator releases it, who cleared it and why.
type IntegrityIncident struct {
	ID             uuid.UUID    `json:"id"`
	WalletID       uuid.UUID    `json:"wallet_id"`
	Kind           IncidentKind `json:"kind"`
	LedgerBalance  money.Money  `json:"ledger_balance"`
	StoredBalance  money.Money  `json:"stored_balance"`
	LedgerBlocked  money.Money  `json:"ledger_blocked"`
	StoredBlocked  money.Money  `json:"stored_blocked"`
	Detail         string       `json:"detail"`
	DetectedAt     time.Time    `json:"detected_at"`
	ClearedAt      *time.Time   `json:"cleared_at,omitempty"`
	ClearedBy      *uuid.UUID   `json:"cleared_by,omitempty"`
	ResolutionNote string       `json:"resolution_note,omitempty"`
}

// IsOpen reports whether the incident still holds the wallet frozen.
func (i *IntegrityIncident) IsOpen() bool {
	return i.ClearedAt == nil
}
