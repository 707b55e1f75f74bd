package domain

import (
	"time"

	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
)

// TransferStatus is the outcome of a committed transfer.
type TransferStatus string

const TransferStatusCommitted TransferStatus = "COMMITTED"

// TransferResult describes the two entries a committed transfer wrote.
// Replayed is set when the result was returned for a reference that had
// already been processed.
type TransferResult struct {
	Reference           string         `json:"reference"`
	Status              TransferStatus `json:"status"`
	SourceWalletID      uuid.UUID      `json:"source_wallet_id"`
	DestinationWalletID uuid.UUID      `json:"destination_wallet_id"`
	Amount              money.Money    `json:"amount"`
	Debit               LedgerEntry    `json:"debit"`
	Credit              LedgerEntry    `json:"credit"`
	Replayed            bool           `json:"replayed"`
	CommittedAt         time.Time      `json:"committed_at"`
}

// NewTransferResult builds the result from the two legs.
func NewTransferResult(debit, credit *LedgerEntry) *TransferResult {
	return &TransferResult{
		Reference:           debit.Reference,
		Status:              TransferStatusCommitted,
		SourceWalletID:      debit.WalletID,
		DestinationWalletID: credit.WalletID,
		Amount:              debit.Amount,
		Debit:               *debit,
		Credit:              *credit,
		CommittedAt:         debit.CreatedAt,
	}
}
