package dto

import (
	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"
)

// AmountRequest is an amount in major units as a decimal string, so that
// clients never send floats: {"amount":"250.00","currency":"MXN"}.
type AmountRequest struct {
	Amount   string `json:"amount" binding:"required,decimal_amount"`
	Currency string `json:"currency" binding:"required,currency"`
}

// Money parses the request amount.
func (a AmountRequest) Money() (money.Money, error) {
	cur, err := money.ParseCurrency(a.Currency)
	if err != nil {
		return money.Money{}, apperror.ErrUnsupportedCurrency(a.Currency)
	}
	m, err := money.Parse(a.Amount, cur)
	if err != nil {
		return money.Money{}, apperror.ErrInvalidAmount(err.Error())
	}
	return m, nil
}

// MovementRequest is the body of credit, debit, block and unblock.
type MovementRequest struct {
	OwnerID   string `json:"owner_id" binding:"required,uuid"`
	Reference string `json:"reference" binding:"required,max=100,safe_id"`
	Reason    string `json:"reason,omitempty" binding:"omitempty,reason"`
	AmountRequest
}

// TransferRequest is the body of POST /transfers.
type TransferRequest struct {
	SourceOwnerID      string `json:"source_owner_id" binding:"required,uuid"`
	DestinationOwnerID string `json:"destination_owner_id" binding:"required,uuid,nefield=SourceOwnerID"`
	Reference          string `json:"reference" binding:"required,max=100,safe_id"`
	AmountRequest
}

// ComputeMarginsRequest previews a cascade without storing it.
type ComputeMarginsRequest struct {
	PrecioDistribuidor AmountRequest `json:"precio_distribuidor"`
	Delta              AmountRequest `json:"delta"`
}

// ConfigureMarginRequest creates the margin of an offer for a distributor.
type ConfigureMarginRequest struct {
	OfferID            string        `json:"offer_id" binding:"required,uuid"`
	DistributorID      string        `json:"distributor_id" binding:"required,uuid"`
	PrecioDistribuidor AmountRequest `json:"precio_distribuidor"`
	Delta              AmountRequest `json:"delta"`
}

// UpdateVendorPriceRequest reprices an existing margin.
type UpdateVendorPriceRequest struct {
	OfferID        string        `json:"offer_id" binding:"required,uuid"`
	DistributorID  string        `json:"distributor_id" binding:"required,uuid"`
	PrecioVendedor AmountRequest `json:"precio_vendedor"`
}

// MarginKeyRequest identifies one offer margin.
type MarginKeyRequest struct {
	OfferID       string `json:"offer_id" form:"offer_id" binding:"required,uuid"`
	DistributorID string `json:"distributor_id" form:"distributor_id" binding:"required,uuid"`
}

// AuthorizedQuery is the query of GET /hierarchy/authorized.
type AuthorizedQuery struct {
	TargetID   string `form:"target_id" binding:"required,uuid"`
	Permission string `form:"permission" binding:"required,oneof=MANAGE TRANSFER MARGIN_EDIT"`
}

// SnapshotQuery selects the wallet currency.
type SnapshotQuery struct {
	Currency string `form:"currency" binding:"omitempty,currency"`
}

// ClearHoldRequest releases an integrity freeze.
type ClearHoldRequest struct {
	Note string `json:"note" binding:"required,min=3,max=500"`
}

// AuthorizedResponse answers an authorization question.
type AuthorizedResponse struct {
	ActorID    string            `json:"actor_id"`
	TargetID   string            `json:"target_id"`
	Permission domain.Permission `json:"permission"`
	Authorized bool              `json:"authorized"`
}

// ReconcileResponse is the outcome of a single-wallet reconciliation.
type ReconcileResponse struct {
	WalletID string      `json:"wallet_id"`
	Balance  money.Money `json:"balance"`
	Display  string      `json:"display"`
	Status   string      `json:"status"`
}
