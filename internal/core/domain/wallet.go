package domain

import (
	"time"

	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
)

// Wallet holds one actor's funds in one currency.
// Invariants: Balance >= 0, Blocked >= 0, Balance - Blocked >= 0.
type Wallet struct {
	ID        uuid.UUID      `json:"id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Currency  money.Currency `json:"currency"`
	Balance   money.Money    `json:"balance"`
	Blocked   money.Money    `json:"blocked_balance"`
	Version   int64          `json:"version"`
	Frozen    bool           `json:"frozen"`
	LastHash  string         `json:"-"` // hash of the newest ledger entry
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewWallet returns an empty wallet for owner.
func NewWallet(ownerID uuid.UUID, currency money.Currency, now time.Time) *Wallet {
	return &Wallet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Currency:  currency,
		Balance:   money.Zero(currency),
		Blocked:   money.Zero(currency),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Available is Balance minus Blocked.
func (w *Wallet) Available() money.Money {
	return money.New(w.Balance.Amount()-w.Blocked.Amount(), w.Currency)
}

// Apply performs one movement on the in-memory balances. On error the
// wallet is left untouched.
func (w *Wallet) Apply(dir Direction, amount money.Money) error {
	if w.Frozen {
		return apperror.ErrIntegrityViolation("Wallet is frozen pending reconciliation").
			WithDetail("wallet_id", w.ID.String())
	}
	if amount.Currency() != w.Currency {
		return apperror.ErrCurrencyMismatch().
			WithDetail("wallet_currency", string(w.Currency)).
			WithDetail("amount_currency", string(amount.Currency()))
	}
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount("Amount must be positive")
	}

	available := w.Available()
	switch dir {
	case DirectionCredit:
		next, err := w.Balance.Add(amount)
		if err != nil {
			return apperror.ErrInvalidAmount("Amount overflows balance")
		}
		w.Balance = next
	case DirectionDebit:
		if amount.Amount() > available.Amount() {
			return apperror.ErrInsufficientFunds(available.String(), amount.String())
		}
		w.Balance = money.New(w.Balance.Amount()-amount.Amount(), w.Currency)
	case DirectionBlock:
		if amount.Amount() > available.Amount() {
			return apperror.ErrInsufficientFunds(available.String(), amount.String())
		}
		w.Blocked = money.New(w.Blocked.Amount()+amount.Amount(), w.Currency)
	case DirectionUnblock:
		if amount.Amount() > w.Blocked.Amount() {
			return apperror.ErrInvalidAmount("Amount exceeds blocked balance").
				WithDetail("blocked", w.Blocked.String()).
				WithDetail("requested", amount.String())
		}
		w.Blocked = money.New(w.Blocked.Amount()-amount.Amount(), w.Currency)
	default:
		return apperror.Validation("unknown ledger direction " + string(dir))
	}

	w.Version++
	return nil
}

// WalletSnapshot is a read-only view of a wallet at a point in time.
type WalletSnapshot struct {
	WalletID  uuid.UUID   `json:"wallet_id"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	Balance   money.Money `json:"balance"`
	Blocked   money.Money `json:"blocked_balance"`
	Available money.Money `json:"available"`
	Frozen    bool        `json:"frozen"`
	Version   int64       `json:"version"`
	AsOf      time.Time   `json:"as_of"`
}

// Snapshot copies the wallet's balances.
func (w *Wallet) Snapshot(asOf time.Time) WalletSnapshot {
	return WalletSnapshot{
		WalletID:  w.ID,
		OwnerID:   w.OwnerID,
		Balance:   w.Balance,
		Blocked:   w.Blocked,
		Available: w.Available(),
		Frozen:    w.Frozen,
		Version:   w.Version,
		AsOf:      asOf,
	}
}
