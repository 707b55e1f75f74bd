package domain

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Direction is the effect of a ledger entry on its wallet.
type Direction string

const (
	DirectionCredit  Direction = "CREDIT"
	DirectionDebit   Direction = "DEBIT"
	DirectionBlock   Direction = "BLOCK"
	DirectionUnblock Direction = "UNBLOCK"
)

// Reason classifies why money moved.
type Reason string

const (
	ReasonDeposit    Reason = "DEPOSIT"
	ReasonWithdrawal Reason = "WITHDRAWAL"
	ReasonTransfer   Reason = "TRANSFER"
	ReasonAdjustment Reason = "ADJUSTMENT"
	ReasonRefund     Reason = "REFUND"
	ReasonOfferSale  Reason = "OFFER_SALE"
	ReasonCommission Reason = "COMMISSION"
	ReasonHold       Reason = "HOLD"
	ReasonRelease    Reason = "RELEASE"
)

// Valid reports whether r is a known reason.
func (r Reason) Valid() bool {
	switch r {
	case ReasonDeposit, ReasonWithdrawal, ReasonTransfer, ReasonAdjustment, ReasonRefund,
		ReasonOfferSale, ReasonCommission, ReasonHold, ReasonRelease:
		return true
	}
	return false
}

// LedgerEntry is an immutable record of one balance change.
type LedgerEntry struct {
	ID                   uuid.UUID   `json:"id"`
	Sequence             int64       `json:"sequence"`
	WalletID             uuid.UUID   `json:"wallet_id"`
	Direction            Direction   `json:"direction"`
	Amount               money.Money `json:"amount"`
	ResultingBalance     money.Money `json:"resulting_balance"`
	ResultingBlocked     money.Money `json:"resulting_blocked"`
	Reference            string      `json:"reference"`
	Reason               Reason      `json:"reason"`
	CounterpartyWalletID *uuid.UUID  `json:"counterparty_wallet_id,omitempty"`
	CreatedBy            uuid.UUID   `json:"created_by"`
	CreatedAt            time.Time   `json:"created_at"`
	PrevHash             string      `json:"prev_hash"`
	Hash                 string      `json:"hash"`
}

// Movement describes a requested balance change before it is recorded.
type Movement struct {
	Direction    Direction
	Amount       money.Money
	Reference    string
	Reason       Reason
	Counterparty *uuid.UUID
	CreatedBy    uuid.UUID
}

// Record applies m to w and returns the entry for it, chained onto the
// wallet's previous hash. The wallet is unchanged when an error is returned.
func Record(w *Wallet, m Movement, now time.Time) (*LedgerEntry, error) {
	if err := w.Apply(m.Direction, m.Amount); err != nil {
		return nil, err
	}

	// Stored timestamps have microsecond precision.
	at := now.UTC().Truncate(time.Microsecond)
	e := &LedgerEntry{
		ID:                   uuid.New(),
		WalletID:             w.ID,
		Direction:            m.Direction,
		Amount:               m.Amount,
		ResultingBalance:     w.Balance,
		ResultingBlocked:     w.Blocked,
		Reference:            m.Reference,
		Reason:               m.Reason,
		CounterpartyWalletID: m.Counterparty,
		CreatedBy:            m.CreatedBy,
		CreatedAt:            at,
		PrevHash:             w.LastHash,
	}
	e.Hash = ComputeHash(e.PrevHash, e)

	w.LastHash = e.Hash
	w.UpdatedAt = at
	return e, nil
}

// Matches reports whether the entry records the same operation as m, which
// is what makes a replayed reference idempotent rather than a conflict.
func (e *LedgerEntry) Matches(m Movement) bool {
	if e.Direction != m.Direction || e.Amount != m.Amount || e.Reason != m.Reason {
		return false
	}
	switch {
	case e.CounterpartyWalletID == nil && m.Counterparty == nil:
		return true
	case e.CounterpartyWalletID == nil || m.Counterparty == nil:
		return false
	default:
		return *e.CounterpartyWalletID == *m.Counterparty
	}
}

// ComputeHash chains an entry onto prev using BLAKE2b-256.
func ComputeHash(prev string, e *LedgerEntry) string {
	counterparty := ""
	if e.CounterpartyWalletID != nil {
		counterparty = e.CounterpartyWalletID.String()
	}
	fields := []string{
		prev,
		e.ID.String(),
		e.WalletID.String(),
		string(e.Direction),
		strconv.FormatInt(e.Amount.Amount(), 10),
		string(e.Amount.Currency()),
		strconv.FormatInt(e.ResultingBalance.Amount(), 10),
		strconv.FormatInt(e.ResultingBlocked.Amount(), 10),
		e.Reference,
		string(e.Reason),
		counterparty,
		strconv.FormatInt(e.CreatedAt.UTC().UnixMicro(), 10),
	}
	sum := blake2b.Sum256([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])
}

// SortBySequence orders entries oldest first, in place.
func SortBySequence(entries []LedgerEntry) {
	slices.SortFunc(entries, func(a, b LedgerEntry) int {
		switch {
		case a.Sequence < b.Sequence:
			return -1
		case a.Sequence > b.Sequence:
			return 1
		}
		return 0
	})
}

// Fold replays entries (in sequence order) from zero and returns the
// balance and blocked balance they imply.
func Fold(entries []LedgerEntry, currency money.Currency) (balance, blocked money.Money, err error) {
	balance, blocked = money.Zero(currency), money.Zero(currency)
	for _, e := range entries {
		switch e.Direction {
		case DirectionCredit:
			balance, err = balance.Add(e.Amount)
		case DirectionDebit:
			balance, err = balance.Sub(e.Amount)
		case DirectionBlock:
			blocked, err = blocked.Add(e.Amount)
		case DirectionUnblock:
			blocked, err = blocked.Sub(e.Amount)
		default:
			err = fmt.Errorf("entry %d: unknown direction %q", e.Sequence, e.Direction)
		}
		if err != nil {
			return money.Money{}, money.Money{}, fmt.Errorf("fold entry %d: %w", e.Sequence, err)
		}
	}
	return balance, blocked, nil
}

// VerifyChain checks that every entry links to its predecessor and that
// its stored hash matches its contents.
func VerifyChain(entries []LedgerEntry) error {
	prev := ""
	for i := range entries {
		e := &entries[i]
		if e.PrevHash != prev {
			return fmt.Errorf("entry %d: previous hash does not link", e.Sequence)
		}
		if ComputeHash(prev, e) != e.Hash {
			return fmt.Errorf("entry %d: hash does not match contents", e.Sequence)
		}
		prev = e.Hash
	}
	return nil
}
