package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of minor-unit digits for every supported currency.
const Scale = 2

var (
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrOverflow         = errors.New("money: amount overflows int64 minor units")
	ErrPrecisionLoss    = errors.New("money: more than two fractional digits")
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrInvalidAmount    = errors.New("money: invalid amount")
)

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
	hundred  = decimal.NewFromInt(100)
)

// Currency is an ISO-4217 style three-letter code.
type Currency string

const MXN Currency = "MXN"

// ParseCurrency normalises and validates a currency code.
func ParseCurrency(s string) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
		}
	}
	return Currency(code), nil
}

// Money is a fixed-point amount in minor units of a single currency.
type Money struct {
	amount   int64
	currency Currency
}

// New builds a Money value from minor units.
func New(minor int64, currency Currency) Money {
	return Money{amount: minor, currency: currency}
}

// Zero returns the zero amount in the given currency.
func Zero(currency Currency) Money {
	return Money{currency: currency}
}

// Parse reads a decimal string such as "250.00". It never rounds: inputs
// with more than Scale fractional digits are rejected.
func Parse(s string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d, currency)
}

// FromDecimal converts an exact decimal into minor units.
func FromDecimal(d decimal.Decimal, currency Currency) (Money, error) {
	if !d.Equal(d.Truncate(Scale)) {
		return Money{}, fmt.Errorf("%w: %s", ErrPrecisionLoss, d.String())
	}
	minor := d.Shift(Scale)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return Money{}, ErrOverflow
	}
	return Money{amount: minor.IntPart(), currency: currency}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string, currency Currency) Money {
	m, err := Parse(s, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Amount() int64      { return m.amount }
func (m Money) Currency() Currency { return m.currency }
func (m Money) IsZero() bool       { return m.amount == 0 }
func (m Money) IsPositive() bool   { return m.amount > 0 }
func (m Money) IsNegative() bool   { return m.amount < 0 }

// SameCurrency reports whether both values share a currency.
func (m Money) SameCurrency(o Money) bool {
	return m.currency == o.currency
}

// Add returns m + o.
func (m Money) Add(o Money) (Money, error) {
	if !m.SameCurrency(o) {
		return Money{}, ErrCurrencyMismatch
	}
	if (o.amount > 0 && m.amount > math.MaxInt64-o.amount) ||
		(o.amount < 0 && m.amount < math.MinInt64-o.amount) {
		return Money{}, ErrOverflow
	}
	return Money{amount: m.amount + o.amount, currency: m.currency}, nil
}

// Sub returns m - o.
func (m Money) Sub(o Money) (Money, error) {
	if !m.SameCurrency(o) {
		return Money{}, ErrCurrencyMismatch
	}
	if (o.amount < 0 && m.amount > math.MaxInt64+o.amount) ||
		(o.amount > 0 && m.amount < math.MinInt64+o.amount) {
		return Money{}, ErrOverflow
	}
	return Money{amount: m.amount - o.amount, currency: m.currency}, nil
}

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) (int, error) {
	if !m.SameCurrency(o) {
		return 0, ErrCurrencyMismatch
	}
	switch {
	case m.amount < o.amount:
		return -1, nil
	case m.amount > o.amount:
		return 1, nil
	default:
		return 0, nil
	}
}

// Decimal returns the major-unit decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -Scale)
}

// Percent returns pct percent of m, rounded half away from zero to the
// minor unit. Callers that split an amount should derive the last share
// as a remainder so that the parts always sum to the whole.
func (m Money) Percent(pct decimal.Decimal) (Money, error) {
	share := m.Decimal().Mul(pct).Div(hundred).Round(Scale)
	return FromDecimal(share, m.currency)
}

// String renders "250.00 MXN". It is the presentation boundary.
func (m Money) String() string {
	return m.Decimal().StringFixed(Scale) + " " + string(m.currency)
}

type moneyJSON struct {
	Amount   int64    `json:"amount"`
	Currency Currency `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	cur, err := ParseCurrency(string(raw.Currency))
	if err != nil {
		return err
	}
	m.amount = raw.Amount
	m.currency = cur
	return nil
}
