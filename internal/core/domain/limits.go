package domain

import (
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"
)

// Limits are the per-movement and per-day bounds on money movement, in
// minor units. A zero bound is not enforced.
type Limits struct {
	MinAmount     int64
	MaxAmount     int64
	DailyTransfer int64
	BlockCeiling  int64
	Currencies    map[money.Currency]struct{}
}

// ParseLimits builds Limits from major-unit decimal strings.
func ParseLimits(minAmount, maxAmount, dailyTransfer, blockCeiling string, currencies []string) (Limits, error) {
	l := Limits{Currencies: make(map[money.Currency]struct{}, len(currencies))}
	targets := []*int64{&l.MinAmount, &l.MaxAmount, &l.DailyTransfer, &l.BlockCeiling}
	for i, s := range []string{minAmount, maxAmount, dailyTransfer, blockCeiling} {
		if s == "" {
			continue
		}
		m, err := money.Parse(s, money.MXN)
		if err != nil {
			return Limits{}, apperror.Validation("invalid ledger limit " + s)
		}
		*targets[i] = m.Amount()
	}
	for _, c := range currencies {
		cur, err := money.ParseCurrency(c)
		if err != nil {
			return Limits{}, apperror.Validation("invalid currency " + c)
		}
		l.Currencies[cur] = struct{}{}
	}
	return l, nil
}

// CheckCurrency rejects currencies that are not enabled. An empty set
// accepts any currency.
func (l Limits) CheckCurrency(c money.Currency) error {
	if len(l.Currencies) == 0 {
		return nil
	}
	if _, ok := l.Currencies[c]; !ok {
		return apperror.ErrUnsupportedCurrency(string(c))
	}
	return nil
}

// CheckAmount validates a single movement amount.
func (l Limits) CheckAmount(amount money.Money) error {
	if err := l.CheckCurrency(amount.Currency()); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount("Amount must be positive")
	}
	if l.MinAmount > 0 && amount.Amount() < l.MinAmount {
		return apperror.ErrInvalidAmount("Amount is below the minimum per movement").
			WithDetail("min", money.New(l.MinAmount, amount.Currency()).String())
	}
	if l.MaxAmount > 0 && amount.Amount() > l.MaxAmount {
		return apperror.ErrInvalidAmount("Amount exceeds the maximum per movement").
			WithDetail("max", money.New(l.MaxAmount, amount.Currency()).String())
	}
	return nil
}

// CheckBlock validates a block request against the block ceiling.
func (l Limits) CheckBlock(amount money.Money) error {
	if l.BlockCeiling > 0 && amount.Amount() > l.BlockCeiling {
		return apperror.ErrLimitExceeded("Amount exceeds the block ceiling").
			WithDetail("max", money.New(l.BlockCeiling, amount.Currency()).String())
	}
	return nil
}

// CheckDaily validates today's outbound total plus amount.
func (l Limits) CheckDaily(sentToday int64, amount money.Money) error {
	if l.DailyTransfer > 0 && sentToday+amount.Amount() > l.DailyTransfer {
		return apperror.ErrLimitExceeded("Daily transfer limit exceeded").
			WithDetail("limit", money.New(l.DailyTransfer, amount.Currency()).String()).
			WithDetail("sent_today", money.New(sentToday, amount.Currency()).String())
	}
	return nil
}
