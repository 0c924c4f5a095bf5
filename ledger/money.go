/*
money.go - Fixed-point monetary amounts tagged with a currency

PURPOSE:
  Every amount the ledger stores or aggregates is a Money: a decimal
  value plus an ISO-4217 currency code. Decimals (shopspring/decimal)
  guarantee exact accounting - repeated aggregation never drifts the
  way binary floating point does.

CRITICAL INVARIANT:
  Arithmetic between two Money values requires equal currencies.
  A mismatch is a hard *CurrencyMismatchError, never a silent coercion.
  The creation service validates input currencies up front, so a
  mismatch reaching this layer indicates a broken caller.

EQUALITY:
  Equality and ordering compare amount AND currency jointly.
  USD 10 != EUR 10, and USD 10 is not comparable to EUR 5.

SEE ALSO:
  - transaction.go: Per-kind decimal accumulators on TransactionItem
  - aggregate.go: Order totals summed from transaction accumulators
*/
package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal amount in a specific currency
// =============================================================================

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney creates a Money in the given currency.
// Currency codes are normalized to upper case on construction.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}
}

// NewMoneyFromString parses a decimal string into a Money.
func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return NewMoney(d, currency), nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

// MustParseDecimal parses a decimal string, returning zero on failure.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Add returns m + o. Fails with *CurrencyMismatchError on currency mismatch.
func (m Money) Add(o Money) (Money, error) {
	if !m.SameCurrency(o) {
		return Money{}, &CurrencyMismatchError{Op: "add", Left: m.Currency, Right: o.Currency}
	}
	return Money{Amount: m.Amount.Add(o.Amount), Currency: m.Currency}, nil
}

// Sub returns m - o. Fails with *CurrencyMismatchError on currency mismatch.
func (m Money) Sub(o Money) (Money, error) {
	if !m.SameCurrency(o) {
		return Money{}, &CurrencyMismatchError{Op: "sub", Left: m.Currency, Right: o.Currency}
	}
	return Money{Amount: m.Amount.Sub(o.Amount), Currency: m.Currency}, nil
}

// Cmp compares amounts: -1 if m < o, 0 if equal, +1 if m > o.
// Fails with *CurrencyMismatchError on currency mismatch.
func (m Money) Cmp(o Money) (int, error) {
	if !m.SameCurrency(o) {
		return 0, &CurrencyMismatchError{Op: "cmp", Left: m.Currency, Right: o.Currency}
	}
	return m.Amount.Cmp(o.Amount), nil
}

// Equal reports whether amount and currency both match.
func (m Money) Equal(o Money) bool {
	return m.Currency == o.Currency && m.Amount.Equal(o.Amount)
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency)
}

// SameCurrency reports whether both values carry the same currency code.
func (m Money) SameCurrency(o Money) bool { return m.Currency == o.Currency }
