package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity rejects a non-finite or non-positive trade quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive number")

	// ErrInsufficientFunds rejects a trade that would overdraw a balance.
	ErrInsufficientFunds = errors.New("insufficient balance")
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade records one executed simulated order.
type Trade struct {
	ID         string
	Side       Side
	Quantity   decimal.Decimal // base units (ETH)
	Price      decimal.Decimal // quote per base unit at execution
	Value      decimal.Decimal // quote moved, rounded to cents
	ExecutedAt time.Time
}

// Account holds the fictional quote (USD) and base (ETH) balances.
// Balances use decimal arithmetic so a buy followed by a sell at the same
// price returns the account to its exact starting state.
type Account struct {
	quote decimal.Decimal
	base  decimal.Decimal
}

// NewAccount creates an account with the given starting balances.
func NewAccount(quoteBalance, baseBalance float64) *Account {
	return &Account{
		quote: decimal.NewFromFloat(quoteBalance).Round(2),
		base:  decimal.NewFromFloat(baseBalance),
	}
}

// Quote returns the current quote (USD) balance.
func (a *Account) Quote() decimal.Decimal { return a.quote }

// Base returns the current base (ETH) balance.
func (a *Account) Base() decimal.Decimal { return a.base }

// Equity values the whole account in quote units at the given price.
func (a *Account) Equity(price float64) decimal.Decimal {
	p := decimal.NewFromFloat(price)
	return a.quote.Add(a.base.Mul(p)).Round(2)
}

// Buy exchanges quote for qty base units at the given price.
// On any error the account is left untouched.
func (a *Account) Buy(qty, price float64) (Trade, error) {
	q, err := checkQuantity(qty)
	if err != nil {
		return Trade{}, err
	}

	cost := q.Mul(decimal.NewFromFloat(price)).Round(2)
	if cost.GreaterThan(a.quote) {
		return Trade{}, fmt.Errorf("buy %s costs %s with %s available: %w",
			q, cost, a.quote, ErrInsufficientFunds)
	}

	a.quote = a.quote.Sub(cost)
	a.base = a.base.Add(q)
	return a.trade(SideBuy, q, price, cost), nil
}

// Sell exchanges qty base units for quote at the given price.
// On any error the account is left untouched.
func (a *Account) Sell(qty, price float64) (Trade, error) {
	q, err := checkQuantity(qty)
	if err != nil {
		return Trade{}, err
	}

	if q.GreaterThan(a.base) {
		return Trade{}, fmt.Errorf("sell %s with %s available: %w",
			q, a.base, ErrInsufficientFunds)
	}

	proceeds := q.Mul(decimal.NewFromFloat(price)).Round(2)
	a.base = a.base.Sub(q)
	a.quote = a.quote.Add(proceeds)
	return a.trade(SideSell, q, price, proceeds), nil
}

func (a *Account) trade(side Side, q decimal.Decimal, price float64, value decimal.Decimal) Trade {
	return Trade{
		ID:         uuid.New().String(),
		Side:       side,
		Quantity:   q,
		Price:      decimal.NewFromFloat(price),
		Value:      value,
		ExecutedAt: time.Now().UTC(),
	}
}

func checkQuantity(qty float64) (decimal.Decimal, error) {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 {
		return decimal.Decimal{}, fmt.Errorf("got %v: %w", qty, ErrInvalidQuantity)
	}
	return decimal.NewFromFloat(qty), nil
}
