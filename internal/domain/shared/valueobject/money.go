package valueobject

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code
type Currency string

const GBP Currency = "GBP"

// DefaultCurrency is the currency every price is quoted in
const DefaultCurrency = GBP

var symbols = map[Currency]string{GBP: "£", "EUR": "€", "USD": "$"}

// Money pairs an exact amount with its currency. Amounts are never rounded;
// only the textual forms fix two decimal places.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

// Pounds quotes amount in sterling
func Pounds(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: GBP}
}

// Plus adds o, which must share m's currency
func (m Money) Plus(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("add %s to %s: currency mismatch", o.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Add(o.Amount), Currency: m.Currency}, nil
}

// Times scales m by an item quantity
func (m Money) Times(qty int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(qty))), Currency: m.Currency}
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + string(m.Currency)
}

// Display renders m for people, e.g. "£45.00"; unknown currencies fall back to String
func (m Money) Display() string {
	sym, ok := symbols[m.Currency]
	if !ok {
		return m.String()
	}
	if m.Amount.IsNegative() {
		return "-" + sym + m.Amount.Neg().StringFixed(2)
	}
	return sym + m.Amount.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"amount":   m.Amount.StringFixed(2),
		"currency": string(m.Currency),
	})
}
