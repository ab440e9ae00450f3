// Package currency formats collection values in USD and the collection's
// local currency. Every money string shown to a user comes from Format.
package currency

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Currency is a display currency
type Currency struct {
	Code   string `toml:"code"`
	Symbol string `toml:"symbol"`
}

var (
	GTQ = Currency{Code: "GTQ", Symbol: "Q"}
	USD = Currency{Code: "USD", Symbol: "$"}
)

// Amounts is a USD value and its local conversion. The strings carry two
// decimals and thousands grouping; the decimals are rounded to cents.
type Amounts struct {
	Local      string
	USD        string
	LocalValue decimal.Decimal
	USDValue   decimal.Decimal
}

// Format converts valueUSD at rate and renders both sides
func Format(valueUSD, rate decimal.Decimal) Amounts {
	usd := valueUSD.Round(2)
	local := valueUSD.Mul(rate).Round(2)
	return Amounts{
		Local:      group(local),
		USD:        group(usd),
		LocalValue: local,
		USDValue:   usd,
	}
}

// FormatFloat is Format for values decoded from JSON
func FormatFloat(valueUSD, rate float64) Amounts {
	return Format(decimal.NewFromFloat(valueUSD), decimal.NewFromFloat(rate))
}

// group renders d with two decimals and comma-separated thousands
func group(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	wholeValue, _ := decimal.NewFromString(whole)
	return sign + humanize.BigComma(wholeValue.BigInt()) + "." + frac
}

// Money renders a with currency symbols, e.g. "Q19,375.00" and "$2,500.00 USD"
func Money(a Amounts, local Currency) (string, string) {
	return local.Symbol + a.Local, USD.Symbol + a.USD + " " + USD.Code
}

// ParseRate parses a user-entered exchange rate. Any positive number is
// accepted, the rate ladder is only a convenience.
func ParseRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid exchange rate %q: %w", s, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("exchange rate must be positive, got %s", rate)
	}
	return rate, nil
}

// Ladder returns the selectable rates from low to high in step increments
func Ladder(low, high, step decimal.Decimal) []decimal.Decimal {
	var rates []decimal.Decimal
	for r := low; r.LessThanOrEqual(high); r = r.Add(step) {
		rates = append(rates, r)
	}
	return rates
}
