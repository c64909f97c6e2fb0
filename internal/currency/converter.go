// Package currency converts vacancy salaries to roubles using a fixed rate table.
package currency

import (
	"sort"

	"vacancycli/internal/errors"
)

// Base is the currency every salary is normalized to.
const Base = "RUR"

// defaultRates maps a salary_currency code to its RUB rate.
var defaultRates = map[string]float64{
	"AZN": 35.68,
	"BYR": 23.91,
	"EUR": 59.90,
	"GEL": 21.74,
	"KGS": 0.76,
	"KZT": 0.13,
	"RUR": 1,
	"UAH": 1.64,
	"USD": 60.66,
	"UZS": 0.0055,
}

// DefaultRates returns a copy of the built-in rate table.
func DefaultRates() map[string]float64 {
	rates := make(map[string]float64, len(defaultRates))
	for code, rate := range defaultRates {
		rates[code] = rate
	}
	return rates
}

// Converter is a read-only lookup of RUB conversion rates.
type Converter struct {
	rates map[string]float64
}

// NewConverter builds a converter over rates. A nil map selects DefaultRates.
func NewConverter(rates map[string]float64) *Converter {
	if rates == nil {
		rates = defaultRates
	}
	c := &Converter{rates: make(map[string]float64, len(rates))}
	for code, rate := range rates {
		c.rates[code] = rate
	}
	return c
}

// Rate returns the RUB rate for code.
func (c *Converter) Rate(code string) (float64, error) {
	rate, ok := c.rates[code]
	if !ok {
		return 0, errors.NewCurrencyError(code)
	}
	return rate, nil
}

// ToRUB converts amount in code to roubles.
func (c *Converter) ToRUB(amount float64, code string) (float64, error) {
	rate, err := c.Rate(code)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// Codes lists the known currency codes in alphabetical order.
func (c *Converter) Codes() []string {
	codes := make([]string, 0, len(c.rates))
	for code := range c.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
