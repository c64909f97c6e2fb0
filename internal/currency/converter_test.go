package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacancycli/internal/errors"
)

func TestConverter_Rate(t *testing.T) {
	c := NewConverter(nil)

	tests := []struct {
		code string
		want float64
	}{
		{"AZN", 35.68},
		{"BYR", 23.91},
		{"EUR", 59.90},
		{"GEL", 21.74},
		{"KGS", 0.76},
		{"KZT", 0.13},
		{"RUR", 1},
		{"UAH", 1.64},
		{"USD", 60.66},
		{"UZS", 0.0055},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := c.Rate(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverter_UnknownCode(t *testing.T) {
	c := NewConverter(nil)

	for _, code := range []string{"", "rur", "GBP", "RUB"} {
		_, err := c.Rate(code)
		require.Error(t, err, code)
		assert.True(t, errors.IsType(err, errors.ErrTypeCurrency), code)
	}
}

func TestConverter_ToRUB(t *testing.T) {
	c := NewConverter(nil)

	got, err := c.ToRUB(1000, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 60660, got, 1e-9)

	_, err = c.ToRUB(1000, "XXX")
	assert.Error(t, err)
}

func TestConverter_CustomTableIsCopied(t *testing.T) {
	rates := map[string]float64{"RUR": 1, "EUR": 100}
	c := NewConverter(rates)
	rates["EUR"] = 1

	got, err := c.Rate("EUR")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	_, err = c.Rate("USD")
	assert.Error(t, err)
}

func TestConverter_Codes(t *testing.T) {
	assert.Equal(t,
		[]string{"AZN", "BYR", "EUR", "GEL", "KGS", "KZT", "RUR", "UAH", "USD", "UZS"},
		NewConverter(nil).Codes())
}

func TestDefaultRates_ReturnsCopy(t *testing.T) {
	rates := DefaultRates()
	rates["RUR"] = 42

	got, err := NewConverter(nil).Rate("RUR")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
	assert.Len(t, DefaultRates(), 10)
}
