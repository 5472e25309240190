package currencyutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"35", "35"},
		{"¥35.00", "35"},
		{"1,234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1'234.50", "1234.5"},
		{"1234,56", "1234.56"},
		{"", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			amount, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amount.String())
		})
	}

	_, err := ParseAmount("abc")
	assert.Error(t, err)
}

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "simple", text: "花了35元", want: "35"},
		{name: "decimal", text: "消费 ¥12.50", want: "12.50"},
		{name: "last match wins", text: "余额100 本次消费35.00", want: "35.00"},
		{name: "thousands separators removed", text: "转账 1,234.56", want: "1234.56"},
		{name: "nothing", text: "星巴克", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAmount(tt.text))
		})
	}
}

func TestDetectCurrency(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"花了35元", "CNY"},
		{"三十五块", "CNY"},
		{"¥35.00", "CNY"},
		{"spent $12.50", "USD"},
		{"花了20美元", "USD"},
		{"€9.99", "EUR"},
		{"paid 12 CHF", "CHF"},
		{"星巴克", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCurrency(tt.text))
		})
	}
}

func TestEqualAmounts(t *testing.T) {
	assert.True(t, EqualAmounts("35", "35.00"))
	assert.True(t, EqualAmounts("¥35.00", "35"))
	assert.True(t, EqualAmounts("1,234.56", "1234.56"))
	assert.False(t, EqualAmounts("35", "35.01"))
	// Unparseable values fall back to string comparison.
	assert.True(t, EqualAmounts("n/a", "n/a"))
	assert.False(t, EqualAmounts("n/a", "35"))
}
