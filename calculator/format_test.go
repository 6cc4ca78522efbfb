package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		code   string
		want   string
	}{
		{0, "INR", "₹0"},
		{999, "INR", "₹999"},
		{1000, "INR", "₹1,000"},
		{125000, "INR", "₹1,25,000"},
		{5000000, "INR", "₹50,00,000"},
		{123456789, "INR", "₹12,34,56,789"},
		{-125000, "INR", "-₹1,25,000"},
		{1250000, "USD", "$1,250,000"},
		{999, "EUR", "€999"},
		{42000, "CHF", "CHF 42,000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.NewFromInt(tt.amount), tt.code))
		})
	}
}

func TestFormatAmountRounds(t *testing.T) {
	assert.Equal(t, "₹1,00,001", FormatAmount(decimal.RequireFromString("100000.5"), "INR"))
}

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "₹80,000 - ₹1,20,000", FormatRange(decimal.NewFromInt(80000), decimal.NewFromInt(120000), "INR"))
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("INR"))
	assert.True(t, ValidCurrency("USD"))
	assert.False(t, ValidCurrency("rupees"))
}
