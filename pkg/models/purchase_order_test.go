package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsAppliesTaxRate(t *testing.T) {
	order := PurchaseOrder{
		TaxRate: decimal.NewFromInt(20),
		Lines: []OrderLine{
			{Quantity: 3, UnitPrice: decimal.NewFromFloat(12.00)},
			{Quantity: 2, UnitPrice: decimal.NewFromFloat(5.50)},
		},
	}

	order.ComputeTotals()

	assert.Equal(t, "36.00", order.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "11.00", order.Lines[1].LineTotal.StringFixed(2))
	assert.Equal(t, "47.00", order.TotalHT.StringFixed(2))
	assert.Equal(t, "56.40", order.TotalTTC.StringFixed(2))
}

func TestComputeTotalsRoundsToCents(t *testing.T) {
	order := PurchaseOrder{
		TaxRate: decimal.NewFromInt(20),
		Lines: []OrderLine{
			{Quantity: 3, UnitPrice: decimal.NewFromFloat(3.333)},
		},
	}

	order.ComputeTotals()

	assert.Equal(t, "10.00", order.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "10.00", order.TotalHT.StringFixed(2))
	assert.Equal(t, "12.00", order.TotalTTC.StringFixed(2))
}

func TestComputeTotalsEmptyOrder(t *testing.T) {
	order := PurchaseOrder{TaxRate: decimal.NewFromInt(20)}

	order.ComputeTotals()

	assert.Equal(t, "0.00", order.TotalHT.StringFixed(2))
	assert.Equal(t, "0.00", order.TotalTTC.StringFixed(2))
}

func TestFullyReceived(t *testing.T) {
	tests := []struct {
		name     string
		lines    []OrderLine
		expected bool
	}{
		{"all lines received", []OrderLine{
			{Quantity: 5, ReceivedQty: 5},
			{Quantity: 2, ReceivedQty: 2},
		}, true},
		{"one line short", []OrderLine{
			{Quantity: 5, ReceivedQty: 5},
			{Quantity: 2, ReceivedQty: 1},
		}, false},
		{"no lines", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := PurchaseOrder{Lines: tt.lines}
			assert.Equal(t, tt.expected, order.FullyReceived())
		})
	}
}
