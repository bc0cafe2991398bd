package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
)

type PurchaseOrder struct {
	ID              int                  `json:"id" db:"id"`
	OrderNumber     string               `json:"order_number" db:"order_number"`
	SupplierID      *int                 `json:"supplier_id,omitempty" db:"supplier_id"`
	SupplierName    string               `json:"supplier_name" db:"supplier_name"`
	SupplierContact string               `json:"supplier_contact" db:"supplier_contact"`
	Status          metadata.OrderStatus `json:"status" db:"status"`
	TaxRate         decimal.Decimal      `json:"tax_rate" db:"tax_rate"`
	TotalHT         decimal.Decimal      `json:"total_ht" db:"total_ht"`
	TotalTTC        decimal.Decimal      `json:"total_ttc" db:"total_ttc"`
	Lines           []OrderLine          `json:"lines" db:"-"`
	CreatedBy       *int                 `json:"created_by,omitempty" db:"created_by"`
	CreatedAt       time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" db:"updated_at"`
}

type OrderLine struct {
	ID               int             `json:"id" db:"id"`
	OrderID          int             `json:"order_id" db:"order_id"`
	ArticleID        int             `json:"article_id" db:"article_id"`
	ArticleReference string          `json:"article_reference" db:"article_reference"`
	Designation      string          `json:"designation" db:"designation"`
	Quantity         int             `json:"quantity" db:"quantity"`
	ReceivedQty      int             `json:"received_qty" db:"received_qty"`
	UnitPrice        decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total" db:"line_total"`
}

// ComputeTotal refreshes the line total from quantity and unit price.
func (l *OrderLine) ComputeTotal() {
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// ComputeTotals recomputes every line total plus the order header totals:
// total_ht is the sum of line totals, total_ttc applies the tax rate.
func (o *PurchaseOrder) ComputeTotals() {
	totalHT := decimal.Zero
	for i := range o.Lines {
		o.Lines[i].ComputeTotal()
		totalHT = totalHT.Add(o.Lines[i].LineTotal)
	}
	o.TotalHT = totalHT.Round(2)

	multiplier := decimal.NewFromInt(1).Add(o.TaxRate.Div(decimal.NewFromInt(100)))
	o.TotalTTC = o.TotalHT.Mul(multiplier).Round(2)
}

// FullyReceived reports whether every line has been received in full.
func (o *PurchaseOrder) FullyReceived() bool {
	if len(o.Lines) == 0 {
		return false
	}
	for _, line := range o.Lines {
		if line.ReceivedQty < line.Quantity {
			return false
		}
	}
	return true
}

func (o *PurchaseOrder) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   o.ID,
		ResourceType: "order",
	}
}
