package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Article struct {
	ID            int             `json:"id" db:"id"`
	Reference     string          `json:"reference" db:"reference"`
	Designation   string          `json:"designation" db:"designation"`
	Stock         int             `json:"stock" db:"stock"`
	StockMin      int             `json:"stock_min" db:"stock_min"`
	StockMax      int             `json:"stock_max" db:"stock_max"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	SupplierID    *int            `json:"supplier_id,omitempty" db:"supplier_id"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// BelowMinimum reports whether the article needs restocking.
func (a *Article) BelowMinimum() bool {
	return a.Stock < a.StockMin
}

func (a *Article) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "article",
	}
}
