package models

import "github.com/shopspring/decimal"

type Supplier struct {
	ID      int    `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Contact string `json:"contact" db:"contact"`
	Email   string `json:"email" db:"email"`
	Phone   string `json:"phone" db:"phone"`
}

// ArticleSupplier links an article to one of its suppliers. Position
// preserves insertion order so the fallback chain stays deterministic
// when no association is marked principal.
type ArticleSupplier struct {
	ID           int              `json:"id" db:"id"`
	ArticleID    int              `json:"article_id" db:"article_id"`
	SupplierID   int              `json:"supplier_id" db:"supplier_id"`
	SupplierName string           `json:"supplier_name" db:"supplier_name"`
	Contact      string           `json:"contact" db:"contact"`
	Principal    bool             `json:"principal" db:"principal"`
	Active       bool             `json:"active" db:"active"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty" db:"unit_price"`
	Position     int              `json:"position" db:"position"`
}
