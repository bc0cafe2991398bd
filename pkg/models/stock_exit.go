package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
)

const (
	ExitStatusActive  = "active"
	ExitStatusDeleted = "deleted"
)

type StockExit struct {
	ID         int                  `json:"id" db:"id"`
	ExitNumber string               `json:"exit_number" db:"exit_number"`
	ExitType   metadata.ExitType    `json:"exit_type" db:"exit_type"`
	Status     string               `json:"status" db:"status"`
	Lines      []ExitLine           `json:"lines" db:"-"`
	Notes      string               `json:"notes" db:"notes"`

	// Rental return tracking, only set for accessory_rental exits.
	ReturnState         metadata.ReturnState `json:"return_state,omitempty" db:"return_state"`
	Caution             *decimal.Decimal     `json:"caution,omitempty" db:"caution"`
	ExpectedReturnDate  *time.Time           `json:"expected_return_date,omitempty" db:"expected_return_date"`
	ActualReturnDate    *time.Time           `json:"actual_return_date,omitempty" db:"actual_return_date"`
	DamageDescription   string               `json:"damage_description,omitempty" db:"damage_description"`
	ReimbursementAmount *decimal.Decimal     `json:"reimbursement_amount,omitempty" db:"reimbursement_amount"`

	CreatedBy      *int       `json:"created_by,omitempty" db:"created_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	DeletedBy      *int       `json:"deleted_by,omitempty" db:"deleted_by"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletionReason string     `json:"deletion_reason,omitempty" db:"deletion_reason"`
}

type ExitLine struct {
	ID               int    `json:"id" db:"id"`
	ExitID           int    `json:"exit_id" db:"exit_id"`
	ArticleID        int    `json:"article_id" db:"article_id"`
	ArticleReference string `json:"article_reference" db:"article_reference"`
	Quantity         int    `json:"quantity" db:"quantity"`
}

// Active reports whether the exit has not been soft-deleted.
func (e *StockExit) Active() bool {
	return e.Status == ExitStatusActive
}

func (e *StockExit) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   e.ID,
		ResourceType: "exit",
	}
}
