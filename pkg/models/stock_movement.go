package models

import (
	"time"

	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
)

// StockMovement is one immutable ledger row: a single signed quantity
// change for a single article. Rows are only ever appended; the sum of
// all deltas for an article equals its cached stock.
type StockMovement struct {
	ID        int                     `json:"id" db:"id"`
	ArticleID int                     `json:"article_id" db:"article_id"`
	Delta     int                     `json:"delta" db:"delta"`
	Reason    metadata.MovementReason `json:"reason" db:"reason"`
	ActorID   *int                    `json:"actor_id,omitempty" db:"actor_id"`
	ExitID    *int                    `json:"exit_id,omitempty" db:"exit_id"`
	OrderID   *int                    `json:"order_id,omitempty" db:"order_id"`
	CreatedAt time.Time               `json:"created_at" db:"created_at"`
}

func (m *StockMovement) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.ArticleID,
		ResourceType: "article",
	}
}
