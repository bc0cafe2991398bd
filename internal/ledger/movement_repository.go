package ledger

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

type MovementRepository struct {
	repository *repository.Repository
}

func NewMovementRepository(r *repository.Repository) *MovementRepository {
	return &MovementRepository{repository: r}
}

func (r *MovementRepository) InsertMovement(tx *goqu.TxDatabase, movement models.StockMovement) (int, error) {
	query := tx.Insert("stock_movements").
		Rows(goqu.Record{
			"article_id": movement.ArticleID,
			"delta":      movement.Delta,
			"reason":     movement.Reason.String(),
			"actor_id":   movement.ActorID,
			"exit_id":    movement.ExitID,
			"order_id":   movement.OrderID,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert stock movement: %w", err)
	}

	return id, nil
}

func (r *MovementRepository) GetMovementsByArticle(articleID int) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	query := r.repository.GoquDBWrapper.
		Select("id", "article_id", "delta", "reason", "actor_id", "exit_id", "order_id", "created_at").
		From("stock_movements").
		Where(goqu.Ex{"article_id": articleID}).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&movements); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stock movements: %w", err)
	}

	return movements, nil
}
