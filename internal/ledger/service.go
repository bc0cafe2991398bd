package ledger

import (
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

// ArticleStore is the slice of the article read/write surface the ledger
// needs: a lookup and the guarded stock update.
type ArticleStore interface {
	GetArticle(id int) (*models.Article, error)
	ApplyDelta(tx *goqu.TxDatabase, articleID int, delta int, override bool) (int, error)
}

type MovementStore interface {
	InsertMovement(tx *goqu.TxDatabase, movement models.StockMovement) (int, error)
	GetMovementsByArticle(articleID int) ([]models.StockMovement, error)
}

// AdjustmentRequest describes one signed stock change. Override is the
// administrative capability that waives the non-negative stock guard; it
// is a flag on the same code path, not a separate operation.
type AdjustmentRequest struct {
	ArticleID int
	Delta     int
	Reason    metadata.MovementReason
	ActorID   *int
	ExitID    *int
	OrderID   *int
	Override  bool
}

type AdjustmentResult struct {
	ArticleID int `json:"article_id"`
	NewStock  int `json:"new_stock"`
}

type Service struct {
	runner    repository.TxRunner
	articles  ArticleStore
	movements MovementStore
	log       *zap.Logger
}

func NewService(runner repository.TxRunner, articles ArticleStore, movements MovementStore, log *zap.Logger) *Service {
	return &Service{
		runner:    runner,
		articles:  articles,
		movements: movements,
		log:       log,
	}
}

// AdjustStock applies one signed delta to an article's cached stock and
// appends exactly one movement row, atomically. Either both writes
// commit or neither does.
func (s *Service) AdjustStock(req AdjustmentRequest) (*AdjustmentResult, error) {
	if err := validateAdjustment(req); err != nil {
		return nil, err
	}

	var result AdjustmentResult
	err := s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		newStock, err := s.AdjustTx(tx, req)
		if err != nil {
			return err
		}
		result = AdjustmentResult{ArticleID: req.ArticleID, NewStock: newStock}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock adjusted",
		zap.Int("article_id", req.ArticleID),
		zap.Int("delta", req.Delta),
		zap.String("reason", req.Reason.String()),
		zap.Int("new_stock", result.NewStock),
	)

	return &result, nil
}

// AdjustTx applies one adjustment inside the caller's transaction. The
// exit lifecycle uses it to fold its per-line adjustments into a single
// unit of work. One call always produces exactly one movement row.
func (s *Service) AdjustTx(tx *goqu.TxDatabase, req AdjustmentRequest) (int, error) {
	if err := validateAdjustment(req); err != nil {
		return 0, err
	}

	newStock, err := s.articles.ApplyDelta(tx, req.ArticleID, req.Delta, req.Override)
	if err != nil {
		return 0, err
	}

	movement := models.StockMovement{
		ArticleID: req.ArticleID,
		Delta:     req.Delta,
		Reason:    req.Reason,
		ActorID:   req.ActorID,
		ExitID:    req.ExitID,
		OrderID:   req.OrderID,
	}
	if _, err := s.movements.InsertMovement(tx, movement); err != nil {
		return 0, err
	}

	return newStock, nil
}

// Movements returns the full audit trail for one article.
func (s *Service) Movements(articleID int) ([]models.StockMovement, error) {
	if _, err := s.articles.GetArticle(articleID); err != nil {
		return nil, err
	}
	return s.movements.GetMovementsByArticle(articleID)
}

func validateAdjustment(req AdjustmentRequest) error {
	if req.Delta == 0 {
		return custom_error.NewValidation("delta", "must be non-zero")
	}
	if _, err := metadata.NewMovementReason(req.Reason.String()); err != nil {
		return custom_error.NewValidation("reason", err.Error())
	}
	return nil
}
