package articles

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

var articleColumns = []interface{}{
	"id", "reference", "designation", "stock", "stock_min", "stock_max",
	"purchase_price", "supplier_id", "created_at", "updated_at",
}

type ArticleRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ArticleRepository {
	return &ArticleRepository{repository: r}
}

func (r *ArticleRepository) GetArticle(id int) (*models.Article, error) {
	var article models.Article
	query := r.repository.GoquDBWrapper.
		Select(articleColumns...).
		From("articles").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&article)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("article", id)
	}

	return &article, nil
}

func (r *ArticleRepository) GetArticleByReference(reference string) (*models.Article, error) {
	var article models.Article
	query := r.repository.GoquDBWrapper.
		Select(articleColumns...).
		From("articles").
		Where(goqu.Ex{"reference": reference})

	found, err := query.Executor().ScanStruct(&article)
	if err != nil {
		return nil, fmt.Errorf("failed to get article by reference: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("article", 0)
	}

	return &article, nil
}

var articleFilterAliases = map[string]string{
	"supplier": "supplier_id",
}

func (r *ArticleRepository) GetArticles(conditions repository.QueryBuilder) ([]models.Article, error) {
	var articles []models.Article
	query := r.repository.GoquDBWrapper.
		Select(articleColumns...).
		From("articles").
		Where(conditions.BuildConditions(articleFilterAliases)).
		Order(goqu.I("reference").Asc())

	if err := query.Executor().ScanStructs(&articles); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for articles: %w", err)
	}

	return articles, nil
}

// GetArticlesBelowMinimum lists articles whose cached stock dropped under
// their minimum threshold. This feeds the bulk reorder path.
func (r *ArticleRepository) GetArticlesBelowMinimum() ([]models.Article, error) {
	var articles []models.Article
	query := r.repository.GoquDBWrapper.
		Select(articleColumns...).
		From("articles").
		Where(goqu.C("stock").Lt(goqu.C("stock_min"))).
		Order(goqu.I("reference").Asc())

	if err := query.Executor().ScanStructs(&articles); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for low-stock articles: %w", err)
	}

	return articles, nil
}

// ApplyDelta shifts an article's cached stock by delta inside tx. For
// negative deltas the UPDATE is guarded with stock >= -delta, so the
// database row itself serializes concurrent adjustments and the stock
// can never be driven below zero. Override waives the guard.
func (r *ArticleRepository) ApplyDelta(tx *goqu.TxDatabase, articleID int, delta int, override bool) (int, error) {
	update := tx.Update("articles").
		Set(goqu.Record{
			"stock":      goqu.L("stock + ?", delta),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": articleID}).
		Returning("stock")

	if delta < 0 && !override {
		update = update.Where(goqu.C("stock").Gte(-delta))
	}

	var newStock int
	found, err := update.Executor().ScanVal(&newStock)
	if err != nil {
		return 0, fmt.Errorf("failed to apply stock delta for article %d: %w", articleID, err)
	}
	if found {
		return newStock, nil
	}

	// Zero rows: either the article is missing or the guard rejected the
	// decrease. Re-read to tell the two apart.
	var available int
	exists, err := tx.Select("stock").
		From("articles").
		Where(goqu.Ex{"id": articleID}).
		Executor().ScanVal(&available)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check article %d: %w", articleID, err)
	}
	if !exists {
		return 0, custom_error.NewNotFound("article", articleID)
	}

	return 0, &custom_error.InsufficientStockError{
		ArticleID: articleID,
		Requested: -delta,
		Available: available,
	}
}
