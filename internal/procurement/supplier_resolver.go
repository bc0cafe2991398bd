package procurement

import (
	"github.com/shopspring/decimal"

	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

// ResolvedSupplier is the supplier snapshot frozen onto generated order
// lines: identity, contact, and an optional price override.
type ResolvedSupplier struct {
	SupplierID *int
	Name       string
	Contact    string
	UnitPrice  *decimal.Decimal
}

type ArticleReader interface {
	GetArticle(id int) (*models.Article, error)
}

type SupplierStore interface {
	// GetArticleSuppliers returns associations ordered by insertion
	// position so the fallback chain stays deterministic.
	GetArticleSuppliers(articleID int) ([]models.ArticleSupplier, error)
	GetSupplier(id int) (*models.Supplier, error)
}

// resolutionRule inspects an article and its associations and either
// resolves a supplier or passes to the next rule.
type resolutionRule func(article *models.Article, assocs []models.ArticleSupplier) (*ResolvedSupplier, error)

// SupplierResolver walks an explicit priority list: principal active
// association, first active association, then the article's direct
// supplier field. The precedence is the slice, not nested conditionals.
type SupplierResolver struct {
	articles  ArticleReader
	suppliers SupplierStore
	rules     []resolutionRule
}

func NewSupplierResolver(articles ArticleReader, suppliers SupplierStore) *SupplierResolver {
	r := &SupplierResolver{
		articles:  articles,
		suppliers: suppliers,
	}
	r.rules = []resolutionRule{
		principalAssociation,
		firstActiveAssociation,
		r.directSupplierField,
	}
	return r
}

// Resolve returns (nil, nil) when no rule matches; the caller surfaces
// the line as unresolved instead of failing the batch.
func (r *SupplierResolver) Resolve(articleID int) (*ResolvedSupplier, error) {
	article, err := r.articles.GetArticle(articleID)
	if err != nil {
		return nil, err
	}

	assocs, err := r.suppliers.GetArticleSuppliers(articleID)
	if err != nil {
		return nil, err
	}

	for _, rule := range r.rules {
		resolved, err := rule(article, assocs)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			return resolved, nil
		}
	}

	return nil, nil
}

func principalAssociation(_ *models.Article, assocs []models.ArticleSupplier) (*ResolvedSupplier, error) {
	for _, assoc := range assocs {
		if assoc.Active && assoc.Principal {
			return fromAssociation(assoc), nil
		}
	}
	return nil, nil
}

func firstActiveAssociation(_ *models.Article, assocs []models.ArticleSupplier) (*ResolvedSupplier, error) {
	for _, assoc := range assocs {
		if assoc.Active {
			return fromAssociation(assoc), nil
		}
	}
	return nil, nil
}

// directSupplierField is the legacy single-supplier reference kept on
// the article row itself.
func (r *SupplierResolver) directSupplierField(article *models.Article, _ []models.ArticleSupplier) (*ResolvedSupplier, error) {
	if article.SupplierID == nil {
		return nil, nil
	}

	supplier, err := r.suppliers.GetSupplier(*article.SupplierID)
	if err != nil {
		// A dangling reference is treated as unresolved, not a failure.
		if _, ok := err.(*custom_error.NotFoundError); ok {
			return nil, nil
		}
		return nil, err
	}

	id := supplier.ID
	return &ResolvedSupplier{
		SupplierID: &id,
		Name:       supplier.Name,
		Contact:    supplier.Contact,
	}, nil
}

func fromAssociation(assoc models.ArticleSupplier) *ResolvedSupplier {
	id := assoc.SupplierID
	return &ResolvedSupplier{
		SupplierID: &id,
		Name:       assoc.SupplierName,
		Contact:    assoc.Contact,
		UnitPrice:  assoc.UnitPrice,
	}
}
