package procurement

import (
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

// DefaultTaxRate is applied to generated draft orders; the rate stays
// editable on the order until it leaves brouillon.
var DefaultTaxRate = decimal.NewFromInt(20)

// UnresolvedDemand is a shortage line no supplier could be determined
// for. It is returned alongside the generated orders so the caller can
// prompt for a manual supplier choice.
type UnresolvedDemand struct {
	ArticleID int    `json:"article_id"`
	Reference string `json:"article_reference"`
	Missing   int    `json:"missing"`
	Reason    string `json:"reason"`
}

type ProcurementResult struct {
	Orders     []models.PurchaseOrder `json:"orders"`
	Unresolved []UnresolvedDemand     `json:"unresolved"`
}

// Aggregator turns shortage demands into supplier-grouped draft orders.
type Aggregator struct {
	articles ArticleReader
	resolver *SupplierResolver
	log      *zap.Logger
}

func NewAggregator(articles ArticleReader, resolver *SupplierResolver, log *zap.Logger) *Aggregator {
	return &Aggregator{
		articles: articles,
		resolver: resolver,
		log:      log,
	}
}

// BuildOrderGroups computes the missing quantity per demand (clamped at
// zero), resolves a supplier per article, and groups shortfall lines
// into one draft order per supplier. Groups keep first-seen order, so
// repeated runs over unchanged data produce identical output. An empty
// result is the normal "nothing to procure" outcome.
func (a *Aggregator) BuildOrderGroups(demands []models.ShortageDemand) (*ProcurementResult, error) {
	result := &ProcurementResult{}

	groups := make(map[string]*models.PurchaseOrder)
	groupOrder := make([]string, 0)

	for _, demand := range demands {
		article, err := a.articles.GetArticle(demand.ArticleID)
		if err != nil {
			if _, ok := err.(*custom_error.NotFoundError); ok {
				result.Unresolved = append(result.Unresolved, UnresolvedDemand{
					ArticleID: demand.ArticleID,
					Missing:   demand.Required,
					Reason:    "article not found",
				})
				continue
			}
			return nil, err
		}

		missing := demand.Required - article.Stock
		if missing <= 0 {
			continue
		}

		resolved, err := a.resolver.Resolve(demand.ArticleID)
		if err != nil {
			return nil, err
		}
		if resolved == nil {
			result.Unresolved = append(result.Unresolved, UnresolvedDemand{
				ArticleID: article.ID,
				Reference: article.Reference,
				Missing:   missing,
				Reason:    "no supplier association",
			})
			continue
		}

		// Frozen at creation: the line keeps the price it was generated
		// with, the supplier override winning over the article default.
		unitPrice := article.PurchasePrice
		if resolved.UnitPrice != nil {
			unitPrice = *resolved.UnitPrice
		}

		key := groupKey(resolved)
		group, ok := groups[key]
		if !ok {
			group = &models.PurchaseOrder{
				SupplierID:      resolved.SupplierID,
				SupplierName:    resolved.Name,
				SupplierContact: resolved.Contact,
				Status:          metadata.OrderDraft,
				TaxRate:         DefaultTaxRate,
			}
			groups[key] = group
			groupOrder = append(groupOrder, key)
		}

		group.Lines = append(group.Lines, models.OrderLine{
			ArticleID:        article.ID,
			ArticleReference: article.Reference,
			Designation:      article.Designation,
			Quantity:         missing,
			UnitPrice:        unitPrice,
		})
	}

	for _, key := range groupOrder {
		group := groups[key]
		group.ComputeTotals()
		result.Orders = append(result.Orders, *group)
	}

	a.log.Info("procurement groups built",
		zap.Int("demand_count", len(demands)),
		zap.Int("order_count", len(result.Orders)),
		zap.Int("unresolved_count", len(result.Unresolved)),
	)

	return result, nil
}

// groupKey identifies a supplier group by id; the name is only used for
// snapshots that carry no supplier row reference.
func groupKey(resolved *ResolvedSupplier) string {
	if resolved.SupplierID != nil {
		return "id:" + strconv.Itoa(*resolved.SupplierID)
	}
	return "name:" + resolved.Name
}

// RevisionItem is one article's consumption rate for a revision batch.
type RevisionItem struct {
	ArticleID          int `json:"article_id" binding:"required"`
	ConsumptionPerUnit int `json:"consumption_per_unit" binding:"required"`
}

// BuildRevisionDemands multiplies per-article consumption rates by the
// number of units to service. Non-positive rows are dropped.
func BuildRevisionDemands(units int, items []RevisionItem) []models.ShortageDemand {
	demands := make([]models.ShortageDemand, 0, len(items))
	for _, item := range items {
		required := units * item.ConsumptionPerUnit
		if required <= 0 {
			continue
		}
		demands = append(demands, models.ShortageDemand{
			ArticleID: item.ArticleID,
			Required:  required,
		})
	}
	return demands
}
