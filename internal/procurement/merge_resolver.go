package procurement

import (
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

type OrderStore interface {
	GetOrder(id int) (*models.PurchaseOrder, error)
	GetOrders() ([]models.PurchaseOrder, error)
	// FindLatestDraftBySupplier returns (nil, nil) when the supplier has
	// no open draft.
	FindLatestDraftBySupplier(tx *goqu.TxDatabase, supplierName string) (*models.PurchaseOrder, error)
	InsertOrder(tx *goqu.TxDatabase, order *models.PurchaseOrder) (int, error)
	InsertLine(tx *goqu.TxDatabase, line *models.OrderLine) (int, error)
	UpdateLine(tx *goqu.TxDatabase, line models.OrderLine) error
	UpdateTotals(tx *goqu.TxDatabase, order *models.PurchaseOrder) error
	// UpdateStatus only succeeds when the row still holds the expected
	// current status, so concurrent lifecycle writers cannot both win.
	UpdateStatus(tx *goqu.TxDatabase, orderID int, from, to metadata.OrderStatus) error
	UpdateLineReceived(tx *goqu.TxDatabase, lineID int, receivedQty int) error
}

// MergeRequest carries new order lines toward a supplier's draft. All
// order-creation paths (manual reorder, low-stock bulk order, revision
// procurement) funnel through this one seam.
type MergeRequest struct {
	SupplierID      *int
	SupplierName    string
	SupplierContact string
	Lines           []models.OrderLine
	ForceNew        bool
	ActorID         *int
}

// MergeResolver decides whether generated lines land on an existing
// draft or seed a new order.
type MergeResolver struct {
	runner repository.TxRunner
	orders OrderStore
	log    *zap.Logger
}

func NewMergeResolver(runner repository.TxRunner, orders OrderStore, log *zap.Logger) *MergeResolver {
	return &MergeResolver{
		runner: runner,
		orders: orders,
		log:    log,
	}
}

// MergeOrCreateDraft appends lines to the supplier's most recent open
// draft, coalescing same-article lines by quantity, or seeds a fresh
// draft when none exists or the caller forces one. Header totals are
// recomputed either way, inside one transaction.
func (m *MergeResolver) MergeOrCreateDraft(req MergeRequest) (*models.PurchaseOrder, error) {
	if req.SupplierName == "" {
		return nil, custom_error.NewValidation("supplier_name", "is required")
	}
	if len(req.Lines) == 0 {
		return nil, custom_error.NewValidation("lines", "at least one line is required")
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, custom_error.NewValidation("lines", "quantity must be positive")
		}
	}

	var orderID int
	merged := false

	err := m.runner.WithTx(func(tx *goqu.TxDatabase) error {
		var target *models.PurchaseOrder
		if !req.ForceNew {
			var err error
			target, err = m.orders.FindLatestDraftBySupplier(tx, req.SupplierName)
			if err != nil {
				return err
			}
		}

		if target == nil {
			order := &models.PurchaseOrder{
				SupplierID:      req.SupplierID,
				SupplierName:    req.SupplierName,
				SupplierContact: req.SupplierContact,
				Status:          metadata.OrderDraft,
				TaxRate:         DefaultTaxRate,
				Lines:           req.Lines,
				CreatedBy:       req.ActorID,
			}
			order.ComputeTotals()

			id, err := m.orders.InsertOrder(tx, order)
			if err != nil {
				return err
			}
			orderID = id
			return nil
		}

		merged = true
		orderID = target.ID

		for _, line := range req.Lines {
			if existing := findLineByArticle(target, line.ArticleID); existing != nil {
				existing.Quantity += line.Quantity
				existing.ComputeTotal()
				if err := m.orders.UpdateLine(tx, *existing); err != nil {
					return err
				}
				continue
			}

			line.OrderID = target.ID
			line.ComputeTotal()
			id, err := m.orders.InsertLine(tx, &line)
			if err != nil {
				return err
			}
			line.ID = id
			target.Lines = append(target.Lines, line)
		}

		target.ComputeTotals()
		return m.orders.UpdateTotals(tx, target)
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("draft order placed",
		zap.Int("order_id", orderID),
		zap.String("supplier", req.SupplierName),
		zap.Bool("merged", merged),
	)

	return m.orders.GetOrder(orderID)
}

func findLineByArticle(order *models.PurchaseOrder, articleID int) *models.OrderLine {
	for i := range order.Lines {
		if order.Lines[i].ArticleID == articleID {
			return &order.Lines[i]
		}
	}
	return nil
}
