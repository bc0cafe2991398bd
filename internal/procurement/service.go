package procurement

import (
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

// LowStockLister feeds the bulk reorder path.
type LowStockLister interface {
	GetArticlesBelowMinimum() ([]models.Article, error)
}

// Service is the procurement front door: demand aggregation routed
// through the draft-merge seam, plus the order lifecycle.
type Service struct {
	runner     repository.TxRunner
	aggregator *Aggregator
	merger     *MergeResolver
	orders     OrderStore
	lowStock   LowStockLister
	log        *zap.Logger
}

func NewService(runner repository.TxRunner, aggregator *Aggregator, merger *MergeResolver, orders OrderStore, lowStock LowStockLister, log *zap.Logger) *Service {
	return &Service{
		runner:     runner,
		aggregator: aggregator,
		merger:     merger,
		orders:     orders,
		lowStock:   lowStock,
		log:        log,
	}
}

// GenerateFromDemands builds supplier groups from the demands and
// persists each group through MergeOrCreateDraft. Unresolved lines ride
// along in the result instead of aborting the run.
func (s *Service) GenerateFromDemands(demands []models.ShortageDemand, forceNew bool, actorID *int) (*ProcurementResult, error) {
	groups, err := s.aggregator.BuildOrderGroups(demands)
	if err != nil {
		return nil, err
	}

	result := &ProcurementResult{Unresolved: groups.Unresolved}
	for _, group := range groups.Orders {
		order, err := s.merger.MergeOrCreateDraft(MergeRequest{
			SupplierID:      group.SupplierID,
			SupplierName:    group.SupplierName,
			SupplierContact: group.SupplierContact,
			Lines:           group.Lines,
			ForceNew:        forceNew,
			ActorID:         actorID,
		})
		if err != nil {
			return nil, err
		}
		result.Orders = append(result.Orders, *order)
	}

	return result, nil
}

// GenerateFromLowStock orders every article sitting under its minimum
// threshold back up to its maximum.
func (s *Service) GenerateFromLowStock(forceNew bool, actorID *int) (*ProcurementResult, error) {
	articles, err := s.lowStock.GetArticlesBelowMinimum()
	if err != nil {
		return nil, err
	}

	demands := make([]models.ShortageDemand, 0, len(articles))
	for _, article := range articles {
		if article.StockMax <= article.Stock {
			continue
		}
		demands = append(demands, models.ShortageDemand{
			ArticleID: article.ID,
			Required:  article.StockMax,
		})
	}

	return s.GenerateFromDemands(demands, forceNew, actorID)
}

func (s *Service) GetOrder(id int) (*models.PurchaseOrder, error) {
	return s.orders.GetOrder(id)
}

func (s *Service) GetOrders() ([]models.PurchaseOrder, error) {
	return s.orders.GetOrders()
}

// ChangeStatus moves an order along its lifecycle, rejecting any jump
// the status machine does not allow.
func (s *Service) ChangeStatus(orderID int, target metadata.OrderStatus) (*models.PurchaseOrder, error) {
	order, err := s.orders.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, &custom_error.InvalidStatusError{
			OrderID: orderID,
			From:    order.Status,
			To:      target,
		}
	}

	err = s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		return s.orders.UpdateStatus(tx, orderID, order.Status, target)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order status changed",
		zap.Int("order_id", orderID),
		zap.String("from", order.Status.String()),
		zap.String("to", target.String()),
	)

	return s.orders.GetOrder(orderID)
}

// LineReceipt records a partial or full delivery of one order line.
type LineReceipt struct {
	LineID   int `json:"line_id" binding:"required"`
	Quantity int `json:"quantity" binding:"required"`
}

// ReceiveLines books received quantities against a confirmed order and
// flips its status to recu_partiel or recu_complet.
func (s *Service) ReceiveLines(orderID int, receipts []LineReceipt) (*models.PurchaseOrder, error) {
	order, err := s.orders.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != metadata.OrderConfirmed && order.Status != metadata.OrderPartialReceived {
		return nil, &custom_error.InvalidStatusError{
			OrderID: orderID,
			From:    order.Status,
			To:      metadata.OrderPartialReceived,
		}
	}
	if len(receipts) == 0 {
		return nil, custom_error.NewValidation("receipts", "at least one receipt is required")
	}

	for _, receipt := range receipts {
		line := findLineByID(order, receipt.LineID)
		if line == nil {
			return nil, custom_error.NewNotFound("order line", receipt.LineID)
		}
		if receipt.Quantity <= 0 {
			return nil, custom_error.NewValidation("quantity", "must be positive")
		}
		if line.ReceivedQty+receipt.Quantity > line.Quantity {
			return nil, custom_error.NewValidation("quantity", "received quantity exceeds ordered quantity")
		}
		line.ReceivedQty += receipt.Quantity
	}

	target := metadata.OrderPartialReceived
	if order.FullyReceived() {
		target = metadata.OrderFullyReceived
	}

	err = s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		for _, receipt := range receipts {
			line := findLineByID(order, receipt.LineID)
			if err := s.orders.UpdateLineReceived(tx, line.ID, line.ReceivedQty); err != nil {
				return err
			}
		}
		return s.orders.UpdateStatus(tx, orderID, order.Status, target)
	})
	if err != nil {
		return nil, err
	}

	return s.orders.GetOrder(orderID)
}

func findLineByID(order *models.PurchaseOrder, lineID int) *models.OrderLine {
	for i := range order.Lines {
		if order.Lines[i].ID == lineID {
			return &order.Lines[i]
		}
	}
	return nil
}
