package procurement

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

var orderColumns = []interface{}{
	"id", "order_number", "supplier_id", "supplier_name", "supplier_contact",
	"status", "tax_rate", "total_ht", "total_ttc",
	"created_by", "created_at", "updated_at",
}

var orderLineColumns = []interface{}{
	"id", "order_id", "article_id", "article_reference", "designation",
	"quantity", "received_qty", "unit_price", "line_total",
}

type OrderRepository struct {
	repository *repository.Repository
}

func NewOrderRepository(r *repository.Repository) *OrderRepository {
	return &OrderRepository{repository: r}
}

func (r *OrderRepository) GetOrder(id int) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	query := r.repository.GoquDBWrapper.
		Select(orderColumns...).
		From("purchase_orders").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&order)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("order", id)
	}

	lines, err := r.getLines(order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return &order, nil
}

func (r *OrderRepository) GetOrders() ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	query := r.repository.GoquDBWrapper.
		Select(orderColumns...).
		From("purchase_orders").
		Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&orders); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for orders: %w", err)
	}

	for i := range orders {
		lines, err := r.getLines(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}

	return orders, nil
}

func (r *OrderRepository) FindLatestDraftBySupplier(tx *goqu.TxDatabase, supplierName string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	query := tx.
		Select(orderColumns...).
		From("purchase_orders").
		Where(goqu.Ex{
			"supplier_name": supplierName,
			"status":        metadata.OrderDraft.String(),
		}).
		Order(goqu.I("created_at").Desc()).
		Limit(1)

	found, err := query.Executor().ScanStruct(&order)
	if err != nil {
		return nil, fmt.Errorf("failed to find draft for supplier %q: %w", supplierName, err)
	}
	if !found {
		return nil, nil
	}

	lines, err := r.getLinesTx(tx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return &order, nil
}

func (r *OrderRepository) InsertOrder(tx *goqu.TxDatabase, order *models.PurchaseOrder) (int, error) {
	query := tx.Insert("purchase_orders").
		Rows(goqu.Record{
			"supplier_id":      order.SupplierID,
			"supplier_name":    order.SupplierName,
			"supplier_contact": order.SupplierContact,
			"status":           order.Status.String(),
			"tax_rate":         order.TaxRate,
			"total_ht":         order.TotalHT,
			"total_ttc":        order.TotalTTC,
			"created_by":       order.CreatedBy,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert order record: %w", err)
	}
	order.ID = id

	orderNumber := fmt.Sprintf("CMD-%06d", id)
	if _, err := tx.Update("purchase_orders").
		Set(goqu.Record{"order_number": orderNumber}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec(); err != nil {
		return 0, fmt.Errorf("failed to stamp order number: %w", err)
	}
	order.OrderNumber = orderNumber

	for i := range order.Lines {
		order.Lines[i].OrderID = id
		lineID, err := r.InsertLine(tx, &order.Lines[i])
		if err != nil {
			return 0, err
		}
		order.Lines[i].ID = lineID
	}

	return id, nil
}

func (r *OrderRepository) InsertLine(tx *goqu.TxDatabase, line *models.OrderLine) (int, error) {
	query := tx.Insert("purchase_order_lines").
		Rows(goqu.Record{
			"order_id":          line.OrderID,
			"article_id":        line.ArticleID,
			"article_reference": line.ArticleReference,
			"designation":       line.Designation,
			"quantity":          line.Quantity,
			"received_qty":      line.ReceivedQty,
			"unit_price":        line.UnitPrice,
			"line_total":        line.LineTotal,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert order line: %w", err)
	}
	line.ID = id

	return id, nil
}

func (r *OrderRepository) UpdateLine(tx *goqu.TxDatabase, line models.OrderLine) error {
	query := tx.Update("purchase_order_lines").
		Set(goqu.Record{
			"quantity":   line.Quantity,
			"unit_price": line.UnitPrice,
			"line_total": line.LineTotal,
		}).
		Where(goqu.Ex{"id": line.ID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update order line %d: %w", line.ID, err)
	}

	return nil
}

func (r *OrderRepository) UpdateTotals(tx *goqu.TxDatabase, order *models.PurchaseOrder) error {
	query := tx.Update("purchase_orders").
		Set(goqu.Record{
			"total_ht":   order.TotalHT,
			"total_ttc":  order.TotalTTC,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": order.ID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update order totals: %w", err)
	}

	return nil
}

func (r *OrderRepository) UpdateStatus(tx *goqu.TxDatabase, orderID int, from, to metadata.OrderStatus) error {
	query := tx.Update("purchase_orders").
		Set(goqu.Record{
			"status":     to.String(),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{
			"id":     orderID,
			"status": from.String(),
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	// Zero rows means the status moved between the caller's read and this
	// write; the lifecycle check must be redone against the current row.
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for order %d: %w", orderID, err)
	}
	if affected == 0 {
		var current string
		if _, err := tx.Select("status").
			From("purchase_orders").
			Where(goqu.Ex{"id": orderID}).
			Executor().ScanVal(&current); err != nil {
			return fmt.Errorf("failed to check order %d: %w", orderID, err)
		}
		return &custom_error.InvalidStatusError{
			OrderID: orderID,
			From:    metadata.OrderStatus(current),
			To:      to,
		}
	}

	return nil
}

func (r *OrderRepository) UpdateLineReceived(tx *goqu.TxDatabase, lineID int, receivedQty int) error {
	query := tx.Update("purchase_order_lines").
		Set(goqu.Record{"received_qty": receivedQty}).
		Where(goqu.Ex{"id": lineID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update received quantity for line %d: %w", lineID, err)
	}

	return nil
}

func (r *OrderRepository) getLines(orderID int) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	query := r.repository.GoquDBWrapper.
		Select(orderLineColumns...).
		From("purchase_order_lines").
		Where(goqu.Ex{"order_id": orderID}).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for order lines: %w", err)
	}

	return lines, nil
}

func (r *OrderRepository) getLinesTx(tx *goqu.TxDatabase, orderID int) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	query := tx.
		Select(orderLineColumns...).
		From("purchase_order_lines").
		Where(goqu.Ex{"order_id": orderID}).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for order lines: %w", err)
	}

	return lines, nil
}
