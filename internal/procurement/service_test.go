package procurement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

func newTestOrderService(orders *MockOrderStore) *Service {
	return NewService(stubTxRunner{}, nil, nil, orders, nil, zap.NewNop())
}

func TestChangeStatusFollowsLifecycle(t *testing.T) {
	orders := new(MockOrderStore)
	service := newTestOrderService(orders)

	orders.On("GetOrder", 1).Return(&models.PurchaseOrder{ID: 1, Status: metadata.OrderDraft}, nil).Once()
	orders.On("UpdateStatus", mock.Anything, 1, metadata.OrderDraft, metadata.OrderSent).Return(nil).Once()
	orders.On("GetOrder", 1).Return(&models.PurchaseOrder{ID: 1, Status: metadata.OrderSent}, nil).Once()

	order, err := service.ChangeStatus(1, metadata.OrderSent)

	assert.NoError(t, err)
	assert.Equal(t, metadata.OrderSent, order.Status)
	orders.AssertExpectations(t)
}

func TestChangeStatusRejectsLifecycleJump(t *testing.T) {
	orders := new(MockOrderStore)
	service := newTestOrderService(orders)

	orders.On("GetOrder", 1).Return(&models.PurchaseOrder{ID: 1, Status: metadata.OrderDraft}, nil).Once()

	_, err := service.ChangeStatus(1, metadata.OrderFullyReceived)

	assert.ErrorAs(t, err, new(*custom_error.InvalidStatusError))
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatusAllowsCancellationBeforeFullReceipt(t *testing.T) {
	orders := new(MockOrderStore)
	service := newTestOrderService(orders)

	orders.On("GetOrder", 1).Return(&models.PurchaseOrder{ID: 1, Status: metadata.OrderPartialReceived}, nil).Once()
	orders.On("UpdateStatus", mock.Anything, 1, metadata.OrderPartialReceived, metadata.OrderCancelled).Return(nil).Once()
	orders.On("GetOrder", 1).Return(&models.PurchaseOrder{ID: 1, Status: metadata.OrderCancelled}, nil).Once()

	_, err := service.ChangeStatus(1, metadata.OrderCancelled)

	assert.NoError(t, err)
}

func TestChangeStatusLosingWriterIsRejectedByStatusGuard(t *testing.T) {
	orders := new(MockOrderStore)
	service := newTestOrderService(orders)

	// The caller read brouillon, but another writer cancelled the order
	// before this transaction's guarded UPDATE ran: zero rows match and
	// the store surfaces the real current status.
	orders.On("GetOrder", 1).Return(&models.PurchaseOrder{ID: 1, Status: metadata.OrderDraft}, nil).Once()
	orders.On("UpdateStatus", mock.Anything, 1, metadata.OrderDraft, metadata.OrderSent).
		Return(&custom_error.InvalidStatusError{
			OrderID: 1,
			From:    metadata.OrderCancelled,
			To:      metadata.OrderSent,
		}).Once()

	_, err := service.ChangeStatus(1, metadata.OrderSent)

	assert.ErrorAs(t, err, new(*custom_error.InvalidStatusError))
	orders.AssertExpectations(t)
}

func TestGenerateFromLowStockRefillsToMax(t *testing.T) {
	articles := new(MockArticleReader)
	suppliers := new(MockSupplierStore)
	orders := new(MockOrderStore)

	resolver := NewSupplierResolver(articles, suppliers)
	aggregator := NewAggregator(articles, resolver, zap.NewNop())
	merger := NewMergeResolver(stubTxRunner{}, orders, zap.NewNop())
	service := NewService(stubTxRunner{}, aggregator, merger, orders, articles, zap.NewNop())

	lowStock := models.Article{
		ID: 1, Reference: "PLQ-AV", Designation: "Front brake pads",
		Stock: 2, StockMin: 5, StockMax: 10,
		PurchasePrice: decimal.NewFromFloat(10.00),
	}
	articles.On("GetArticlesBelowMinimum").Return([]models.Article{lowStock}, nil).Once()
	articles.On("GetArticle", 1).Return(&lowStock, nil)
	suppliers.On("GetArticleSuppliers", 1).Return([]models.ArticleSupplier{
		{SupplierID: 10, SupplierName: "Brakes Inc", Active: true, Principal: true},
	}, nil)
	orders.On("FindLatestDraftBySupplier", mock.Anything, "Brakes Inc").Return(nil, nil).Once()
	orders.On("InsertOrder", mock.Anything, mock.MatchedBy(func(order *models.PurchaseOrder) bool {
		// refill from 2 up to the max of 10
		return len(order.Lines) == 1 && order.Lines[0].Quantity == 8
	})).Return(3, nil).Once()
	orders.On("GetOrder", 3).Return(&models.PurchaseOrder{ID: 3}, nil).Once()

	result, err := service.GenerateFromLowStock(false, nil)

	assert.NoError(t, err)
	assert.Len(t, result.Orders, 1)
	orders.AssertExpectations(t)
}

func confirmedOrder() *models.PurchaseOrder {
	return &models.PurchaseOrder{
		ID:     1,
		Status: metadata.OrderConfirmed,
		Lines: []models.OrderLine{
			{ID: 10, ArticleID: 1, Quantity: 5, UnitPrice: decimal.NewFromFloat(10.00)},
			{ID: 11, ArticleID: 2, Quantity: 2, UnitPrice: decimal.NewFromFloat(4.00)},
		},
	}
}

func TestReceiveLinesPartialDelivery(t *testing.T) {
	orders := new(MockOrderStore)
	service := newTestOrderService(orders)

	orders.On("GetOrder", 1).Return(confirmedOrder(), nil).Once()
	orders.On("UpdateLineReceived", mock.Anything, 10, 3).Return(nil).Once()
	orders.On("UpdateStatus", mock.Anything, 1, metadata.OrderConfirmed, metadata.OrderPartialReceived).Return(nil).Once()
	orders.On("GetOrder", 1).Return(&models.PurchaseOrder{ID: 1, Status: metadata.OrderPartialReceived}, nil).Once()

	order, err := service.ReceiveLines(1, []LineReceipt{{LineID: 10, Quantity: 3}})

	assert.NoError(t, err)
	assert.Equal(t, metadata.OrderPartialReceived, order.Status)
	orders.AssertExpectations(t)
}

func TestReceiveLinesFullDeliveryCompletesOrder(t *testing.T) {
	orders := new(MockOrderStore)
	service := newTestOrderService(orders)

	orders.On("GetOrder", 1).Return(confirmedOrder(), nil).Once()
	orders.On("UpdateLineReceived", mock.Anything, 10, 5).Return(nil).Once()
	orders.On("UpdateLineReceived", mock.Anything, 11, 2).Return(nil).Once()
	orders.On("UpdateStatus", mock.Anything, 1, metadata.OrderConfirmed, metadata.OrderFullyReceived).Return(nil).Once()
	orders.On("GetOrder", 1).Return(&models.PurchaseOrder{ID: 1, Status: metadata.OrderFullyReceived}, nil).Once()

	order, err := service.ReceiveLines(1, []LineReceipt{
		{LineID: 10, Quantity: 5},
		{LineID: 11, Quantity: 2},
	})

	assert.NoError(t, err)
	assert.Equal(t, metadata.OrderFullyReceived, order.Status)
}

func TestReceiveLinesRejectsOverReceipt(t *testing.T) {
	orders := new(MockOrderStore)
	service := newTestOrderService(orders)

	orders.On("GetOrder", 1).Return(confirmedOrder(), nil).Once()

	_, err := service.ReceiveLines(1, []LineReceipt{{LineID: 10, Quantity: 6}})

	assert.ErrorAs(t, err, new(*custom_error.ValidationError))
	orders.AssertNotCalled(t, "UpdateLineReceived", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiveLinesRejectsDraftOrder(t *testing.T) {
	orders := new(MockOrderStore)
	service := newTestOrderService(orders)

	orders.On("GetOrder", 1).Return(&models.PurchaseOrder{ID: 1, Status: metadata.OrderDraft}, nil).Once()

	_, err := service.ReceiveLines(1, []LineReceipt{{LineID: 10, Quantity: 1}})

	assert.ErrorAs(t, err, new(*custom_error.InvalidStatusError))
}

func TestReceiveLinesUnknownLine(t *testing.T) {
	orders := new(MockOrderStore)
	service := newTestOrderService(orders)

	orders.On("GetOrder", 1).Return(confirmedOrder(), nil).Once()

	_, err := service.ReceiveLines(1, []LineReceipt{{LineID: 999, Quantity: 1}})

	assert.ErrorAs(t, err, new(*custom_error.NotFoundError))
}
