package procurement

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) GetOrder(id int) (*models.PurchaseOrder, error) {
	args := m.Called(id)
	if order := args.Get(0); order != nil {
		return order.(*models.PurchaseOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderStore) GetOrders() ([]models.PurchaseOrder, error) {
	args := m.Called()
	if orders := args.Get(0); orders != nil {
		return orders.([]models.PurchaseOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderStore) FindLatestDraftBySupplier(tx *goqu.TxDatabase, supplierName string) (*models.PurchaseOrder, error) {
	args := m.Called(tx, supplierName)
	if order := args.Get(0); order != nil {
		return order.(*models.PurchaseOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderStore) InsertOrder(tx *goqu.TxDatabase, order *models.PurchaseOrder) (int, error) {
	args := m.Called(tx, order)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderStore) InsertLine(tx *goqu.TxDatabase, line *models.OrderLine) (int, error) {
	args := m.Called(tx, line)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderStore) UpdateLine(tx *goqu.TxDatabase, line models.OrderLine) error {
	args := m.Called(tx, line)
	return args.Error(0)
}

func (m *MockOrderStore) UpdateTotals(tx *goqu.TxDatabase, order *models.PurchaseOrder) error {
	args := m.Called(tx, order)
	return args.Error(0)
}

func (m *MockOrderStore) UpdateStatus(tx *goqu.TxDatabase, orderID int, from, to metadata.OrderStatus) error {
	args := m.Called(tx, orderID, from, to)
	return args.Error(0)
}

func (m *MockOrderStore) UpdateLineReceived(tx *goqu.TxDatabase, lineID int, receivedQty int) error {
	args := m.Called(tx, lineID, receivedQty)
	return args.Error(0)
}

func newTestMergeResolver(orders *MockOrderStore) *MergeResolver {
	return NewMergeResolver(stubTxRunner{}, orders, zap.NewNop())
}

func TestMergeCreatesFreshDraftWhenNoneOpen(t *testing.T) {
	orders := new(MockOrderStore)
	merger := newTestMergeResolver(orders)

	orders.On("FindLatestDraftBySupplier", mock.Anything, "Brakes Inc").Return(nil, nil).Once()
	orders.On("InsertOrder", mock.Anything, mock.MatchedBy(func(order *models.PurchaseOrder) bool {
		return order.Status == metadata.OrderDraft &&
			order.SupplierName == "Brakes Inc" &&
			order.TotalHT.Equal(decimal.NewFromFloat(30.00))
	})).Return(5, nil).Once()
	orders.On("GetOrder", 5).Return(&models.PurchaseOrder{ID: 5, OrderNumber: "CMD-000005"}, nil).Once()

	order, err := merger.MergeOrCreateDraft(MergeRequest{
		SupplierName: "Brakes Inc",
		Lines: []models.OrderLine{
			{ArticleID: 1, Quantity: 3, UnitPrice: decimal.NewFromFloat(10.00)},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, order.ID)
	orders.AssertExpectations(t)
	orders.AssertNotCalled(t, "UpdateLine", mock.Anything, mock.Anything)
}

func TestMergeAppendsNewLineToExistingDraft(t *testing.T) {
	orders := new(MockOrderStore)
	merger := newTestMergeResolver(orders)

	draft := &models.PurchaseOrder{
		ID:           7,
		SupplierName: "Brakes Inc",
		Status:       metadata.OrderDraft,
		TaxRate:      DefaultTaxRate,
		Lines: []models.OrderLine{
			{ID: 70, OrderID: 7, ArticleID: 1, Quantity: 2, UnitPrice: decimal.NewFromFloat(10.00)},
		},
	}

	orders.On("FindLatestDraftBySupplier", mock.Anything, "Brakes Inc").Return(draft, nil).Once()
	orders.On("InsertLine", mock.Anything, mock.MatchedBy(func(line *models.OrderLine) bool {
		return line.OrderID == 7 && line.ArticleID == 2 && line.Quantity == 4
	})).Return(71, nil).Once()
	orders.On("UpdateTotals", mock.Anything, mock.MatchedBy(func(order *models.PurchaseOrder) bool {
		// 2 x 10.00 plus 4 x 5.00
		return order.TotalHT.Equal(decimal.NewFromFloat(40.00))
	})).Return(nil).Once()
	orders.On("GetOrder", 7).Return(draft, nil).Once()

	_, err := merger.MergeOrCreateDraft(MergeRequest{
		SupplierName: "Brakes Inc",
		Lines: []models.OrderLine{
			{ArticleID: 2, Quantity: 4, UnitPrice: decimal.NewFromFloat(5.00)},
		},
	})

	assert.NoError(t, err)
	orders.AssertExpectations(t)
	orders.AssertNotCalled(t, "InsertOrder", mock.Anything, mock.Anything)
}

func TestMergeCoalescesSameArticleLines(t *testing.T) {
	orders := new(MockOrderStore)
	merger := newTestMergeResolver(orders)

	draft := &models.PurchaseOrder{
		ID:           7,
		SupplierName: "Brakes Inc",
		Status:       metadata.OrderDraft,
		TaxRate:      DefaultTaxRate,
		Lines: []models.OrderLine{
			{ID: 70, OrderID: 7, ArticleID: 1, Quantity: 2, UnitPrice: decimal.NewFromFloat(10.00)},
		},
	}

	orders.On("FindLatestDraftBySupplier", mock.Anything, "Brakes Inc").Return(draft, nil).Once()
	orders.On("UpdateLine", mock.Anything, mock.MatchedBy(func(line models.OrderLine) bool {
		return line.ID == 70 && line.Quantity == 5 && line.LineTotal.Equal(decimal.NewFromFloat(50.00))
	})).Return(nil).Once()
	orders.On("UpdateTotals", mock.Anything, mock.Anything).Return(nil).Once()
	orders.On("GetOrder", 7).Return(draft, nil).Once()

	_, err := merger.MergeOrCreateDraft(MergeRequest{
		SupplierName: "Brakes Inc",
		Lines: []models.OrderLine{
			{ArticleID: 1, Quantity: 3, UnitPrice: decimal.NewFromFloat(10.00)},
		},
	})

	assert.NoError(t, err)
	orders.AssertExpectations(t)
	orders.AssertNotCalled(t, "InsertLine", mock.Anything, mock.Anything)
}

func TestMergeForceNewSkipsDraftLookup(t *testing.T) {
	orders := new(MockOrderStore)
	merger := newTestMergeResolver(orders)

	orders.On("InsertOrder", mock.Anything, mock.Anything).Return(8, nil).Once()
	orders.On("GetOrder", 8).Return(&models.PurchaseOrder{ID: 8}, nil).Once()

	_, err := merger.MergeOrCreateDraft(MergeRequest{
		SupplierName: "Brakes Inc",
		ForceNew:     true,
		Lines: []models.OrderLine{
			{ArticleID: 1, Quantity: 1, UnitPrice: decimal.NewFromFloat(10.00)},
		},
	})

	assert.NoError(t, err)
	orders.AssertNotCalled(t, "FindLatestDraftBySupplier", mock.Anything, mock.Anything)
}

func TestMergeValidation(t *testing.T) {
	orders := new(MockOrderStore)
	merger := newTestMergeResolver(orders)

	tests := []struct {
		name string
		req  MergeRequest
	}{
		{"missing supplier name", MergeRequest{
			Lines: []models.OrderLine{{ArticleID: 1, Quantity: 1}},
		}},
		{"no lines", MergeRequest{SupplierName: "Brakes Inc"}},
		{"non-positive quantity", MergeRequest{
			SupplierName: "Brakes Inc",
			Lines:        []models.OrderLine{{ArticleID: 1, Quantity: 0}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := merger.MergeOrCreateDraft(tt.req)
			assert.ErrorAs(t, err, new(*custom_error.ValidationError))
		})
	}
	orders.AssertNotCalled(t, "FindLatestDraftBySupplier", mock.Anything, mock.Anything)
}
