package procurement

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type MockArticleReader struct {
	mock.Mock
}

func (m *MockArticleReader) GetArticle(id int) (*models.Article, error) {
	args := m.Called(id)
	if article := args.Get(0); article != nil {
		return article.(*models.Article), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockArticleReader) GetArticlesBelowMinimum() ([]models.Article, error) {
	args := m.Called()
	if articles := args.Get(0); articles != nil {
		return articles.([]models.Article), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSupplierStore struct {
	mock.Mock
}

func (m *MockSupplierStore) GetArticleSuppliers(articleID int) ([]models.ArticleSupplier, error) {
	args := m.Called(articleID)
	if assocs := args.Get(0); assocs != nil {
		return assocs.([]models.ArticleSupplier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSupplierStore) GetSupplier(id int) (*models.Supplier, error) {
	args := m.Called(id)
	if supplier := args.Get(0); supplier != nil {
		return supplier.(*models.Supplier), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestResolvePrefersPrincipalAssociation(t *testing.T) {
	articles := new(MockArticleReader)
	suppliers := new(MockSupplierStore)
	resolver := NewSupplierResolver(articles, suppliers)

	price := decimal.NewFromFloat(2.50)
	articles.On("GetArticle", 1).Return(&models.Article{ID: 1}, nil)
	suppliers.On("GetArticleSuppliers", 1).Return([]models.ArticleSupplier{
		{SupplierID: 10, SupplierName: "First Active", Active: true, Position: 0},
		{SupplierID: 11, SupplierName: "Principal", Active: true, Principal: true, UnitPrice: &price, Position: 1},
	}, nil)

	resolved, err := resolver.Resolve(1)

	assert.NoError(t, err)
	assert.Equal(t, "Principal", resolved.Name)
	assert.Equal(t, 11, *resolved.SupplierID)
	assert.True(t, resolved.UnitPrice.Equal(price))
}

func TestResolveFallsBackToFirstActiveAssociation(t *testing.T) {
	articles := new(MockArticleReader)
	suppliers := new(MockSupplierStore)
	resolver := NewSupplierResolver(articles, suppliers)

	articles.On("GetArticle", 1).Return(&models.Article{ID: 1}, nil)
	suppliers.On("GetArticleSuppliers", 1).Return([]models.ArticleSupplier{
		{SupplierID: 10, SupplierName: "Inactive Principal", Principal: true, Active: false, Position: 0},
		{SupplierID: 11, SupplierName: "First Active", Active: true, Position: 1},
		{SupplierID: 12, SupplierName: "Second Active", Active: true, Position: 2},
	}, nil)

	resolved, err := resolver.Resolve(1)

	assert.NoError(t, err)
	assert.Equal(t, "First Active", resolved.Name)
}

func TestResolveFallsBackToDirectSupplierField(t *testing.T) {
	articles := new(MockArticleReader)
	suppliers := new(MockSupplierStore)
	resolver := NewSupplierResolver(articles, suppliers)

	supplierID := 7
	articles.On("GetArticle", 1).Return(&models.Article{ID: 1, SupplierID: &supplierID}, nil)
	suppliers.On("GetArticleSuppliers", 1).Return([]models.ArticleSupplier{}, nil)
	suppliers.On("GetSupplier", 7).Return(&models.Supplier{ID: 7, Name: "Direct", Contact: "direct@example.com"}, nil)

	resolved, err := resolver.Resolve(1)

	assert.NoError(t, err)
	assert.Equal(t, "Direct", resolved.Name)
	assert.Nil(t, resolved.UnitPrice)
}

func TestResolveDanglingDirectReferenceIsUnresolved(t *testing.T) {
	articles := new(MockArticleReader)
	suppliers := new(MockSupplierStore)
	resolver := NewSupplierResolver(articles, suppliers)

	supplierID := 99
	articles.On("GetArticle", 1).Return(&models.Article{ID: 1, SupplierID: &supplierID}, nil)
	suppliers.On("GetArticleSuppliers", 1).Return([]models.ArticleSupplier{}, nil)
	suppliers.On("GetSupplier", 99).Return(nil, custom_error.NewNotFound("supplier", 99))

	resolved, err := resolver.Resolve(1)

	assert.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveNoSupplierAnywhere(t *testing.T) {
	articles := new(MockArticleReader)
	suppliers := new(MockSupplierStore)
	resolver := NewSupplierResolver(articles, suppliers)

	articles.On("GetArticle", 1).Return(&models.Article{ID: 1}, nil)
	suppliers.On("GetArticleSuppliers", 1).Return([]models.ArticleSupplier{
		{SupplierID: 10, SupplierName: "Retired", Active: false},
	}, nil)

	resolved, err := resolver.Resolve(1)

	assert.NoError(t, err)
	assert.Nil(t, resolved)
}
