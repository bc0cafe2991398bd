package ledger

import (
	"errors"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type MockArticleStore struct {
	mock.Mock
}

func (m *MockArticleStore) GetArticle(id int) (*models.Article, error) {
	args := m.Called(id)
	if article := args.Get(0); article != nil {
		return article.(*models.Article), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockArticleStore) ApplyDelta(tx *goqu.TxDatabase, articleID int, delta int, override bool) (int, error) {
	args := m.Called(tx, articleID, delta, override)
	return args.Int(0), args.Error(1)
}

type MockMovementStore struct {
	mock.Mock
}

func (m *MockMovementStore) InsertMovement(tx *goqu.TxDatabase, movement models.StockMovement) (int, error) {
	args := m.Called(tx, movement)
	return args.Int(0), args.Error(1)
}

func (m *MockMovementStore) GetMovementsByArticle(articleID int) ([]models.StockMovement, error) {
	args := m.Called(articleID)
	if movements := args.Get(0); movements != nil {
		return movements.([]models.StockMovement), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(articles *MockArticleStore, movements *MockMovementStore) *Service {
	return NewService(stubTxRunner{}, articles, movements, zap.NewNop())
}

func TestAdjustStockAppliesDeltaAndRecordsMovement(t *testing.T) {
	articles := new(MockArticleStore)
	movements := new(MockMovementStore)
	service := newTestService(articles, movements)

	articles.On("ApplyDelta", mock.Anything, 1, -3, false).Return(7, nil).Once()
	movements.On("InsertMovement", mock.Anything, mock.MatchedBy(func(m models.StockMovement) bool {
		return m.ArticleID == 1 && m.Delta == -3 && m.Reason == metadata.ReasonIssue
	})).Return(10, nil).Once()

	result, err := service.AdjustStock(AdjustmentRequest{
		ArticleID: 1,
		Delta:     -3,
		Reason:    metadata.ReasonIssue,
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, result.NewStock)
	articles.AssertExpectations(t)
	movements.AssertExpectations(t)
}

func TestAdjustStockInsufficientStockRecordsNoMovement(t *testing.T) {
	articles := new(MockArticleStore)
	movements := new(MockMovementStore)
	service := newTestService(articles, movements)

	stockErr := &custom_error.InsufficientStockError{ArticleID: 1, Requested: 5, Available: 2}
	articles.On("ApplyDelta", mock.Anything, 1, -5, false).Return(0, stockErr).Once()

	_, err := service.AdjustStock(AdjustmentRequest{
		ArticleID: 1,
		Delta:     -5,
		Reason:    metadata.ReasonIssue,
	})

	assert.ErrorAs(t, err, new(*custom_error.InsufficientStockError))
	movements.AssertNotCalled(t, "InsertMovement", mock.Anything, mock.Anything)
}

func TestAdjustStockOverridePassesThroughGuardFlag(t *testing.T) {
	articles := new(MockArticleStore)
	movements := new(MockMovementStore)
	service := newTestService(articles, movements)

	articles.On("ApplyDelta", mock.Anything, 2, -10, true).Return(-4, nil).Once()
	movements.On("InsertMovement", mock.Anything, mock.Anything).Return(11, nil).Once()

	result, err := service.AdjustStock(AdjustmentRequest{
		ArticleID: 2,
		Delta:     -10,
		Reason:    metadata.ReasonAdjustment,
		Override:  true,
	})

	assert.NoError(t, err)
	assert.Equal(t, -4, result.NewStock)
	articles.AssertExpectations(t)
}

func TestAdjustStockRejectsZeroDelta(t *testing.T) {
	articles := new(MockArticleStore)
	movements := new(MockMovementStore)
	service := newTestService(articles, movements)

	_, err := service.AdjustStock(AdjustmentRequest{
		ArticleID: 1,
		Delta:     0,
		Reason:    metadata.ReasonAdjustment,
	})

	assert.ErrorAs(t, err, new(*custom_error.ValidationError))
	articles.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustStockRejectsUnknownReason(t *testing.T) {
	articles := new(MockArticleStore)
	movements := new(MockMovementStore)
	service := newTestService(articles, movements)

	_, err := service.AdjustStock(AdjustmentRequest{
		ArticleID: 1,
		Delta:     5,
		Reason:    metadata.MovementReason("teleport"),
	})

	assert.ErrorAs(t, err, new(*custom_error.ValidationError))
}

func TestMovementsRequiresExistingArticle(t *testing.T) {
	articles := new(MockArticleStore)
	movements := new(MockMovementStore)
	service := newTestService(articles, movements)

	articles.On("GetArticle", 99).Return(nil, custom_error.NewNotFound("article", 99)).Once()

	_, err := service.Movements(99)

	assert.ErrorAs(t, err, new(*custom_error.NotFoundError))
	movements.AssertNotCalled(t, "GetMovementsByArticle", mock.Anything)
}

func TestMovementsReturnsTrail(t *testing.T) {
	articles := new(MockArticleStore)
	movements := new(MockMovementStore)
	service := newTestService(articles, movements)

	articles.On("GetArticle", 1).Return(&models.Article{ID: 1}, nil).Once()
	movements.On("GetMovementsByArticle", 1).Return([]models.StockMovement{
		{ID: 1, ArticleID: 1, Delta: 10, Reason: metadata.ReasonPurchase},
		{ID: 2, ArticleID: 1, Delta: -4, Reason: metadata.ReasonIssue},
	}, nil).Once()

	trail, err := service.Movements(1)

	assert.NoError(t, err)
	assert.Len(t, trail, 2)
	assert.Equal(t, 10, trail[0].Delta)
	assert.Equal(t, -4, trail[1].Delta)
}

func TestAdjustStockPropagatesMovementInsertFailure(t *testing.T) {
	articles := new(MockArticleStore)
	movements := new(MockMovementStore)
	service := newTestService(articles, movements)

	articles.On("ApplyDelta", mock.Anything, 1, 5, false).Return(15, nil).Once()
	movements.On("InsertMovement", mock.Anything, mock.Anything).
		Return(0, errors.New("insert failed")).Once()

	_, err := service.AdjustStock(AdjustmentRequest{
		ArticleID: 1,
		Delta:     5,
		Reason:    metadata.ReasonPurchase,
	})

	assert.Error(t, err)
}
