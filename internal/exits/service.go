package exits

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/ledger"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

// DeletionWindow is how long after creation an exit is offered for
// deletion in listings. The no-double-credit invariant does not depend
// on it; it is a presentation policy.
const DeletionWindow = 7 * 24 * time.Hour

type ExitStore interface {
	GetExit(id int) (*models.StockExit, error)
	GetExits(includeDeleted bool) ([]models.StockExit, error)
	InsertExit(tx *goqu.TxDatabase, exit *models.StockExit) (int, error)
	InsertLines(tx *goqu.TxDatabase, exitID int, lines []models.ExitLine) error
	SetReturnOutcome(tx *goqu.TxDatabase, exit *models.StockExit) error
	MarkDeleted(tx *goqu.TxDatabase, exit *models.StockExit) error
}

// StockAdjuster is the ledger surface the exit lifecycle composes with:
// one guarded adjustment per line, inside the lifecycle's transaction.
type StockAdjuster interface {
	AdjustTx(tx *goqu.TxDatabase, req ledger.AdjustmentRequest) (int, error)
}

type ExitLineRequest struct {
	ArticleID int `json:"article_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

type CreateExitRequest struct {
	ExitType           metadata.ExitType
	Lines              []ExitLineRequest
	Notes              string
	Caution            *decimal.Decimal
	ExpectedReturnDate *time.Time
	ActorID            *int
}

type ReturnOutcome string

const (
	OutcomeOK          ReturnOutcome = "ok"
	OutcomeDamaged     ReturnOutcome = "damaged"
	OutcomeNotReturned ReturnOutcome = "not_returned"
)

type ReturnRequest struct {
	Outcome             ReturnOutcome
	DamageDescription   string
	ReimbursementAmount *decimal.Decimal
	ActorID             *int
}

type Service struct {
	runner repository.TxRunner
	exits  ExitStore
	stock  StockAdjuster
	log    *zap.Logger
	now    func() time.Time
}

func NewService(runner repository.TxRunner, exits ExitStore, stock StockAdjuster, log *zap.Logger) *Service {
	return &Service{
		runner: runner,
		exits:  exits,
		stock:  stock,
		log:    log,
		now:    time.Now,
	}
}

// CreateExit issues stock for every line and records the exit, all in
// one transaction. Any line failing the stock guard aborts the whole
// creation with no partial ledger entries. Accessory rentals start in
// en_cours; other exit types carry no return sub-state.
func (s *Service) CreateExit(req CreateExitRequest) (*models.StockExit, error) {
	if _, err := metadata.NewExitType(req.ExitType.String()); err != nil {
		return nil, custom_error.NewValidation("exit_type", err.Error())
	}
	if len(req.Lines) == 0 {
		return nil, custom_error.NewValidation("lines", "at least one line is required")
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, custom_error.NewValidation("lines", "quantity must be positive")
		}
	}

	exit := &models.StockExit{
		ExitType:  req.ExitType,
		Status:    models.ExitStatusActive,
		Notes:     req.Notes,
		CreatedBy: req.ActorID,
	}
	if req.ExitType.TracksReturn() {
		exit.ReturnState = metadata.ReturnPending
		exit.Caution = req.Caution
		exit.ExpectedReturnDate = req.ExpectedReturnDate
	}

	err := s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		exitID, err := s.exits.InsertExit(tx, exit)
		if err != nil {
			return err
		}
		exit.ID = exitID

		lines := make([]models.ExitLine, 0, len(req.Lines))
		for _, line := range req.Lines {
			lines = append(lines, models.ExitLine{
				ExitID:    exitID,
				ArticleID: line.ArticleID,
				Quantity:  line.Quantity,
			})
		}
		if err := s.exits.InsertLines(tx, exitID, lines); err != nil {
			return err
		}
		exit.Lines = lines

		for _, line := range lines {
			if _, err := s.stock.AdjustTx(tx, ledger.AdjustmentRequest{
				ArticleID: line.ArticleID,
				Delta:     -line.Quantity,
				Reason:    metadata.ReasonIssue,
				ActorID:   req.ActorID,
				ExitID:    &exit.ID,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("exit created",
		zap.Int("exit_id", exit.ID),
		zap.String("exit_type", exit.ExitType.String()),
		zap.Int("line_count", len(exit.Lines)),
	)

	return s.exits.GetExit(exit.ID)
}

// ProcessReturn settles a rental exit exactly once. Only the ok outcome
// restores stock; damaged forfeits the deposit and not_returned leaves
// the ledger untouched.
func (s *Service) ProcessReturn(exitID int, req ReturnRequest) (*models.StockExit, error) {
	exit, err := s.exits.GetExit(exitID)
	if err != nil {
		return nil, err
	}

	target, err := targetState(req.Outcome)
	if err != nil {
		return nil, err
	}

	if !exit.Active() || !exit.ReturnState.CanTransitionTo(target) {
		return nil, &custom_error.InvalidTransitionError{
			ExitID: exitID,
			From:   exit.ReturnState,
			To:     target,
		}
	}

	if req.Outcome == OutcomeDamaged && req.DamageDescription == "" {
		return nil, custom_error.NewValidation("damage_description", "required for damaged returns")
	}

	returnedAt := s.now()
	exit.ReturnState = target
	exit.ActualReturnDate = &returnedAt
	exit.DamageDescription = req.DamageDescription
	exit.ReimbursementAmount = req.ReimbursementAmount

	err = s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		if req.Outcome == OutcomeOK {
			for _, line := range exit.Lines {
				if _, err := s.stock.AdjustTx(tx, ledger.AdjustmentRequest{
					ArticleID: line.ArticleID,
					Delta:     line.Quantity,
					Reason:    metadata.ReasonReturn,
					ActorID:   req.ActorID,
					ExitID:    &exit.ID,
				}); err != nil {
					return err
				}
			}
		}
		return s.exits.SetReturnOutcome(tx, exit)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("exit return processed",
		zap.Int("exit_id", exitID),
		zap.String("outcome", string(req.Outcome)),
	)

	return s.exits.GetExit(exitID)
}

// SoftDelete retires an exit and credits every line back to stock. A
// second call fails with AlreadyDeleted so stock is never credited
// twice. There is no undelete.
func (s *Service) SoftDelete(exitID int, reason string, actorID *int) (*models.StockExit, error) {
	if reason == "" {
		return nil, custom_error.NewValidation("reason", "deletion reason is required")
	}

	exit, err := s.exits.GetExit(exitID)
	if err != nil {
		return nil, err
	}
	if !exit.Active() {
		return nil, &custom_error.AlreadyDeletedError{ExitID: exitID}
	}

	deletedAt := s.now()
	exit.Status = models.ExitStatusDeleted
	exit.DeletedAt = &deletedAt
	exit.DeletedBy = actorID
	exit.DeletionReason = reason

	err = s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		for _, line := range exit.Lines {
			if _, err := s.stock.AdjustTx(tx, ledger.AdjustmentRequest{
				ArticleID: line.ArticleID,
				Delta:     line.Quantity,
				Reason:    metadata.ReasonDeletionReversal,
				ActorID:   actorID,
				ExitID:    &exit.ID,
			}); err != nil {
				return err
			}
		}
		return s.exits.MarkDeleted(tx, exit)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("exit deleted",
		zap.Int("exit_id", exitID),
		zap.String("reason", reason),
	)

	return s.exits.GetExit(exitID)
}

func (s *Service) GetExit(exitID int) (*models.StockExit, error) {
	return s.exits.GetExit(exitID)
}

func (s *Service) GetExits(includeDeleted bool) ([]models.StockExit, error) {
	return s.exits.GetExits(includeDeleted)
}

// EligibleForDeletion is the recency-window filter listings apply before
// offering the delete action.
func EligibleForDeletion(exit *models.StockExit, now time.Time) bool {
	return exit.Active() && now.Sub(exit.CreatedAt) <= DeletionWindow
}

func targetState(outcome ReturnOutcome) (metadata.ReturnState, error) {
	switch outcome {
	case OutcomeOK:
		return metadata.ReturnedOK, nil
	case OutcomeDamaged:
		return metadata.ReturnedDamaged, nil
	case OutcomeNotReturned:
		return metadata.ReturnedNever, nil
	default:
		return "", custom_error.NewValidation("outcome", "must be ok, damaged or not_returned")
	}
}
