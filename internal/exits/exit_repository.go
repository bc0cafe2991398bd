package exits

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

var exitColumns = []interface{}{
	"id", "exit_number", "exit_type", "status", "notes", "return_state",
	"caution", "expected_return_date", "actual_return_date",
	"damage_description", "reimbursement_amount",
	"created_by", "created_at", "deleted_by", "deleted_at", "deletion_reason",
}

type ExitRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ExitRepository {
	return &ExitRepository{repository: r}
}

func (r *ExitRepository) GetExit(id int) (*models.StockExit, error) {
	var exit models.StockExit
	query := r.repository.GoquDBWrapper.
		Select(exitColumns...).
		From("stock_exits").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&exit)
	if err != nil {
		return nil, fmt.Errorf("failed to get exit: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("exit", id)
	}

	lines, err := r.getLines(id)
	if err != nil {
		return nil, err
	}
	exit.Lines = lines

	return &exit, nil
}

func (r *ExitRepository) GetExits(includeDeleted bool) ([]models.StockExit, error) {
	query := r.repository.GoquDBWrapper.
		Select(exitColumns...).
		From("stock_exits").
		Order(goqu.I("created_at").Desc())
	if !includeDeleted {
		query = query.Where(goqu.Ex{"status": models.ExitStatusActive})
	}

	var exits []models.StockExit
	if err := query.Executor().ScanStructs(&exits); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for exits: %w", err)
	}

	for i := range exits {
		lines, err := r.getLines(exits[i].ID)
		if err != nil {
			return nil, err
		}
		exits[i].Lines = lines
	}

	return exits, nil
}

func (r *ExitRepository) InsertExit(tx *goqu.TxDatabase, exit *models.StockExit) (int, error) {
	query := tx.Insert("stock_exits").
		Rows(goqu.Record{
			"exit_type":            exit.ExitType.String(),
			"status":               exit.Status,
			"notes":                exit.Notes,
			"return_state":         exit.ReturnState.String(),
			"caution":              exit.Caution,
			"expected_return_date": exit.ExpectedReturnDate,
			"created_by":           exit.CreatedBy,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert exit record: %w", err)
	}

	// The exit number is derived from the row id, so it is stamped right
	// after the insert within the same transaction.
	exitNumber := fmt.Sprintf("BS-%06d", id)
	if _, err := tx.Update("stock_exits").
		Set(goqu.Record{"exit_number": exitNumber}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec(); err != nil {
		return 0, fmt.Errorf("failed to stamp exit number: %w", err)
	}
	exit.ExitNumber = exitNumber

	return id, nil
}

func (r *ExitRepository) InsertLines(tx *goqu.TxDatabase, exitID int, lines []models.ExitLine) error {
	rows := make([]interface{}, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, goqu.Record{
			"exit_id":    exitID,
			"article_id": line.ArticleID,
			"quantity":   line.Quantity,
		})
	}

	query := tx.Insert("stock_exit_lines").Rows(rows...)
	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert exit lines: %w", err)
	}

	return nil
}

func (r *ExitRepository) SetReturnOutcome(tx *goqu.TxDatabase, exit *models.StockExit) error {
	query := tx.Update("stock_exits").
		Set(goqu.Record{
			"return_state":         exit.ReturnState.String(),
			"actual_return_date":   exit.ActualReturnDate,
			"damage_description":   exit.DamageDescription,
			"reimbursement_amount": exit.ReimbursementAmount,
		}).
		Where(goqu.Ex{
			"id":           exit.ID,
			"return_state": metadata.ReturnPending.String(),
			"status":       models.ExitStatusActive,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update return outcome: %w", err)
	}

	// The state predicate makes the row itself reject a second settlement;
	// zero rows means another writer got there first.
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for exit %d: %w", exit.ID, err)
	}
	if affected == 0 {
		var current string
		if _, err := tx.Select("return_state").
			From("stock_exits").
			Where(goqu.Ex{"id": exit.ID}).
			Executor().ScanVal(&current); err != nil {
			return fmt.Errorf("failed to check exit %d: %w", exit.ID, err)
		}
		return &custom_error.InvalidTransitionError{
			ExitID: exit.ID,
			From:   metadata.ReturnState(current),
			To:     exit.ReturnState,
		}
	}

	return nil
}

func (r *ExitRepository) MarkDeleted(tx *goqu.TxDatabase, exit *models.StockExit) error {
	query := tx.Update("stock_exits").
		Set(goqu.Record{
			"status":          models.ExitStatusDeleted,
			"deleted_by":      exit.DeletedBy,
			"deleted_at":      exit.DeletedAt,
			"deletion_reason": exit.DeletionReason,
		}).
		Where(goqu.Ex{"id": exit.ID, "status": models.ExitStatusActive})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to mark exit deleted: %w", err)
	}

	// The status guard catches a concurrent delete of the same exit.
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for exit %d: %w", exit.ID, err)
	}
	if affected == 0 {
		return &custom_error.AlreadyDeletedError{ExitID: exit.ID}
	}

	return nil
}

func (r *ExitRepository) getLines(exitID int) ([]models.ExitLine, error) {
	var lines []models.ExitLine
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("l.id").As("id"),
			goqu.I("l.exit_id").As("exit_id"),
			goqu.I("l.article_id").As("article_id"),
			goqu.I("a.reference").As("article_reference"),
			goqu.I("l.quantity").As("quantity"),
		).
		From(goqu.T("stock_exit_lines").As("l")).
		LeftJoin(
			goqu.T("articles").As("a"),
			goqu.On(goqu.Ex{"a.id": goqu.I("l.article_id")}),
		).
		Where(goqu.Ex{"l.exit_id": exitID}).
		Order(goqu.I("l.id").Asc())

	if err := query.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for exit lines: %w", err)
	}

	return lines, nil
}
