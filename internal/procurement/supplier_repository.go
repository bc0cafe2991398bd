package procurement

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

type SupplierRepository struct {
	repository *repository.Repository
}

func NewSupplierRepository(r *repository.Repository) *SupplierRepository {
	return &SupplierRepository{repository: r}
}

func (r *SupplierRepository) GetArticleSuppliers(articleID int) ([]models.ArticleSupplier, error) {
	var assocs []models.ArticleSupplier
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("asup.id").As("id"),
			goqu.I("asup.article_id").As("article_id"),
			goqu.I("asup.supplier_id").As("supplier_id"),
			goqu.I("s.name").As("supplier_name"),
			goqu.I("s.contact").As("contact"),
			goqu.I("asup.principal").As("principal"),
			goqu.I("asup.active").As("active"),
			goqu.I("asup.unit_price").As("unit_price"),
			goqu.I("asup.position").As("position"),
		).
		From(goqu.T("article_suppliers").As("asup")).
		LeftJoin(
			goqu.T("suppliers").As("s"),
			goqu.On(goqu.Ex{"s.id": goqu.I("asup.supplier_id")}),
		).
		Where(goqu.Ex{"asup.article_id": articleID}).
		Order(goqu.I("asup.position").Asc())

	if err := query.Executor().ScanStructs(&assocs); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for article suppliers: %w", err)
	}

	return assocs, nil
}

func (r *SupplierRepository) GetSupplier(id int) (*models.Supplier, error) {
	var supplier models.Supplier
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "contact", "email", "phone").
		From("suppliers").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&supplier)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("supplier", id)
	}

	return &supplier, nil
}
