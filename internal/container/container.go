package container

import (
	"database/sql"

	"go.uber.org/zap"

	auditLogRepo "github.com/pickt972/stock-wise-fleet-sub000/internal/auditlog"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/articles"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/exits"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/ledger"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/procurement"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/users"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/auditlog"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/security"
)

type Container struct {
	Repository         *repository.Repository
	AuditLog           *auditlog.Auditlog
	AuditLogRepository *auditLogRepo.AuditLogRepository
	LoginHandler       *security.LoginHandler
	ArticleRepository  *articles.ArticleRepository
	LedgerService      *ledger.Service
	ExitService        *exits.Service
	ProcurementService *procurement.Service
	MergeResolver      *procurement.MergeResolver
	UserRepository     users.UserRepository
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)
	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo)

	articleRepo := articles.NewRepository(repo)
	movementRepo := ledger.NewMovementRepository(repo)
	ledgerService := ledger.NewService(repo, articleRepo, movementRepo, log)

	exitRepo := exits.NewRepository(repo)
	exitService := exits.NewService(repo, exitRepo, ledgerService, log)

	supplierRepo := procurement.NewSupplierRepository(repo)
	orderRepo := procurement.NewOrderRepository(repo)
	resolver := procurement.NewSupplierResolver(articleRepo, supplierRepo)
	aggregator := procurement.NewAggregator(articleRepo, resolver, log)
	merger := procurement.NewMergeResolver(repo, orderRepo, log)
	procurementService := procurement.NewService(repo, aggregator, merger, orderRepo, articleRepo, log)

	userRepo := users.NewRepository(repo)
	loginHandler := security.NewLoginHandler(repo)

	return &Container{
		Repository:         repo,
		AuditLog:           auditLog,
		AuditLogRepository: auditRepo,
		LoginHandler:       loginHandler,
		ArticleRepository:  articleRepo,
		LedgerService:      ledgerService,
		ExitService:        exitService,
		ProcurementService: procurementService,
		MergeResolver:      merger,
		UserRepository:     userRepo,
	}
}
