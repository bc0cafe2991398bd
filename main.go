package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pickt972/stock-wise-fleet-sub000/cmd"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/articles"
	auditlogapi "github.com/pickt972/stock-wise-fleet-sub000/internal/auditlog"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/container"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/core/logger"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/database"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/exits"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/ledger"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/middleware"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/procurement"
	"github.com/pickt972/stock-wise-fleet-sub000/internal/users"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatal("could not connect to database: " + err.Error())
	}
	defer db.Close()

	log.Info("Connected to the database successfully")

	if err := database.RunMigrations(db, "./migrations", log); err != nil {
		log.Fatal("database migration failed: " + err.Error())
	}

	app := container.NewAppContainer(db, log)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(log))

	app.LoginHandler.RegisterRoutes(router)
	articles.RegisterRoutes(router, app.ArticleRepository)
	ledger.RegisterRoutes(router, app.LedgerService, app.AuditLog)
	exits.RegisterRoutes(router, app.ExitService, app.AuditLog)
	procurement.RegisterRoutes(router, app.ProcurementService, app.MergeResolver, app.AuditLog)
	users.RegisterRoutes(router, app.UserRepository)
	auditlogapi.RegisterRoutes(router, app.AuditLogRepository)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
