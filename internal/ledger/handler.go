package ledger

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pickt972/stock-wise-fleet-sub000/pkg/auditlog"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/security"
)

type LedgerHandler struct {
	Service  *Service
	AuditLog *auditlog.Auditlog
}

func RegisterRoutes(router *gin.Engine, service *Service, a *auditlog.Auditlog) {
	handler := LedgerHandler{Service: service, AuditLog: a}

	api := router.Group("/api", security.JWTMiddleware())
	api.POST("/articles/:id/adjustments", security.Authorize("moderator"), handler.AdjustStock)
	api.GET("/articles/:id/movements", security.Authorize("user"), handler.GetMovements)
}

type adjustStockRequest struct {
	Delta    int    `json:"delta" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
	Override bool   `json:"override"`
}

func (h *LedgerHandler) AdjustStock(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	reason, err := metadata.NewMovementReason(req.Reason)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid movement reason",
			"details": err.Error(),
		})
		return
	}

	// The override capability is reserved for administrators.
	if req.Override && !security.HasRole(c, "admin") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Override requires admin role"})
		return
	}

	result, err := h.Service.AdjustStock(AdjustmentRequest{
		ArticleID: articleID,
		Delta:     req.Delta,
		Reason:    reason,
		ActorID:   security.UserID(c),
		Override:  req.Override,
	})
	if err != nil {
		abortWithLedgerError(c, err)
		return
	}

	go h.AuditLog.Log(
		"adjust",
		map[string]interface{}{
			"delta":     req.Delta,
			"reason":    req.Reason,
			"new_stock": result.NewStock,
			"override":  req.Override,
		},
		&models.Article{ID: articleID},
	)

	c.JSON(http.StatusOK, result)
}

func (h *LedgerHandler) GetMovements(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	movements, err := h.Service.Movements(articleID)
	if err != nil {
		abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, movements)
}

func abortWithLedgerError(c *gin.Context, err error) {
	switch err.(type) {
	case *custom_error.NotFoundError:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case *custom_error.InsufficientStockError:
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case *custom_error.ValidationError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock"})
	}
}
