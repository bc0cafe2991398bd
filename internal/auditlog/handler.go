package auditlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pickt972/stock-wise-fleet-sub000/pkg/security"
)

type AuditLogHandler struct {
	Repository *AuditLogRepository
}

func RegisterRoutes(router *gin.Engine, r *AuditLogRepository) {
	handler := AuditLogHandler{Repository: r}

	api := router.Group("/api", security.JWTMiddleware())
	api.GET("/audit/:type/:id", security.Authorize("moderator"), handler.GetResourceLog)
}

func (h *AuditLogHandler) GetResourceLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid resource id"})
		return
	}

	logs, err := h.Repository.GetResourceLog(id, c.Param("type"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get audit trail"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
