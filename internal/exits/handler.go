package exits

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pickt972/stock-wise-fleet-sub000/pkg/auditlog"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/security"
)

type ExitHandler struct {
	Service  *Service
	AuditLog *auditlog.Auditlog
}

func RegisterRoutes(router *gin.Engine, service *Service, a *auditlog.Auditlog) {
	handler := ExitHandler{Service: service, AuditLog: a}

	api := router.Group("/api", security.JWTMiddleware())
	api.POST("/exits", security.Authorize("user"), handler.CreateExit)
	api.GET("/exits", security.Authorize("user"), handler.GetExits)
	api.GET("/exits/:id", security.Authorize("user"), handler.GetExit)
	api.POST("/exits/:id/return", security.Authorize("user"), handler.ProcessReturn)
	api.DELETE("/exits/:id", security.Authorize("admin"), handler.DeleteExit)
}

type createExitRequest struct {
	ExitType           string            `json:"exit_type" binding:"required"`
	Lines              []ExitLineRequest `json:"lines" binding:"required"`
	Notes              string            `json:"notes"`
	Caution            *decimal.Decimal  `json:"caution"`
	ExpectedReturnDate *time.Time        `json:"expected_return_date"`
}

func (h *ExitHandler) CreateExit(c *gin.Context) {
	var req createExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	exitType, err := metadata.NewExitType(req.ExitType)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid exit type",
			"details": err.Error(),
		})
		return
	}

	exit, err := h.Service.CreateExit(CreateExitRequest{
		ExitType:           exitType,
		Lines:              req.Lines,
		Notes:              req.Notes,
		Caution:            req.Caution,
		ExpectedReturnDate: req.ExpectedReturnDate,
		ActorID:            security.UserID(c),
	})
	if err != nil {
		abortWithExitError(c, err)
		return
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"exit_number": exit.ExitNumber,
			"exit_type":   exit.ExitType.String(),
			"line_count":  len(exit.Lines),
		},
		exit,
	)

	c.JSON(http.StatusCreated, exit)
}

func (h *ExitHandler) GetExits(c *gin.Context) {
	includeDeleted := c.Query("include_deleted") == "true"

	exits, err := h.Service.GetExits(includeDeleted)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exits"})
		return
	}

	// Flag the rows the UI may offer the delete action for.
	now := time.Now()
	views := make([]gin.H, 0, len(exits))
	for i := range exits {
		views = append(views, gin.H{
			"exit":      exits[i],
			"deletable": EligibleForDeletion(&exits[i], now),
		})
	}

	c.JSON(http.StatusOK, views)
}

func (h *ExitHandler) GetExit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid exit id"})
		return
	}

	exit, err := h.Service.GetExit(id)
	if err != nil {
		abortWithExitError(c, err)
		return
	}

	c.JSON(http.StatusOK, exit)
}

type processReturnRequest struct {
	Outcome             string           `json:"outcome" binding:"required"`
	DamageDescription   string           `json:"damage_description"`
	ReimbursementAmount *decimal.Decimal `json:"reimbursement_amount"`
}

func (h *ExitHandler) ProcessReturn(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid exit id"})
		return
	}

	var req processReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	exit, err := h.Service.ProcessReturn(id, ReturnRequest{
		Outcome:             ReturnOutcome(req.Outcome),
		DamageDescription:   req.DamageDescription,
		ReimbursementAmount: req.ReimbursementAmount,
		ActorID:             security.UserID(c),
	})
	if err != nil {
		abortWithExitError(c, err)
		return
	}

	go h.AuditLog.Log(
		"return",
		map[string]interface{}{
			"outcome":      req.Outcome,
			"return_state": exit.ReturnState.String(),
		},
		exit,
	)

	c.JSON(http.StatusOK, exit)
}

type deleteExitRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *ExitHandler) DeleteExit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid exit id"})
		return
	}

	var req deleteExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Deletion reason is required"})
		return
	}

	exit, err := h.Service.SoftDelete(id, req.Reason, security.UserID(c))
	if err != nil {
		abortWithExitError(c, err)
		return
	}

	go h.AuditLog.Log(
		"delete",
		map[string]interface{}{
			"reason": req.Reason,
		},
		exit,
	)

	c.JSON(http.StatusOK, exit)
}

func abortWithExitError(c *gin.Context, err error) {
	switch err.(type) {
	case *custom_error.NotFoundError:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case *custom_error.InsufficientStockError:
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case *custom_error.InvalidTransitionError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case *custom_error.AlreadyDeletedError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case *custom_error.ValidationError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Exit operation failed"})
	}
}
