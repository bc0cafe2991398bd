package procurement

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

type OrderHandler struct {
	Service  *Service
	Merger   *MergeResolver
	AuditLog *auditlog.Auditlog
}

func RegisterRoutes(router *gin.Engine, service *Service, merger *MergeResolver, a *auditlog.Auditlog) {
	handler := OrderHandler{Service: service, Merger: merger, AuditLog: a}

	api := router.Group("/api", security.JWTMiddleware())
	api.POST("/orders/generate", security.Authorize("moderator"), handler.GenerateOrders)
	api.POST("/orders/revision", security.Authorize("moderator"), handler.GenerateRevisionOrders)
	api.POST("/orders/low-stock", security.Authorize("moderator"), handler.GenerateLowStockOrders)
	api.POST("/orders/draft", security.Authorize("moderator"), handler.MergeOrCreateDraft)
	api.PATCH("/orders/:id/status", security.Authorize("moderator"), handler.ChangeStatus)
	api.POST("/orders/:id/receive", security.Authorize("moderator"), handler.ReceiveLines)
	api.GET("/orders", security.Authorize("user"), handler.GetOrders)
	api.GET("/orders/:id", security.Authorize("user"), handler.GetOrder)
}

type generateOrdersRequest struct {
	Demands  []models.ShortageDemand `json:"demands" binding:"required"`
	ForceNew bool                    `json:"force_new"`
}

func (h *OrderHandler) GenerateOrders(c *gin.Context) {
	var req generateOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	result, err := h.Service.GenerateFromDemands(req.Demands, req.ForceNew, security.UserID(c))
	if err != nil {
		abortWithOrderError(c, err)
		return
	}

	for i := range result.Orders {
		go h.AuditLog.Log(
			"generate",
			map[string]interface{}{
				"supplier":   result.Orders[i].SupplierName,
				"line_count": len(result.Orders[i].Lines),
			},
			&result.Orders[i],
		)
	}

	c.JSON(http.StatusCreated, result)
}

type revisionOrdersRequest struct {
	Units    int            `json:"units" binding:"required"`
	Items    []RevisionItem `json:"items" binding:"required"`
	ForceNew bool           `json:"force_new"`
}

func (h *OrderHandler) GenerateRevisionOrders(c *gin.Context) {
	var req revisionOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	demands := BuildRevisionDemands(req.Units, req.Items)
	result, err := h.Service.GenerateFromDemands(demands, req.ForceNew, security.UserID(c))
	if err != nil {
		abortWithOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

type lowStockOrdersRequest struct {
	ForceNew bool `json:"force_new"`
}

func (h *OrderHandler) GenerateLowStockOrders(c *gin.Context) {
	// The body is optional; an empty body means default options.
	var req lowStockOrdersRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.Service.GenerateFromLowStock(req.ForceNew, security.UserID(c))
	if err != nil {
		abortWithOrderError(c, err)
		return
	}

	for i := range result.Orders {
		go h.AuditLog.Log(
			"generate",
			map[string]interface{}{
				"supplier":   result.Orders[i].SupplierName,
				"line_count": len(result.Orders[i].Lines),
			},
			&result.Orders[i],
		)
	}

	c.JSON(http.StatusCreated, result)
}

type mergeDraftRequest struct {
	SupplierID      *int               `json:"supplier_id"`
	SupplierName    string             `json:"supplier_name" binding:"required"`
	SupplierContact string             `json:"supplier_contact"`
	Lines           []models.OrderLine `json:"lines" binding:"required"`
	ForceNew        bool               `json:"force_new"`
}

func (h *OrderHandler) MergeOrCreateDraft(c *gin.Context) {
	var req mergeDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	order, err := h.Merger.MergeOrCreateDraft(MergeRequest{
		SupplierID:      req.SupplierID,
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
		Lines:           req.Lines,
		ForceNew:        req.ForceNew,
		ActorID:         security.UserID(c),
	})
	if err != nil {
		abortWithOrderError(c, err)
		return
	}

	go h.AuditLog.Log(
		"draft",
		map[string]interface{}{
			"supplier":   order.SupplierName,
			"line_count": len(order.Lines),
		},
		order,
	)

	c.JSON(http.StatusCreated, order)
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	status, err := metadata.NewOrderStatus(req.Status)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid order status",
			"details": err.Error(),
		})
		return
	}

	order, err := h.Service.ChangeStatus(id, status)
	if err != nil {
		abortWithOrderError(c, err)
		return
	}

	go h.AuditLog.Log(
		"status",
		map[string]interface{}{"status": req.Status},
		order,
	)

	c.JSON(http.StatusOK, order)
}

type receiveLinesRequest struct {
	Receipts []LineReceipt `json:"receipts" binding:"required"`
}

func (h *OrderHandler) ReceiveLines(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req receiveLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	order, err := h.Service.ReceiveLines(id, req.Receipts)
	if err != nil {
		abortWithOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.Service.GetOrders()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.Service.GetOrder(id)
	if err != nil {
		abortWithOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func abortWithOrderError(c *gin.Context, err error) {
	switch err.(type) {
	case *custom_error.NotFoundError:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case *custom_error.InvalidStatusError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case *custom_error.ValidationError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Order operation failed"})
	}
}
