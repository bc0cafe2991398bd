package articles

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/repository"
	custom_error "github.com/pickt972/stock-wise-fleet-sub000/pkg/errors"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/security"
)

type ArticleHandler struct {
	Repository *ArticleRepository
}

func RegisterRoutes(router *gin.Engine, r *ArticleRepository) {
	handler := ArticleHandler{Repository: r}

	api := router.Group("/api", security.JWTMiddleware())
	api.GET("/articles", security.Authorize("user"), handler.GetArticles)
	api.GET("/articles/low-stock", security.Authorize("user"), handler.GetLowStockArticles)
	api.GET("/articles/:id", security.Authorize("user"), handler.GetArticle)
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if reference := c.Query("reference"); reference != "" {
		conditions.AddCondition("reference", reference)
	}
	if supplier := c.Query("supplier"); supplier != "" {
		supplierID, err := strconv.Atoi(supplier)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier id"})
			return
		}
		conditions.AddCondition("supplier", supplierID)
	}

	articles, err := h.Repository.GetArticles(conditions)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to list articles"})
		return
	}

	c.JSON(http.StatusOK, articles)
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	article, err := h.Repository.GetArticle(id)
	if err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get article"})
		}
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) GetLowStockArticles(c *gin.Context) {
	articles, err := h.Repository.GetArticlesBelowMinimum()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to list low-stock articles"})
		return
	}

	c.JSON(http.StatusOK, articles)
}
