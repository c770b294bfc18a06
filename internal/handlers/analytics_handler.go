package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/analytics"
	"storefront/internal/logger"
)

// AnalyticsHandler expone las consultas analíticas; nunca se cachean
type AnalyticsHandler struct {
	engine analytics.Engine
	log    logger.Logger
}

func NewAnalyticsHandler(engine analytics.Engine, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{engine: engine, log: log}
}

// BestSellers GET /analytics/best-sellers?limit=N
func (h *AnalyticsHandler) BestSellers(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, h.log, &ValidationError{Field: "limit", Message: "limit must be an integer"})
			return
		}
		limit = n
	}

	rows, err := h.engine.BestSellers(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// CategoryRatings GET /analytics/category-ratings
func (h *AnalyticsHandler) CategoryRatings(c *gin.Context) {
	rows, err := h.engine.CategoryRatings(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// OrderHistory GET /users/:userId/orders
func (h *AnalyticsHandler) OrderHistory(c *gin.Context) {
	rows, err := h.engine.OrderHistory(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
