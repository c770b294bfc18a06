package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/logger"
	"storefront/internal/models"
)

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

// OrderInput es el cuerpo de un nuevo pedido; el total lo calcula el servidor
type OrderInput struct {
	Items []models.OrderItem `json:"items" binding:"required,min=1,dive"`
}

type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

type OrderHandler struct {
	orders OrderStore
	log    logger.Logger
}

func NewOrderHandler(orders OrderStore, log logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

// CreateOrder crea un pedido del usuario actual en estado Pending
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var input OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	order := models.Order{
		User:   userID,
		Items:  input.Items,
		Status: models.OrderStatusPending,
	}
	if err := h.orders.Create(c.Request.Context(), &order); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus acepta cualquier estado válido, sin imponer transiciones
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	status, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		respondError(c, h.log, &ValidationError{Field: "status", Message: err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
