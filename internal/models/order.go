package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus valida un estado de pedido
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch status := OrderStatus(s); status {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("invalid order status %q", s)
	}
}

// OrderItem guarda el precio en el momento del pedido; nunca se recalcula
type OrderItem struct {
	Product  primitive.ObjectID `json:"product" bson:"product" binding:"required"`
	Variant  string             `json:"variant" bson:"variant" binding:"required"`
	Quantity int                `json:"quantity" bson:"quantity" binding:"gt=0"`
	Price    float64            `json:"price" bson:"price" binding:"gte=0"`
}

// Subtotal es quantity × price
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

type Order struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	Items       []OrderItem        `json:"items" bson:"items" binding:"required,min=1,dive"`
	TotalAmount float64            `json:"totalAmount" bson:"totalAmount"`
	OrderDate   time.Time          `json:"orderDate" bson:"orderDate"`
	Status      OrderStatus        `json:"status" bson:"status"`
}

// ComputeTotal suma los subtotales de los items
func (o *Order) ComputeTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}
