package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BestSeller es una fila del ranking de productos más vendidos
type BestSeller struct {
	ProductID    primitive.ObjectID `json:"productId" bson:"productId"`
	ProductName  string             `json:"productName" bson:"productName"`
	ProductImage string             `json:"productImage,omitempty" bson:"productImage,omitempty"`
	TotalSold    int                `json:"totalSold" bson:"totalSold"`
}

// CategoryRating es la valoración media de una categoría
type CategoryRating struct {
	CategoryName  string  `json:"categoryName" bson:"categoryName"`
	AverageRating float64 `json:"averageRating" bson:"averageRating"`
	TotalReviews  int     `json:"totalReviews" bson:"totalReviews"`
}

// HistoryItem conserva el snapshot del item y adjunta el producto resuelto (nil si fue borrado)
type HistoryItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Product   *Product           `json:"product" bson:"product"`
	Variant   string             `json:"variant" bson:"variant"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"`
}

// OrderHistoryEntry es un pedido del historial con sus productos resueltos
type OrderHistoryEntry struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	Items       []HistoryItem      `json:"items" bson:"items"`
	TotalAmount float64            `json:"totalAmount" bson:"totalAmount"`
	OrderDate   time.Time          `json:"orderDate" bson:"orderDate"`
	Status      OrderStatus        `json:"status" bson:"status"`
}
