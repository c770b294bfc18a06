package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant es una variante embebida del producto; no tiene identidad propia
type Variant struct {
	Size  string  `json:"size" bson:"size" binding:"required"`
	Color string  `json:"color" bson:"color" binding:"required"`
	Price float64 `json:"price" bson:"price" binding:"gte=0"`
	Stock int     `json:"stock" bson:"stock" binding:"gte=0"`
}

// Product representa un producto del catálogo
type Product struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" binding:"required"`
	Description  string             `json:"description" bson:"description" binding:"required"`
	Category     primitive.ObjectID `json:"category" bson:"category" binding:"required"`
	Variants     []Variant          `json:"variants" bson:"variants" binding:"dive"`
	Images       []string           `json:"images" bson:"images"`
	Rating       float64            `json:"rating" bson:"rating"`
	ReviewsCount int                `json:"reviewsCount" bson:"reviewsCount"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// FirstImage devuelve la primera imagen o "" si no hay ninguna
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductUpdate representa los campos actualizables de un producto
type ProductUpdate struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Category    *primitive.ObjectID `json:"category,omitempty"`
	Variants    []Variant           `json:"variants,omitempty" binding:"omitempty,dive"`
	Images      []string            `json:"images,omitempty"`
}

// Category agrupa productos
type Category struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" binding:"required"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
}
