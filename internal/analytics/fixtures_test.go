package analytics

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func oid(n byte) primitive.ObjectID {
	var id primitive.ObjectID
	id[11] = n
	return id
}

var (
	userU1 = oid(0x01)
	userU2 = oid(0x02)

	productP1 = oid(0x11)
	productP2 = oid(0x12)
	productP3 = oid(0x13)
	deletedP9 = oid(0x19)

	categoryC1 = oid(0x21)
	categoryC2 = oid(0x22)
	missingC9  = oid(0x29)

	baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func fixtureCategories() []models.Category {
	return []models.Category{
		{ID: categoryC1, Name: "C1"},
		{ID: categoryC2, Name: "C2"},
	}
}

func fixtureProducts() []models.Product {
	return []models.Product{
		{ID: productP1, Name: "Shirt", Category: categoryC1, Images: []string{"https://img/p1-a.png", "https://img/p1-b.png"}},
		{ID: productP2, Name: "Mug", Category: categoryC2},
		{ID: productP3, Name: "Poster", Category: missingC9, Images: []string{"https://img/p3.png"}},
	}
}

func item(product primitive.ObjectID, qty int, price float64) models.OrderItem {
	return models.OrderItem{Product: product, Variant: "M, Red", Quantity: qty, Price: price}
}

func order(id byte, user primitive.ObjectID, at time.Time, items ...models.OrderItem) models.Order {
	o := models.Order{ID: oid(0x40 + id), User: user, Items: items, OrderDate: at, Status: models.OrderStatusPending}
	o.TotalAmount = o.ComputeTotal()
	return o
}
