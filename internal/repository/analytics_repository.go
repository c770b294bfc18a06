package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/analytics"
	"storefront/internal/database"
	"storefront/internal/models"
)

// AnalyticsRepository resuelve las consultas analíticas con el pipeline de
// agregación de MongoDB. También sirve de Source para el pipeline en memoria.
type AnalyticsRepository struct {
	orders     *OrderRepository
	reviews    *ReviewRepository
	products   *ProductRepository
	categories *CategoryRepository
}

func NewAnalyticsRepository(orders *OrderRepository, reviews *ReviewRepository, products *ProductRepository, categories *CategoryRepository) *AnalyticsRepository {
	return &AnalyticsRepository{
		orders:     orders,
		reviews:    reviews,
		products:   products,
		categories: categories,
	}
}

var (
	_ analytics.Engine = (*AnalyticsRepository)(nil)
	_ analytics.Source = (*AnalyticsRepository)(nil)
)

// BestSellers ranking de productos más vendidos
func (r *AnalyticsRepository) BestSellers(ctx context.Context, limit int) ([]models.BestSeller, error) {
	if err := analytics.ValidateLimit(limit); err != nil {
		return nil, err
	}

	results := make([]models.BestSeller, 0)
	if err := aggregate(ctx, r.orders.collection, bestSellersPipeline(limit), &results); err != nil {
		return nil, storeError("best sellers", err)
	}
	return results, nil
}

// CategoryRatings valoración media por categoría
func (r *AnalyticsRepository) CategoryRatings(ctx context.Context) ([]models.CategoryRating, error) {
	results := make([]models.CategoryRating, 0)
	if err := aggregate(ctx, r.reviews.collection, categoryRatingsPipeline(), &results); err != nil {
		return nil, storeError("category ratings", err)
	}
	return results, nil
}

// OrderHistory pedidos del usuario con los productos resueltos
func (r *AnalyticsRepository) OrderHistory(ctx context.Context, userID string) ([]models.OrderHistoryEntry, error) {
	results := make([]models.OrderHistoryEntry, 0)
	uid, ok := analytics.ParseUserID(userID)
	if !ok {
		return results, nil
	}

	if err := aggregate(ctx, r.orders.collection, orderHistoryPipeline(uid), &results); err != nil {
		return nil, storeError("order history", err)
	}
	return results, nil
}

func (r *AnalyticsRepository) Orders(ctx context.Context) ([]models.Order, error) {
	return r.orders.FindAll(ctx)
}

func (r *AnalyticsRepository) OrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.orders.FindByUser(ctx, userID)
}

func (r *AnalyticsRepository) Reviews(ctx context.Context) ([]models.Review, error) {
	return r.reviews.FindAll(ctx)
}

func (r *AnalyticsRepository) ProductsByID(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	return r.products.FindByIDs(ctx, ids)
}

func (r *AnalyticsRepository) CategoriesByID(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	return r.categories.FindByIDs(ctx, ids)
}

func aggregate(ctx context.Context, collection *mongo.Collection, pipeline mongo.Pipeline, results interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, results)
}

// lookupOne une un documento por _id y descarta los que no resuelven
func lookupOne(from, localField, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"as":           as,
		}}},
		{{Key: "$unwind", Value: "$" + as}},
	}
}

// bestSellersPipeline agrupa unidades por producto. El límite va después del
// $lookup para que los productos borrados no ocupen puesto.
func bestSellersPipeline(limit int) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$items.product",
			"totalSold": bson.M{"$sum": "$items.quantity"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalSold", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	pipeline = append(pipeline, lookupOne(database.ProductsCollection, "_id", "product")...)
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	return append(pipeline, bson.D{{Key: "$project", Value: bson.M{
		"_id":          0,
		"productId":    "$_id",
		"productName":  "$product.name",
		"productImage": bson.M{"$arrayElemAt": bson.A{"$product.images", 0}},
		"totalSold":    1,
	}}})
}

func categoryRatingsPipeline() mongo.Pipeline {
	var pipeline mongo.Pipeline
	pipeline = append(pipeline, lookupOne(database.ProductsCollection, "product", "product")...)
	pipeline = append(pipeline, lookupOne(database.CategoriesCollection, "product.category", "category")...)
	return append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$category.name",
			"averageRating": bson.M{"$avg": "$rating"},
			"totalReviews":  bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "averageRating", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":           0,
			"categoryName":  "$_id",
			"averageRating": 1,
			"totalReviews":  1,
		}}},
	)
}

// orderHistoryPipeline conserva todos los items; product queda ausente si no resuelve
func orderHistoryPipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
		{{Key: "$sort", Value: historySort}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.ProductsCollection,
			"localField":   "items.product",
			"foreignField": "_id",
			"as":           "resolved",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"items": bson.M{"$map": bson.M{
				"input": "$items",
				"as":    "it",
				"in": bson.M{
					"productId": "$$it.product",
					"variant":   "$$it.variant",
					"quantity":  "$$it.quantity",
					"price":     "$$it.price",
					"product": bson.M{"$arrayElemAt": bson.A{
						bson.M{"$filter": bson.M{
							"input": "$resolved",
							"as":    "p",
							"cond":  bson.M{"$eq": bson.A{"$$p._id", "$$it.product"}},
						}},
						0,
					}},
				},
			}},
		}}},
		{{Key: "$project", Value: bson.M{"resolved": 0}}},
	}
}
