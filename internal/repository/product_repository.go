package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 10 * time.Second
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	return &ProductRepository{
		collection: collection,
	}
}

// Create crea un nuevo producto
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now().UTC()
	product.Rating = 0
	product.ReviewsCount = 0
	if product.Variants == nil {
		product.Variants = []models.Variant{}
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	_, err := r.collection.InsertOne(ctx, product)
	return storeError("insert product", err)
}

// FindByID obtiene un producto por ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, invalidID("product ID")
	}

	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		return nil, storeError("find product", err)
	}

	return &product, nil
}

// FindByIDs resuelve un lote de referencias; las que no existen simplemente no aparecen
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, storeError("find products", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0, len(ids))
	if err := cursor.All(ctx, &products); err != nil {
		return nil, storeError("decode products", err)
	}
	return products, nil
}

// FindAll lista productos con paginación y filtros
func (r *ProductRepository) FindAll(ctx context.Context, page, pageSize int, category, sortBy, sortOrder string) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		catID, err := primitive.ObjectIDFromHex(category)
		if err != nil {
			return nil, 0, invalidID("category ID")
		}
		filter["category"] = catID
	}

	// Contar total en paralelo
	totalCh := make(chan int64, 1)
	errCh := make(chan error, 1)

	go func() {
		total, err := r.collection.CountDocuments(ctx, filter)
		if err != nil {
			errCh <- err
			return
		}
		totalCh <- total
	}()

	findOptions := options.Find()

	if page > 0 && pageSize > 0 {
		findOptions.SetSkip(int64((page - 1) * pageSize))
		findOptions.SetLimit(int64(pageSize))
	} else {
		findOptions.SetLimit(100)
	}

	sortField := "createdAt"
	sortOrderInt := -1
	if sortBy != "" {
		sortField = sortBy
	}
	if sortOrder == "asc" {
		sortOrderInt = 1
	}
	findOptions.SetSort(bson.D{{Key: sortField, Value: sortOrderInt}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, storeError("find products", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err = cursor.All(ctx, &products); err != nil {
		return nil, 0, storeError("decode products", err)
	}

	// Esperar el conteo
	var total int64
	select {
	case total = <-totalCh:
	case err := <-errCh:
		return products, 0, storeError("count products", err)
	case <-ctx.Done():
		return products, 0, storeError("count products", ctx.Err())
	}

	return products, total, nil
}

// Update actualiza un producto
func (r *ProductRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return invalidID("product ID")
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return storeError("update product", err)
	}
	if result.MatchedCount == 0 {
		return storeError("update product", mongo.ErrNoDocuments)
	}
	return nil
}

// ratingUpdate suma una valoración a la media del producto. Las expresiones de
// un mismo $set leen el documento previo, así que la actualización es atómica.
func ratingUpdate(rating float64) mongo.Pipeline {
	count := bson.M{"$ifNull": bson.A{"$reviewsCount", 0}}
	average := bson.M{"$ifNull": bson.A{"$rating", 0}}
	next := bson.M{"$add": bson.A{count, 1}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"rating": bson.M{"$divide": bson.A{
				bson.M{"$add": bson.A{bson.M{"$multiply": bson.A{average, count}}, rating}},
				next,
			}},
			"reviewsCount": next,
		}}},
	}
}

// AddRating incorpora una review nueva a rating y reviewsCount
func (r *ProductRepository) AddRating(ctx context.Context, id primitive.ObjectID, rating float64) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, ratingUpdate(rating))
	if err != nil {
		return storeError("update product rating", err)
	}
	if result.MatchedCount == 0 {
		return storeError("update product rating", mongo.ErrNoDocuments)
	}
	return nil
}

// Delete borra el producto. Los pedidos y reviews que lo referencian quedan
// huérfanos y desaparecen de las uniones.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return invalidID("product ID")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return storeError("delete product", err)
	}
	if result.DeletedCount == 0 {
		return storeError("delete product", mongo.ErrNoDocuments)
	}
	return nil
}
