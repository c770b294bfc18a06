package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
)

// authorLookup resuelve una referencia de usuario a {_id, username} en el campo as.
// Si el usuario no existe el campo queda ausente.
func authorLookup(localField, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   localField,
			"foreignField": "_id",
			"pipeline":     bson.A{bson.M{"$project": bson.M{"username": 1}}},
			"as":           as,
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$" + as, "preserveNullAndEmptyArrays": true}}},
	}
}

type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(collection *mongo.Collection) *PostRepository {
	return &PostRepository{collection: collection}
}

// Create crea un post del autor indicado
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, post)
	return storeError("insert post", err)
}

// FindAll lista los posts con el autor resuelto, más recientes primero
func (r *PostRepository) FindAll(ctx context.Context) ([]models.PostView, error) {
	return r.aggregate(ctx, bson.M{})
}

// FindByID obtiene un post con su autor
func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.PostView, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, invalidID("post ID")
	}

	posts, err := r.aggregate(ctx, bson.M{"_id": objID})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, storeError("find post", mongo.ErrNoDocuments)
	}
	return &posts[0], nil
}

// Update modifica el post sólo si pertenece al autor
func (r *PostRepository) Update(ctx context.Context, id string, author primitive.ObjectID, input models.PostInput) (*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, invalidID("post ID")
	}

	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID, "author": author},
		bson.M{"$set": bson.M{"title": input.Title, "content": input.Content, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		return nil, storeError("update post", err)
	}
	return &post, nil
}

// Delete borra el post sólo si pertenece al autor
func (r *PostRepository) Delete(ctx context.Context, id string, author primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return invalidID("post ID")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "author": author})
	if err != nil {
		return storeError("delete post", err)
	}
	if result.DeletedCount == 0 {
		return storeError("delete post", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *PostRepository) aggregate(ctx context.Context, match bson.M) ([]models.PostView, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	pipeline = append(pipeline, authorLookup("author", "authorInfo")...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeError("aggregate posts", err)
	}
	defer cursor.Close(ctx)

	posts := make([]models.PostView, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, storeError("decode posts", err)
	}
	return posts, nil
}
