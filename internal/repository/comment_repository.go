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

type CommentRepository struct {
	collection *mongo.Collection
}

func NewCommentRepository(collection *mongo.Collection) *CommentRepository {
	return &CommentRepository{collection: collection}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, comment)
	return storeError("insert comment", err)
}

// FindByPost lista los comentarios del post en orden cronológico con el usuario resuelto
func (r *CommentRepository) FindByPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, invalidID("post ID")
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"post": objID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
	}
	pipeline = append(pipeline, authorLookup("user", "userInfo")...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeError("aggregate comments", err)
	}
	defer cursor.Close(ctx)

	comments := make([]models.CommentView, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, storeError("decode comments", err)
	}
	return comments, nil
}

// Update modifica el comentario sólo si pertenece al usuario
func (r *CommentRepository) Update(ctx context.Context, postID, commentID string, user primitive.ObjectID, content string) (*models.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter, err := commentFilter(postID, commentID, user)
	if err != nil {
		return nil, err
	}

	var comment models.Comment
	err = r.collection.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if err != nil {
		return nil, storeError("update comment", err)
	}
	return &comment, nil
}

// Delete borra el comentario sólo si pertenece al usuario
func (r *CommentRepository) Delete(ctx context.Context, postID, commentID string, user primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter, err := commentFilter(postID, commentID, user)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return storeError("delete comment", err)
	}
	if result.DeletedCount == 0 {
		return storeError("delete comment", mongo.ErrNoDocuments)
	}
	return nil
}

// DeleteByPost borra los comentarios de un post eliminado
func (r *CommentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return 0, invalidID("post ID")
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{"post": objID})
	if err != nil {
		return 0, storeError("delete comments", err)
	}
	return result.DeletedCount, nil
}

func commentFilter(postID, commentID string, user primitive.ObjectID) (bson.M, error) {
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, invalidID("post ID")
	}
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, invalidID("comment ID")
	}
	return bson.M{"_id": commentObjID, "post": postObjID, "user": user}, nil
}
