package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author es la proyección pública del usuario en posts y comentarios
type Author struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
}

type Post struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Author    primitive.ObjectID `json:"author" bson:"author"`
	Title     string             `json:"title" bson:"title" binding:"required"`
	Content   string             `json:"content" bson:"content" binding:"required"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PostView es un post con el autor resuelto (nil si el usuario ya no existe)
type PostView struct {
	Post       `bson:",inline"`
	AuthorInfo *Author `json:"authorInfo" bson:"authorInfo,omitempty"`
}

// PostInput son los campos editables de un post
type PostInput struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Post      primitive.ObjectID `json:"post" bson:"post"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Content   string             `json:"content" bson:"content" binding:"required"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CommentView es un comentario con el usuario resuelto
type CommentView struct {
	Comment  `bson:",inline"`
	UserInfo *Author `json:"userInfo" bson:"userInfo,omitempty"`
}
