package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/repository"
)

const postListKey = "posts:list"

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	FindAll(ctx context.Context) ([]models.PostView, error)
	FindByID(ctx context.Context, id string) (*models.PostView, error)
	Update(ctx context.Context, id string, author primitive.ObjectID, input models.PostInput) (*models.Post, error)
	Delete(ctx context.Context, id string, author primitive.ObjectID) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByPost(ctx context.Context, postID string) ([]models.CommentView, error)
	Update(ctx context.Context, postID, commentID string, user primitive.ObjectID, content string) (*models.Comment, error)
	Delete(ctx context.Context, postID, commentID string, user primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

type CommentInput struct {
	Content string `json:"content" binding:"required"`
}

// PostHandler gestiona posts y sus comentarios. Editar o borrar sólo lo
// puede hacer el autor; si no lo es la respuesta es 404.
type PostHandler struct {
	posts    PostStore
	comments CommentStore
	cache    cache.Store
	log      logger.Logger
}

func NewPostHandler(posts PostStore, comments CommentStore, store cache.Store, log logger.Logger) *PostHandler {
	return &PostHandler{
		posts:    posts,
		comments: comments,
		cache:    store,
		log:      log,
	}
}

func postKey(id string) string {
	return fmt.Sprintf("post:%s", cacheID(id))
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var input models.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	post := models.Post{Author: userID, Title: input.Title, Content: input.Content}
	if err := h.posts.Create(ctx, &post); err != nil {
		respondError(c, h.log, err)
		return
	}

	invalidate(ctx, h.cache, h.log, []string{postListKey})

	c.JSON(http.StatusCreated, post)
}

// ListPosts lista los posts con el autor resuelto (con caché)
func (h *PostHandler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []models.PostView
	if fromCache(ctx, h.cache, h.log, postListKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	posts, err := h.posts.FindAll(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	toCache(ctx, h.cache, h.log, postListKey, posts)
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("postId")

	var cached models.PostView
	if fromCache(ctx, h.cache, h.log, postKey(postID), &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	post, err := h.posts.FindByID(ctx, postID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	toCache(ctx, h.cache, h.log, postKey(postID), post)
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var input models.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	postID := c.Param("postId")
	post, err := h.posts.Update(ctx, postID, userID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	invalidate(ctx, h.cache, h.log, []string{postKey(postID), postListKey})

	c.JSON(http.StatusOK, post)
}

// DeletePost borra los comentarios y después el post, así un fallo a mitad
// deja el post en pie y el borrado se puede repetir
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	postID := c.Param("postId")
	post, err := h.posts.FindByID(ctx, postID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if post.Author != userID {
		respondError(c, h.log, fmt.Errorf("delete post: %w", repository.ErrNotFound))
		return
	}

	removed, err := h.comments.DeleteByPost(ctx, postID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.posts.Delete(ctx, postID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	invalidate(ctx, h.cache, h.log, []string{postKey(postID), postListKey})

	h.log.Info("post deleted", "post_id", post.ID.Hex(), "comments", removed)
	c.JSON(http.StatusOK, SuccessResponse{Message: "post deleted"})
}

// CreateComment comenta un post existente
func (h *PostHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	post, err := h.posts.FindByID(ctx, c.Param("postId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	comment := models.Comment{Post: post.ID, User: userID, Content: input.Content}
	if err := h.comments.Create(ctx, &comment); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *PostHandler) ListComments(c *gin.Context) {
	comments, err := h.comments.FindByPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *PostHandler) UpdateComment(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), c.Param("postId"), c.Param("commentId"), userID, input.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), c.Param("postId"), c.Param("commentId"), userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "comment deleted"})
}
