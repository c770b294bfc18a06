package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/models"
)

const productListPrefix = "products:list:"

// sortFields son los campos por los que se puede ordenar el listado
var sortFields = map[string]string{
	"name":         "name",
	"createdAt":    "createdAt",
	"created_at":   "createdAt",
	"rating":       "rating",
	"reviewsCount": "reviewsCount",
}

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindAll(ctx context.Context, page, pageSize int, category, sortBy, sortOrder string) ([]models.Product, int64, error)
	Update(ctx context.Context, id string, update bson.M) error
	AddRating(ctx context.Context, id primitive.ObjectID, rating float64) error
	Delete(ctx context.Context, id string) error
}

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
}

type ProductListResponse struct {
	Data       []models.Product `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int64            `json:"total_pages"`
}

// ReviewInput es el cuerpo de una nueva review
type ReviewInput struct {
	Rating  float64 `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string  `json:"comment"`
}

type ProductHandler struct {
	products ProductStore
	reviews  ReviewStore
	cache    cache.Store
	log      logger.Logger
}

func NewProductHandler(products ProductStore, reviews ReviewStore, store cache.Store, log logger.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		reviews:  reviews,
		cache:    store,
		log:      log,
	}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", cacheID(id))
}

// CreateProduct crea un nuevo producto
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.products.Create(ctx, &product); err != nil {
		respondError(c, h.log, err)
		return
	}

	// Invalidar caché de listados
	invalidate(ctx, h.cache, h.log, nil, productListPrefix)

	c.JSON(http.StatusCreated, product)
}

// GetProduct obtiene un producto por ID (con caché)
func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()
	productID := c.Param("id")
	cacheKey := productKey(productID)

	var cached models.Product
	if fromCache(ctx, h.cache, h.log, cacheKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := h.products.FindByID(ctx, productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	toCache(ctx, h.cache, h.log, cacheKey, product)
	c.JSON(http.StatusOK, product)
}

// ListProducts lista productos con paginación y filtros (con caché)
func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := getPaginationParams(c)
	category := c.Query("category")
	sortOrder := c.DefaultQuery("sort_order", "desc")

	sortBy, ok := sortFields[c.DefaultQuery("sort_by", "createdAt")]
	if !ok {
		respondError(c, h.log, &ValidationError{Field: "sort_by", Message: "unsupported sort field"})
		return
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		respondError(c, h.log, &ValidationError{Field: "sort_order", Message: "sort_order must be asc or desc"})
		return
	}

	cacheKey := fmt.Sprintf("%sp%d_s%d_cat:%s_sort:%s_%s", productListPrefix, page, pageSize, category, sortBy, sortOrder)

	var cached ProductListResponse
	if fromCache(ctx, h.cache, h.log, cacheKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, total, err := h.products.FindAll(ctx, page, pageSize, category, sortBy, sortOrder)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response := ProductListResponse{
		Data:       products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}

	toCache(ctx, h.cache, h.log, cacheKey, response)
	c.JSON(http.StatusOK, response)
}

// UpdateProduct actualiza parcialmente un producto
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")
	var update models.ProductUpdate

	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}

	updateMap := bson.M{}
	if update.Name != nil {
		if *update.Name == "" {
			respondError(c, h.log, &ValidationError{Field: "name", Message: "name cannot be empty"})
			return
		}
		updateMap["name"] = *update.Name
	}
	if update.Description != nil {
		updateMap["description"] = *update.Description
	}
	if update.Category != nil {
		updateMap["category"] = *update.Category
	}
	if update.Variants != nil {
		updateMap["variants"] = update.Variants
	}
	if update.Images != nil {
		updateMap["images"] = update.Images
	}

	if len(updateMap) == 0 {
		respondError(c, h.log, &ValidationError{Message: "no valid fields to update"})
		return
	}

	ctx := c.Request.Context()
	if err := h.products.Update(ctx, productID, updateMap); err != nil {
		respondError(c, h.log, err)
		return
	}

	invalidate(ctx, h.cache, h.log, []string{productKey(productID)}, productListPrefix)

	c.JSON(http.StatusOK, SuccessResponse{Message: "product updated"})
}

// DeleteProduct borra el producto; sus pedidos y reviews dejan de resolverlo
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	productID := c.Param("id")

	if err := h.products.Delete(ctx, productID); err != nil {
		respondError(c, h.log, err)
		return
	}

	invalidate(ctx, h.cache, h.log, []string{productKey(productID)}, productListPrefix)

	c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted"})
}

// CreateReview guarda la review y la suma a rating y reviewsCount del producto
func (h *ProductHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	productID := c.Param("id")
	product, err := h.products.FindByID(ctx, productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	review := models.Review{
		Product: product.ID,
		User:    userID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := h.reviews.Create(ctx, &review); err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.products.AddRating(ctx, product.ID, review.Rating); err != nil {
		respondError(c, h.log, err)
		return
	}

	invalidate(ctx, h.cache, h.log, []string{productKey(productID)}, productListPrefix)

	c.JSON(http.StatusCreated, review)
}

// ListReviews lista las reviews de un producto, más recientes primero
func (h *ProductHandler) ListReviews(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.log, &ValidationError{Field: "id", Message: "invalid product ID"})
		return
	}

	reviews, err := h.reviews.FindByProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func totalPages(total int64, pageSize int) int64 {
	if pageSize == 0 {
		return 1
	}
	tp := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		tp++
	}
	return tp
}
