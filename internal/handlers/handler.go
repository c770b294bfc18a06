package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/analytics"
	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/repository"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// ValidationError representa un error de validación
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// respondError traduce los errores de dominio a códigos HTTP
func respondError(c *gin.Context, log logger.Logger, err error) {
	resp := ErrorResponse{Error: err.Error(), RequestID: middleware.GetRequestID(c)}
	status := http.StatusInternalServerError

	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		resp.Field = validationErr.Field
	case errors.Is(err, analytics.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, analytics.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		resp.Error = "store unavailable"
	default:
		resp.Error = "internal server error"
	}

	if status >= http.StatusInternalServerError {
		log.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, resp)
}

// bindError responde 400 a un cuerpo JSON inválido
func bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:     err.Error(),
		RequestID: middleware.GetRequestID(c),
	})
}

// currentUser obtiene el usuario fijado por middleware.RequireUser
func currentUser(c *gin.Context, log logger.Logger) (primitive.ObjectID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, log, errors.New("user identity missing from context"))
		return userID, false
	}
	return userID, true
}

// getPaginationParams obtiene y valida los parámetros de paginación
func getPaginationParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))

	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	return page, pageSize
}

// fromCache lee una respuesta cacheada; un fallo del caché cuenta como miss
// cacheID normaliza un id hexadecimal; ObjectIDFromHex también acepta mayúsculas
func cacheID(raw string) string {
	if id, err := primitive.ObjectIDFromHex(raw); err == nil {
		return id.Hex()
	}
	return raw
}

func fromCache(ctx context.Context, store cache.Store, log logger.Logger, key string, target interface{}) bool {
	found, err := store.Get(ctx, key, target)
	if err != nil {
		log.WithContext(ctx).Warn("cache read failed", "key", key, "error", err)
		found = false
	}
	metrics.RecordCacheLookup(found)
	return found
}

func toCache(ctx context.Context, store cache.Store, log logger.Logger, key string, value interface{}) {
	if err := store.Set(ctx, key, value, 0); err != nil {
		log.WithContext(ctx).Warn("cache write failed", "key", key, "error", err)
	}
}

// invalidate borra claves y prefijos tras una escritura
func invalidate(ctx context.Context, store cache.Store, log logger.Logger, keys []string, prefixes ...string) {
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			log.WithContext(ctx).Warn("cache delete failed", "key", key, "error", err)
		}
	}
	for _, prefix := range prefixes {
		if err := store.DeleteByPrefix(ctx, prefix); err != nil {
			log.WithContext(ctx).Warn("cache delete failed", "prefix", prefix, "error", err)
		}
	}
}
