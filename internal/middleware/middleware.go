package middleware

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/logger"
	"storefront/internal/metrics"
)

const (
	RequestIDHeader = "X-Request-ID"
	// UserIDHeader lo fija el gateway de autenticación delante del servicio
	UserIDHeader = "X-User-ID"

	requestIDKey = "request_id"
	userIDKey    = "user_id"
)

// RequestID conserva el X-Request-ID recibido o genera uno nuevo
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID devuelve el request id de la petición actual
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger registra cada petición al terminar
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		reqLog := log.WithContext(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			reqLog.Error("request completed", args...)
		case status >= http.StatusBadRequest:
			reqLog.Warn("request completed", args...)
		default:
			reqLog.Info("request completed", args...)
		}
	}
}

// Metrics registra duración, contador y peticiones en curso
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.IncrementInFlight()
		defer metrics.DecrementInFlight()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPMetrics(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// Recovery captura panics, los registra con el stack y responde 500
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID := GetRequestID(c)
				log.Error("panic recovered",
					"request_id", requestID,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"error":      "internal server error",
						"request_id": requestID,
					})
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// RequireUser exige la identidad del usuario en X-User-ID
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "missing " + UserIDHeader + " header",
				"request_id": GetRequestID(c),
			})
			return
		}

		userID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":      "invalid " + UserIDHeader + " header",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID devuelve el usuario fijado por RequireUser
func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
