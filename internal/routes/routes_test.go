package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(origins ...string) *gin.Engine {
	return newEngineWithLogger(logger.NewNop(), origins...)
}

func newEngineWithLogger(log logger.Logger, origins ...string) *gin.Engine {
	return Setup(Handlers{
		Products:   handlers.NewProductHandler(nil, nil, nil, log),
		Categories: handlers.NewCategoryHandler(nil, log),
		Orders:     handlers.NewOrderHandler(nil, log),
		Posts:      handlers.NewPostHandler(nil, nil, nil, log),
		Analytics:  handlers.NewAnalyticsHandler(nil, log),
		Health:     handlers.NewHealthHandler(nil),
	}, log, Options{AllowedOrigins: origins})
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetup_HealthAndMetrics(t *testing.T) {
	r := newTestEngine()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestSetup_PanicIsLoggedAndCounted(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newEngineWithLogger(logger.FromZap(zap.New(core)))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	completed := logs.FilterMessage("request completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), completed[0].ContextMap()["status"])

	w = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/boom",status="500"} 1`)
}

func TestSetup_NoRoute(t *testing.T) {
	w := serve(newTestEngine(), httptest.NewRequest(http.MethodGet, "/api/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "endpoint not found")
}

func TestSetup_AuthorScopedWritesRequireUser(t *testing.T) {
	r := newTestEngine()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/orders"},
		{http.MethodPost, "/api/posts"},
		{http.MethodPut, "/api/posts/65f000000000000000000001"},
		{http.MethodDelete, "/api/posts/65f000000000000000000001"},
		{http.MethodPost, "/api/posts/65f000000000000000000001/comments"},
		{http.MethodDelete, "/api/posts/65f000000000000000000001/comments/65f000000000000000000002"},
		{http.MethodPost, "/api/products/65f000000000000000000001/reviews"},
	} {
		w := serve(r, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method+" "+tc.path)
	}
}

func TestSetup_CORS(t *testing.T) {
	r := newTestEngine("https://shop.example")

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := serve(r, req)
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsConfig_Wildcard(t *testing.T) {
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.False(t, corsConfig([]string{"https://a.example"}).AllowAllOrigins)
}
