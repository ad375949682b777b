package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mee-advisor/mee-assistant-go/internal/config"
	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
	"github.com/mee-advisor/mee-assistant-go/internal/rag"
)

func stubEmbedding(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func testRouter(t *testing.T, cfg *config.Config, initialized bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.New("error")

	vectorDB, err := rag.NewVectorDB("", stubEmbedding, log)
	require.NoError(t, err)

	bm25Index := rag.NewBM25Index(log)
	if initialized {
		docs := []corpus.Document{{
			Content:  "MDPS372 Control Systems",
			Metadata: map[string]string{corpus.MetaCategory: string(corpus.CategoryCourses)},
		}}
		require.NoError(t, vectorDB.Initialize(context.Background(), "routes_test", docs))
		require.NoError(t, bm25Index.Initialize(docs))
	}

	router := gin.New()
	router.Use(securityHeadersMiddleware())
	setupRoutes(router, cfg, prometheus.NewRegistry(), vectorDB, bm25Index)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthzAlwaysOK(t *testing.T) {
	router := testRouter(t, &config.Config{}, false)

	w := get(router, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestReadyReflectsIndices(t *testing.T) {
	t.Run("empty indices are not ready", func(t *testing.T) {
		router := testRouter(t, &config.Config{}, false)
		w := get(router, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("populated indices are ready", func(t *testing.T) {
		router := testRouter(t, &config.Config{}, true)
		w := get(router, "/ready")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ready"`)
	})
}

func TestMetricsBasicAuth(t *testing.T) {
	cfg := &config.Config{MetricsUsername: "prometheus", MetricsPassword: "secret"}
	router := testRouter(t, cfg, false)

	t.Run("no credentials rejected", func(t *testing.T) {
		w := get(router, "/metrics")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid credentials accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("prometheus", "secret")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("prometheus", "wrong")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMetricsWithoutPasswordIsOpen(t *testing.T) {
	router := testRouter(t, &config.Config{}, false)
	w := get(router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	router := testRouter(t, &config.Config{}, false)
	w := get(router, "/healthz")

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
