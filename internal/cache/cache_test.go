package cache

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrofauna/totemeter/internal/monitoring"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("key", []byte("payload"))

	data, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("payload"), data)

	assert.Equal(t, 1, c.Size())
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)
	c.Set("key", []byte("payload"))

	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Delete("a")
	_, found := c.Get("a")
	assert.False(t, found)
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 1, stats["active_items"])
	assert.InDelta(t, 60.0, stats["ttl_seconds"], 1e-9)
}

func TestMiddlewareCachesAnalyzeResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()

	handlerCalls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.POST("/analyze", func(ctx *gin.Context) {
		handlerCalls++
		ctx.JSON(http.StatusOK, gin.H{"top": "Owl"})
	})

	body := `{"date":"1998-03-24","time":"14:25","lat":48.85,"lon":2.35}`

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest("POST", "/analyze", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest("POST", "/analyze", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 1, handlerCalls)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// A different body misses the cache.
	third := httptest.NewRecorder()
	r.ServeHTTP(third, httptest.NewRequest("POST", "/analyze", strings.NewReader(`{"date":"2001-01-01","time":"00:00","lat":0,"lon":0}`)))
	assert.Equal(t, 2, handlerCalls)
}

func TestMiddlewareSkipsOtherRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()

	handlerCalls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.GET("/animals", func(ctx *gin.Context) {
		handlerCalls++
		ctx.JSON(http.StatusOK, gin.H{"count": 3})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/animals", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, handlerCalls)
	assert.Equal(t, 0, c.Size())
}

func TestMiddlewareDoesNotCacheErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()

	handlerCalls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.POST("/analyze", func(ctx *gin.Context) {
		handlerCalls++
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})

	body := `{"date":"bogus"}`
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/analyze", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, w.Code)
	}

	assert.Equal(t, 2, handlerCalls)
}
