package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSecurityConfig(t *testing.T) {
	config := DefaultSecurityConfig()

	assert.Equal(t, int64(4096), config.MaxBodyBytes)
	assert.True(t, config.EnableCORS)
	assert.Contains(t, config.AllowedOrigins, "http://localhost:3000")
	assert.Contains(t, config.AllowedOrigins, "http://localhost:5173")
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
}

func newSecurityRouter(t *testing.T, register func(*SecurityMiddleware, *gin.Engine)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sm := NewSecurityMiddleware(DefaultSecurityConfig())
	r := gin.New()
	register(sm, r)
	return r
}

func TestSecurityHeaders(t *testing.T) {
	r := newSecurityRouter(t, func(sm *SecurityMiddleware, r *gin.Engine) {
		r.Use(sm.SecurityHeaders)
		r.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))

	// No TLS on the test request, so no HSTS header.
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestValidateContentType(t *testing.T) {
	r := newSecurityRouter(t, func(sm *SecurityMiddleware, r *gin.Engine) {
		r.Use(sm.ValidateContentType)
		r.POST("/analyze", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	})

	tests := []struct {
		name        string
		contentType string
		wantStatus  int
	}{
		{"json accepted", "application/json", http.StatusOK},
		{"json with charset accepted", "application/json; charset=utf-8", http.StatusOK},
		{"form accepted", "application/x-www-form-urlencoded", http.StatusOK},
		{"missing content type passes", "", http.StatusOK},
		{"xml rejected", "application/xml", http.StatusUnsupportedMediaType},
		{"plain text rejected", "text/plain", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/analyze", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestLimitBodySize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sm := NewSecurityMiddleware(SecurityConfig{MaxBodyBytes: 16})
	r := gin.New()
	r.Use(sm.LimitBodySize)
	r.POST("/analyze", func(c *gin.Context) {
		var payload map[string]interface{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "body too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	small := httptest.NewRecorder()
	r.ServeHTTP(small, httptest.NewRequest("POST", "/analyze", strings.NewReader(`{"a":1}`)))
	require.Equal(t, http.StatusOK, small.Code)

	big := httptest.NewRecorder()
	r.ServeHTTP(big, httptest.NewRequest("POST", "/analyze", strings.NewReader(`{"padding":"`+strings.Repeat("x", 64)+`"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, big.Code)
}

func TestRequestTimeout(t *testing.T) {
	r := newSecurityRouter(t, func(sm *SecurityMiddleware, r *gin.Engine) {
		r.Use(sm.RequestTimeout)
		r.GET("/health", func(c *gin.Context) {
			_, hasDeadline := c.Request.Context().Deadline()
			assert.True(t, hasDeadline)
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30", w.Header().Get("X-Timeout"))
}
