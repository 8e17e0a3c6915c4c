package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterNilIsPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var limiter *RateLimiter
	r.GET("/", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var got string
	r.GET("/", func(c *gin.Context) {
		got = clientIP(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", got)
}

func TestRateLimiterKeyBuckets(t *testing.T) {
	rl := NewRateLimiter(nil, 10, time.Minute)

	k1 := rl.key("203.0.113.7")
	k2 := rl.key("203.0.113.7")
	k3 := rl.key("203.0.113.8")

	// Same IP in the same window shares a counter; another IP does not.
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}
