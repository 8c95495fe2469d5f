package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(requestid.New())
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/ok", func(c *gin.Context) {
		body, _ := c.GetRawData()
		c.String(http.StatusOK, string(body))
	})
	return r
}

func do(r http.Handler, method, path, body, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// 不同客戶端各自計算
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, time.Millisecond)
	rl.Allow("10.0.0.1")
	require.Len(t, rl.limiters, 1)

	time.Sleep(20 * time.Millisecond)
	rl.Cleanup()
	assert.Empty(t, rl.limiters)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimit(2, time.Minute))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "", "192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "", "192.0.2.1").Code)

	w := do(r, http.MethodGet, "/ok", "", "192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "", "192.0.2.2").Code)
}

func TestDeduplicator(t *testing.T) {
	d := NewDeduplicator(time.Second)
	now := time.Now()

	assert.False(t, d.Seen("fp", now))
	assert.True(t, d.Seen("fp", now.Add(500*time.Millisecond)))
	assert.False(t, d.Seen("fp", now.Add(3*time.Second)))
	assert.False(t, d.Seen("other", now))

	d.Cleanup(now.Add(time.Minute))
	assert.Empty(t, d.requests)
}

func TestDeduplicationMiddleware(t *testing.T) {
	r := newEngine(Deduplication(time.Minute))

	w := do(r, http.MethodPost, "/ok", `{"ingredients":"eggs"}`, "192.0.2.1")
	require.Equal(t, http.StatusOK, w.Code)
	// 請求體仍可被處理器讀取
	assert.Equal(t, `{"ingredients":"eggs"}`, w.Body.String())

	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/ok", `{"ingredients":"eggs"}`, "192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ok", `{"ingredients":"rice"}`, "192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ok", `{"ingredients":"eggs"}`, "192.0.2.2").Code)

	// GET 不去重
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "", "192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "", "192.0.2.1").Code)
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(8))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ok", "small", "192.0.2.1").Code)

	w := do(r, http.MethodPost, "/ok", "this body is too large", "192.0.2.1")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := do(r, http.MethodGet, "/slow", "", "192.0.2.1")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "GATEWAY_TIMEOUT")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/fast", "", "192.0.2.1").Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/panic", "", "192.0.2.1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
