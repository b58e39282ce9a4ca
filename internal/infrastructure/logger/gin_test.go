package logger

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
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func ginRouter(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(log))
	return r
}

func TestGinMiddleware_LogsCompletedRequest(t *testing.T) {
	log, logs := newObservedLogger()
	r := ginRouter(log)
	r.GET("/shops", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shops", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "request completed", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/shops", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

func TestGinMiddleware_ClientErrorLogsWarn(t *testing.T) {
	log, logs := newObservedLogger()
	r := ginRouter(log)
	r.GET("/shops/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shops/9", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestGinMiddleware_ServerErrorLogsError(t *testing.T) {
	log, logs := newObservedLogger()
	r := ginRouter(log)
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestGinMiddleware_PropagatesRequestID(t *testing.T) {
	log, logs := newObservedLogger()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	})
	r.Use(GinMiddleware(log))

	var seenInHandler string
	r.GET("/sync", func(c *gin.Context) {
		seenInHandler = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sync", nil))

	assert.Equal(t, "req-42", seenInHandler)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
}

func TestGinMiddleware_RecordsQueryString(t *testing.T) {
	log, logs := newObservedLogger()
	r := ginRouter(log)
	r.GET("/shops", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shops?region=sg", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "region=sg", logs.All()[0].ContextMap()["query"])
}

func TestRecovery(t *testing.T) {
	log, logs := newObservedLogger()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("token cache corrupted") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "panic recovered", entry.Message)
	assert.Equal(t, "token cache corrupted", entry.ContextMap()["panic"])
}
