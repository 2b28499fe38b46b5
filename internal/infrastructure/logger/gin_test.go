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

func setupGinTest() (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	engine := gin.New()
	engine.Use(GinMiddleware(zap.New(core)))
	return engine, logs
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	engine, logs := setupGinTest()
	engine.GET("/claims", func(c *gin.Context) {
		c.Set(ginUserIDKey, "seller-1")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/claims?limit=5", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "HTTP Request", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/claims", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "limit=5", fields["query"])
	assert.Equal(t, "seller-1", fields["user_id"])
}

func TestGinMiddleware_ServerErrorLogsAtError(t *testing.T) {
	engine, logs := setupGinTest()
	engine.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestGinMiddleware_ClientErrorLogsAtWarn(t *testing.T) {
	engine, logs := setupGinTest()
	engine.GET("/bad", func(c *gin.Context) {
		c.Status(http.StatusUnprocessableEntity)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestGinMiddleware_AttachesRequestLogger(t *testing.T) {
	engine, _ := setupGinTest()

	var handlerLog *zap.Logger
	engine.GET("/attached", func(c *gin.Context) {
		handlerLog = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attached", nil))

	require.NotNil(t, handlerLog)
	assert.True(t, handlerLog.Core().Enabled(zapcore.DebugLevel), "expected the observed logger, not a nop")
}

func TestGetGinLogger_OutsideMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	log := GetGinLogger(c)
	require.NotNil(t, log)
}

func TestRecovery_PanicReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	engine := gin.New()
	engine.Use(Recovery(zap.New(core)))
	engine.GET("/panic", func(c *gin.Context) {
		panic("claim store unavailable")
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Panic recovered", entry.Message)
	assert.Equal(t, "claim store unavailable", entry.ContextMap()["error"])
}
