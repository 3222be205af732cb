package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smartpersona/backend/internal/config"
)

func TestMetrics_SnapshotIsACopy(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/authentication/login", "POST", 200, time.Millisecond)
	m.RecordError("/authentication/login", "POST", "TOO_MANY_REQUESTS")
	m.RecordAuth("login_succeeded", "user")
	m.RecordAuth("login_succeeded", "user")

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.Requests["/authentication/login|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/authentication/login|POST|TOO_MANY_REQUESTS"])
	assert.Equal(t, int64(2), snap.Auth["login_succeeded|user"])

	snap.Auth["login_succeeded|user"] = 99
	assert.Equal(t, int64(2), m.Snapshot().Auth["login_succeeded|user"])
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordAuth("x", "")
	assert.Empty(t, m.Snapshot().Auth)
}

func TestNewLogger_UnknownLevelFallsBack(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, int64(fiber.StatusNoContent), fields["status"])
	assert.Equal(t, int64(1), metrics.Snapshot().Requests["/ping|GET|204"])
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), nil))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}
