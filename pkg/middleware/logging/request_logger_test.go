package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/qr_cart/pkg/logging"
)

func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))
	e.GET("/boom", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside handler")
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inside, done map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inside))
	require.NoError(t, json.Unmarshal(lines[1], &done))

	assert.Equal(t, "inside handler", inside["msg"])
	assert.Equal(t, "rid-1", inside["request_id"])
	assert.Equal(t, "/boom", inside["route"])

	assert.Equal(t, "request completed", done["msg"])
	assert.Equal(t, "ERROR", done["level"])
	assert.EqualValues(t, http.StatusNotFound, done["status"])
}
