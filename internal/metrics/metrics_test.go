package metrics

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/stretchr/testify/assert"
)

func TestEchoMiddlewareRecordsFinalStatus(t *testing.T) {
    e := echo.New()
    e.Use(EchoMiddleware())
    e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot, "short and stout") })
    e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

    before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "418"))
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
    assert.Equal(t, http.StatusTeapot, rec.Code)
    assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "418")))

    before = testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ok", "204"))
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
    assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ok", "204")))
}

func TestAuthCounter(t *testing.T) {
    before := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues("login", "failure"))
    Auth("login", "failure")
    assert.Equal(t, before+1, testutil.ToFloat64(AuthOperationsTotal.WithLabelValues("login", "failure")))
}
