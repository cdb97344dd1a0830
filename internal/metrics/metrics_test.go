package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, path string, h echo.HandlerFunc) error {
	t.Helper()
	e := echo.New()
	var returned error
	e.GET(path, h, func(next echo.HandlerFunc) echo.HandlerFunc {
		mw := Middleware()(next)
		return func(c echo.Context) error {
			returned = mw(c)
			return returned
		}
	})
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	return returned
}

func TestMiddleware_PassesErrorsThrough(t *testing.T) {
	cause := errors.New("dangling reference")
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/boom", "500"))

	err := serve(t, "/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom").SetInternal(cause)
	})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/boom", "500")))
}

func TestMiddleware_StatusFromError(t *testing.T) {
	before403 := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/forbidden", "403"))
	_ = serve(t, "/forbidden", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "no")
	})
	assert.Equal(t, before403+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/forbidden", "403")))

	beforePlain := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/plain", "500"))
	_ = serve(t, "/plain", func(c echo.Context) error {
		return errors.New("plain")
	})
	assert.Equal(t, beforePlain+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/plain", "500")))

	beforeOK := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ok", "200"))
	_ = serve(t, "/ok", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, beforeOK+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ok", "200")))
}
