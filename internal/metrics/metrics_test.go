package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/v1/combos/:comboID", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/v1/combos/:comboID", "204"))
	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/combos/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/v1/combos/:comboID", "204"))
	assert.Equal(t, before+2, after)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/boom", "418")))
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(combosCreated)
	RecordComboCreated()
	assert.Equal(t, before+1, testutil.ToFloat64(combosCreated))

	RecordEventPublished("combo.created", errors.New("down"))
	assert.Equal(t, 1.0, testutil.ToFloat64(eventsPublished.WithLabelValues("combo.created", "error")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordSessionIssued()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "combo_api_sessions_issued_total"))
}
