package Controllers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/internal/apptest"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/services"
)

func TestAnalyticsAccess(t *testing.T) {
	app := apptest.New(t)
	app.CreateCustomer(t, "alice")
	order := placeCentralOrder(t, app, "alice")
	w, _ := doRequest(t, app.Router, http.MethodPatch, fmt.Sprintf("/api/orders/%d/payment-completed", order.ID), app.Token(t, "cashier"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, app.Router, http.MethodGet, "/api/analytics", app.Token(t, "cashier"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := doRequest(t, app.Router, http.MethodGet, "/api/analytics", app.Token(t, "hq"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary services.Analytics
	decode(t, env, &summary)
	assert.EqualValues(t, 1, summary.OrderCount)
	assert.EqualValues(t, 1, summary.StatusCounts[models.OrderPending])
	assert.Equal(t, 27.0, summary.Revenue)
}

func TestRevenueChartPNG(t *testing.T) {
	app := apptest.New(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/revenue.png", nil)
	req.Header.Set("Authorization", "Bearer "+app.Token(t, "manager"))
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}
