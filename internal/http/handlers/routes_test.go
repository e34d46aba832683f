package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectRouteWithStops(mock sqlmock.Sqlmock, direction string, stops ...string) {
	mock.ExpectQuery("SELECT id, route_number").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "route_number", "start_location", "end_location",
			"distance_km", "estimated_minutes", "fare", "direction",
		}).AddRow(7, "EX-01", "Colombo", "Kandy", 115.5, 180, 895, direction))
	stopRows := sqlmock.NewRows([]string{"stop_name"})
	for _, s := range stops {
		stopRows.AddRow(s)
	}
	mock.ExpectQuery("SELECT stop_name FROM route_stops").WillReturnRows(stopRows)
}

func TestGetDropoffOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := setupTestDB(t)
	expectRouteWithStops(mock, "outbound", "Colombo", "Warakapola", "Kegalle", "Kandy")

	r := gin.New()
	r.GET("/api/routes/:id/dropoffs", GetDropoffOptions)
	w := performRequest(r, http.MethodGet, "/api/routes/7/dropoffs?boarding=Warakapola")

	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Boarding string   `json:"boarding"`
		Dropoffs []string `json:"dropoffs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, []string{"Kegalle", "Kandy"}, out.Dropoffs)
}

func TestGetDropoffOptionsUnknownBoarding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := setupTestDB(t)
	expectRouteWithStops(mock, "outbound", "Colombo", "Warakapola", "Kegalle", "Kandy")

	r := gin.New()
	r.GET("/api/routes/:id/dropoffs", GetDropoffOptions)
	w := performRequest(r, http.MethodGet, "/api/routes/7/dropoffs?boarding=Galle")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
