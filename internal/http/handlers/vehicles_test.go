package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateVehicleRejectsBadPlate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := setupTestDB(t)

	r := gin.New()
	r.POST("/api/vehicles", CreateVehicle)

	for _, plate := range []string{"NB1234", "NB-12", "1234-NB", "NB-12345"} {
		w := performJSON(r, http.MethodPost, "/api/vehicles",
			`{"vehicleCode":"BUS-01","plateNumber":"`+plate+`"}`)
		assert.Equalf(t, http.StatusBadRequest, w.Code, "plate %q must be rejected", plate)
	}

	// Nothing reached the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVehicleAcceptsValidPlate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := setupTestDB(t)

	mock.ExpectExec("INSERT INTO vehicles").
		WillReturnResult(sqlmock.NewResult(3, 1))

	r := gin.New()
	r.POST("/api/vehicles", CreateVehicle)
	w := performJSON(r, http.MethodPost, "/api/vehicles",
		`{"vehicleCode":"BUS-01","plateNumber":"nb-1234","model":"Ashok Leyland Viking"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
