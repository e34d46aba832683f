package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	intconfig "mahindaexpress/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	prev := intconfig.DB
	intconfig.DB = db
	t.Cleanup(func() {
		intconfig.DB = prev
		db.Close()
	})
	return mock
}

func performRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetBudgetSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := setupTestDB(t)

	mock.ExpectQuery("SELECT id, category, period").
		WithArgs("2026-08").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "period", "target_amount", "actual_amount"}).
			AddRow(1, "Fuel", "2026-08", 100000, 110000).
			AddRow(2, "Parts", "2026-08", 100000, 80000).
			AddRow(3, "Salaries", "2026-08", 500000, 200000))

	r := gin.New()
	r.GET("/api/budgets/summary", GetBudgetSummary)
	w := performRequest(r, http.MethodGet, "/api/budgets/summary?period=2026-08")

	require.Equal(t, http.StatusOK, w.Code)

	var out []struct {
		Category     string  `json:"category"`
		UsagePercent float64 `json:"usagePercent"`
		Band         string  `json:"band"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 3)

	assert.Equal(t, "BREACHED", out[0].Band)
	assert.InDelta(t, 110.0, out[0].UsagePercent, 0.01)
	assert.Equal(t, "WARNING", out[1].Band)
	assert.Equal(t, "OK", out[2].Band)

	assert.NoError(t, mock.ExpectationsWereMet())
}
