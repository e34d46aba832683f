package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/services"
	"mahindaexpress/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type budgetPayload struct {
	Category     string `json:"category" binding:"required"`
	Period       string `json:"period" binding:"required"`
	TargetAmount int64  `json:"targetAmount"`
	ActualAmount int64  `json:"actualAmount"`
}

func listBudgets(period string) ([]models.Budget, error) {
	query := "SELECT id, category, period, target_amount, actual_amount FROM budgets"
	args := []any{}
	if period != "" {
		query += " WHERE period = ?"
		args = append(args, period)
	}
	query += " ORDER BY period DESC, category ASC"

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Period, &b.TargetAmount, &b.ActualAmount); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// GET /api/budgets?period=2026-08 (admin)
func GetBudgets(c *gin.Context) {
	list, err := listBudgets(strings.TrimSpace(c.Query("period")))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list budgets", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/budgets/summary?period=2026-08 (admin)
//
// Decorates each budget with usage percentage and its 70/90/100 band.
func GetBudgetSummary(c *gin.Context) {
	list, err := listBudgets(strings.TrimSpace(c.Query("period")))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list budgets", err)
		return
	}
	c.JSON(http.StatusOK, services.BudgetService{}.Summarize(list))
}

// POST /api/budgets (admin)
func CreateBudget(c *gin.Context) {
	var payload budgetPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if _, err := utils.ParseMonth(payload.Period); err != nil {
		RespondError(c, http.StatusBadRequest, "period must be YYYY-MM", nil)
		return
	}
	if payload.TargetAmount < 0 || payload.ActualAmount < 0 {
		RespondError(c, http.StatusBadRequest, "amounts must not be negative", nil)
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO budgets (category, period, target_amount, actual_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())
	`, strings.TrimSpace(payload.Category), payload.Period, payload.TargetAmount, payload.ActualAmount)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "a budget for this category and period already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to save budget", err)
		return
	}
	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "budget created", "id": id})
}

// PUT /api/budgets/:id (admin)
func UpdateBudget(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid budget id", err)
		return
	}
	var payload budgetPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if _, err := utils.ParseMonth(payload.Period); err != nil {
		RespondError(c, http.StatusBadRequest, "period must be YYYY-MM", nil)
		return
	}
	if payload.TargetAmount < 0 || payload.ActualAmount < 0 {
		RespondError(c, http.StatusBadRequest, "amounts must not be negative", nil)
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE budgets
		SET category=?, period=?, target_amount=?, actual_amount=?, updated_at=NOW()
		WHERE id=?
	`, strings.TrimSpace(payload.Category), payload.Period, payload.TargetAmount, payload.ActualAmount, id)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "a budget for this category and period already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to update budget", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if intconfig.DB.QueryRow("SELECT COUNT(*) FROM budgets WHERE id=?", id).Scan(&exists) == nil && exists == 0 {
			RespondError(c, http.StatusNotFound, "budget not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "budget updated"})
}

// DELETE /api/budgets/:id (admin)
func DeleteBudget(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid budget id", err)
		return
	}
	res, err := intconfig.DB.Exec("DELETE FROM budgets WHERE id=?", id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete budget", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		RespondError(c, http.StatusNotFound, "budget not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "budget deleted"})
}
