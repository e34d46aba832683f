package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type partPayload struct {
	Name         string `json:"name" binding:"required"`
	PartNumber   string `json:"partNumber" binding:"required"`
	Stock        int    `json:"stock"`
	UnitPrice    int64  `json:"unitPrice"`
	ReorderLevel int    `json:"reorderLevel"`
}

const partSelect = `
	SELECT id, name, part_number, stock, unit_price, COALESCE(reorder_level, 0)
	FROM parts
`

// GET /api/parts?q=&low=1 (admin)
//
// low=1 narrows to parts at or below their reorder level.
func GetParts(c *gin.Context) {
	where := []string{}
	args := []any{}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		where = append(where, "(name LIKE ? OR part_number LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	if c.Query("low") == "1" {
		where = append(where, "stock <= COALESCE(reorder_level, 0)")
	}

	query := partSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name ASC"

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list parts", err)
		return
	}
	defer rows.Close()

	list := []models.Part{}
	for rows.Next() {
		var p models.Part
		if err := rows.Scan(&p.ID, &p.Name, &p.PartNumber, &p.Stock, &p.UnitPrice, &p.ReorderLevel); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan part", err)
			return
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		RespondError(c, http.StatusInternalServerError, "row iteration error", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/parts/:id (admin)
func GetPart(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid part id", err)
		return
	}
	var p models.Part
	err = intconfig.DB.QueryRow(partSelect+" WHERE id = ? LIMIT 1", id).
		Scan(&p.ID, &p.Name, &p.PartNumber, &p.Stock, &p.UnitPrice, &p.ReorderLevel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "part not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to fetch part", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/parts (admin)
func CreatePart(c *gin.Context) {
	var payload partPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if payload.Stock < 0 || payload.UnitPrice < 0 || payload.ReorderLevel < 0 {
		RespondError(c, http.StatusBadRequest, "stock, unitPrice and reorderLevel must not be negative", nil)
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO parts (name, part_number, stock, unit_price, reorder_level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
	`, strings.TrimSpace(payload.Name), strings.TrimSpace(payload.PartNumber),
		payload.Stock, payload.UnitPrice, payload.ReorderLevel)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "a part with this part number already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to save part", err)
		return
	}
	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "part created", "id": id})
}

// PUT /api/parts/:id (admin)
func UpdatePart(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid part id", err)
		return
	}
	var payload partPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if payload.Stock < 0 || payload.UnitPrice < 0 || payload.ReorderLevel < 0 {
		RespondError(c, http.StatusBadRequest, "stock, unitPrice and reorderLevel must not be negative", nil)
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE parts
		SET name=?, part_number=?, stock=?, unit_price=?, reorder_level=?, updated_at=NOW()
		WHERE id=?
	`, strings.TrimSpace(payload.Name), strings.TrimSpace(payload.PartNumber),
		payload.Stock, payload.UnitPrice, payload.ReorderLevel, id)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "a part with this part number already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to update part", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if intconfig.DB.QueryRow("SELECT COUNT(*) FROM parts WHERE id=?", id).Scan(&exists) == nil && exists == 0 {
			RespondError(c, http.StatusNotFound, "part not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "part updated"})
}

// DELETE /api/parts/:id (admin)
func DeletePart(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid part id", err)
		return
	}
	res, err := intconfig.DB.Exec("DELETE FROM parts WHERE id=?", id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete part", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		RespondError(c, http.StatusNotFound, "part not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "part deleted"})
}
