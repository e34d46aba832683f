package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/db"

	"github.com/gin-gonic/gin"
)

// requiredTables is what the SQL layer expects to exist.
var requiredTables = []string{
	"users", "routes", "route_stops", "bookings", "booking_seats",
	"payment_records", "vehicles", "staff", "maintenance_records",
	"maintenance_parts", "fuel_records", "parts", "budgets", "payrolls",
}

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/system/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "mahinda express backend running"})
}

// DBCheck pings the database and, when configured, redis.
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not available: " + err.Error()})
		return
	}
	var count int
	if err := intconfig.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed: " + err.Error()})
		return
	}

	redisStatus := "disabled"
	if intconfig.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := intconfig.EnsureRedis(ctx); err != nil {
			redisStatus = "unreachable"
		} else {
			redisStatus = "ok"
		}
	}

	missing := []string{}
	for _, t := range requiredTables {
		if !db.HasTable(intconfig.DB, t) {
			missing = append(missing, t)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "database connection OK",
		"users_in_db":    count,
		"redis":          redisStatus,
		"missing_tables": missing,
	})
}

// ListRoutes dumps the registered endpoints.
func ListRoutes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
