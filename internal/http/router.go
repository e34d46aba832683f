package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "mahindaexpress/internal/config"
	h "mahindaexpress/internal/http/handlers"
	"mahindaexpress/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Metrics(), gin.Recovery())
	r.Use(cors.New(corsConfig(env)))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := []gin.HandlerFunc{
		middleware.RequireAuth(env.JWTSecret),
		middleware.RequireRoles("admin", "owner"),
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/system/routes", h.ListRoutes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Routes (writes are admin only)
		routes := api.Group("/routes")
		routes.GET("", h.GetRoutes)
		routes.GET("/:id", h.GetRoute)
		routes.GET("/:id/stops", h.GetRouteStops)
		routes.GET("/:id/dropoffs", h.GetDropoffOptions)
		routes.POST("", append(admin, h.CreateRoute)...)
		routes.PUT("/:id", append(admin, h.UpdateRoute)...)
		routes.DELETE("/:id", append(admin, h.DeleteRoute)...)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.GET("/booked-seats", h.GetBookedSeats)
		bookings.POST("/hold", h.PlaceSeatHold)
		bookings.DELETE("/hold/:token", h.ReleaseSeatHold)
		bookings.POST("/checkout", h.CreateBooking)
		bookings.GET("/user", h.GetMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.PUT("/:id/cancel", h.CancelBooking)
		bookings.GET("", append(admin, h.AdminListBookings)...)
		bookings.PUT("/:id/confirm", append(admin, h.ConfirmBooking)...)
		bookings.PUT("/:id/reject", append(admin, h.RejectBooking)...)

		// Payments
		payments := api.Group("/payments")
		payments.POST("/create-payment-intent", h.CreatePaymentIntent)
		payments.POST("/webhook", h.PaymentWebhook)
		payments.POST("/bank-transfer", h.SubmitBankTransfer)
		payments.GET("", append(admin, h.AdminListPayments)...)
		payments.PUT("/:id/approve", append(admin, h.ApprovePayment)...)
		payments.PUT("/:id/reject", append(admin, h.RejectPayment)...)

		// Fleet (admin)
		vehicles := api.Group("/vehicles", admin...)
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.POST("", h.CreateVehicle)
		vehicles.PUT("/:id", h.UpdateVehicle)
		vehicles.DELETE("/:id", h.DeleteVehicle)

		maintenance := api.Group("/maintenance", admin...)
		maintenance.GET("", h.GetMaintenanceRecords)
		maintenance.POST("", h.CreateMaintenanceRecord)
		maintenance.DELETE("/:id", h.DeleteMaintenanceRecord)

		fuel := api.Group("/fuel", admin...)
		fuel.GET("", h.GetFuelRecords)
		fuel.POST("", h.CreateFuelRecord)
		fuel.DELETE("/:id", h.DeleteFuelRecord)

		parts := api.Group("/parts", admin...)
		parts.GET("", h.GetParts)
		parts.GET("/:id", h.GetPart)
		parts.POST("", h.CreatePart)
		parts.PUT("/:id", h.UpdatePart)
		parts.DELETE("/:id", h.DeletePart)

		// HR (admin)
		staff := api.Group("/staff", admin...)
		staff.GET("", h.GetStaff)
		staff.GET("/:id", h.GetStaffMember)
		staff.POST("", h.CreateStaff)
		staff.PUT("/:id", h.UpdateStaff)
		staff.DELETE("/:id", h.DeleteStaff)
		staff.PUT("/checkin/:id", h.StaffCheckIn)
		staff.PUT("/checkout/:id", h.StaffCheckOut)
		staff.PUT("/attendance/:id", h.UpdateStaffAttendance)
		staff.PUT("/overtime/:id", h.UpdateStaffOvertime)
		staff.PUT("/assign/:id", h.AssignStaffVehicle)

		// Finance (admin)
		budgets := api.Group("/budgets", admin...)
		budgets.GET("", h.GetBudgets)
		budgets.GET("/summary", h.GetBudgetSummary)
		budgets.POST("", h.CreateBudget)
		budgets.PUT("/:id", h.UpdateBudget)
		budgets.DELETE("/:id", h.DeleteBudget)

		payroll := api.Group("/payroll", admin...)
		payroll.GET("", h.GetPayrolls)
		payroll.POST("", h.SavePayroll)
		payroll.POST("/compute", h.ComputePayroll)
		payroll.DELETE("/:id", h.DeletePayroll)

		// Reports (admin)
		reports := api.Group("/reports", admin...)
		reports.GET("/payroll", h.DownloadPayslip)
		reports.GET("/all-employees", h.DownloadPayrollReport)
		reports.GET("/budgets.xlsx", h.DownloadBudgetsWorkbook)
	}

	return r
}

func corsConfig(env intconfig.Env) cors.Config {
	return cors.Config{
		AllowOrigins:     env.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Signature"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
