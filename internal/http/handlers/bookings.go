package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/repositories"
	"mahindaexpress/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/booked-seats?routeId=&journeyDate=YYYY-MM-DD
func GetBookedSeats(c *gin.Context) {
	routeID, err := strconv.ParseInt(c.Query("routeId"), 10, 64)
	if err != nil || routeID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid routeId", err)
		return
	}
	date := strings.TrimSpace(c.Query("journeyDate"))

	avail, err := bookingSvc(c).Availability(c.Request.Context(), routeID, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

type holdRequest struct {
	RouteID     int64  `json:"routeId" binding:"required"`
	JourneyDate string `json:"journeyDate" binding:"required"`
	Seats       []int  `json:"seats" binding:"required"`
}

// POST /api/bookings/hold
func PlaceSeatHold(c *gin.Context) {
	var req holdRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	hold, err := holdSvc().Place(c.Request.Context(), req.RouteID, req.JourneyDate, req.Seats)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hold)
}

// DELETE /api/bookings/hold/:token?routeId=&date=
func ReleaseSeatHold(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	routeID, _ := strconv.ParseInt(c.Query("routeId"), 10, 64)
	date := strings.TrimSpace(c.Query("date"))
	if token == "" || routeID <= 0 || date == "" {
		RespondError(c, http.StatusBadRequest, "token, routeId and date are required", nil)
		return
	}
	holdSvc().ReleaseByToken(c.Request.Context(), routeID, date, token)
	c.JSON(http.StatusOK, gin.H{"message": "hold released"})
}

// POST /api/bookings/checkout
func CreateBooking(c *gin.Context) {
	var req services.CheckoutRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingSvc(c).Checkout(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GET /api/bookings/:id
func GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", err)
		return
	}
	booking, err := (repositories.BookingRepo{}).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// PUT /api/bookings/:id
func UpdateBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", err)
		return
	}
	var upd models.BookingUpdate
	if !BindJSONOrError(c, &upd) {
		return
	}
	booking, err := bookingSvc(c).Update(id, upd)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func transitionHandler(to models.BookingStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid booking id", err)
			return
		}
		booking, err := bookingSvc(c).Transition(id, to)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, booking)
	}
}

// PUT /api/bookings/:id/cancel
var CancelBooking = transitionHandler(models.StatusCancelled)

// PUT /api/bookings/:id/confirm (admin)
var ConfirmBooking = transitionHandler(models.StatusConfirmed)

// PUT /api/bookings/:id/reject (admin)
var RejectBooking = transitionHandler(models.StatusRejected)

// GET /api/bookings/user?email=&phone=
func GetMyBookings(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	phone := strings.TrimSpace(c.Query("phone"))
	if email == "" && phone == "" {
		RespondError(c, http.StatusBadRequest, "email or phone is required", nil)
		return
	}
	list, err := (repositories.BookingRepo{}).ListByContact(email, phone)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/bookings?status=&page=&limit= (admin)
func AdminListBookings(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := (repositories.BookingRepo{}).List(status, page, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
