package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/routes?q=
func GetRoutes(c *gin.Context) {
	list, err := (repositories.RouteRepo{}).List(strings.TrimSpace(c.Query("q")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/routes/:id
func GetRoute(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid route id", err)
		return
	}
	route, err := (repositories.RouteRepo{}).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// GET /api/routes/:id/stops
func GetRouteStops(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid route id", err)
		return
	}
	route, err := (repositories.RouteRepo{}).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routeId": route.ID, "direction": route.Direction, "stops": route.Stops})
}

// GET /api/routes/:id/dropoffs?boarding=Kegalle
//
// Lists the stops a passenger may alight at after the given boarding stop,
// following the route's direction of travel.
func GetDropoffOptions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid route id", err)
		return
	}
	boarding := strings.TrimSpace(c.Query("boarding"))
	if boarding == "" {
		RespondError(c, http.StatusBadRequest, "boarding stop is required", nil)
		return
	}
	route, err := (repositories.RouteRepo{}).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	options := route.DropoffOptions(boarding)
	if options == nil {
		RespondError(c, http.StatusBadRequest, "boarding stop is not on this route", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boarding": boarding, "dropoffs": options})
}

type routePayload struct {
	RouteNumber      string   `json:"routeNumber" binding:"required"`
	StartLocation    string   `json:"startLocation" binding:"required"`
	EndLocation      string   `json:"endLocation" binding:"required"`
	DistanceKm       float64  `json:"distanceKm"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
	Fare             int64    `json:"fare"`
	Direction        string   `json:"direction" binding:"required"`
	Stops            []string `json:"stops"`
}

func (p routePayload) toModel() (models.Route, error) {
	direction, ok := models.ParseDirection(p.Direction)
	if !ok {
		return models.Route{}, domain.ValidationError{Field: "direction", Msg: "must be outbound or inbound"}
	}
	return models.Route{
		RouteNumber:      strings.TrimSpace(p.RouteNumber),
		StartLocation:    strings.TrimSpace(p.StartLocation),
		EndLocation:      strings.TrimSpace(p.EndLocation),
		DistanceKm:       p.DistanceKm,
		EstimatedMinutes: p.EstimatedMinutes,
		Fare:             p.Fare,
		Direction:        direction,
		Stops:            p.Stops,
	}, nil
}

// POST /api/routes (admin)
func CreateRoute(c *gin.Context) {
	var payload routePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	route, err := payload.toModel()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	id, err := (repositories.RouteRepo{}).Create(route)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	route.ID = id
	c.JSON(http.StatusCreated, route)
}

// PUT /api/routes/:id (admin)
func UpdateRoute(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid route id", err)
		return
	}
	var payload routePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	route, err := payload.toModel()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	route.ID = id
	if err := (repositories.RouteRepo{}).Update(id, route); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// DELETE /api/routes/:id (admin)
func DeleteRoute(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid route id", err)
		return
	}
	if err := (repositories.RouteRepo{}).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "route deleted"})
}
