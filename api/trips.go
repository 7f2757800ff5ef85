package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airtrack/internal/service/trips"
	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	service trips.TripUseCase
}

func NewTripHandler(service trips.TripUseCase) *TripHandler {
	return &TripHandler{service: service}
}

func (h *TripHandler) Register(router *gin.RouterGroup) {
	router.GET("/airports", h.airports)
	router.GET("/trips", h.search)
	router.GET("/trips/:id", h.detail)
	router.GET("/trips/:id/status", h.status)
	router.GET("/trips/:id/ai", h.advice)
	router.GET("/trips/:id/position", h.position)
	router.GET("/network/live", h.network)
}

func (h *TripHandler) airports(c *gin.Context) {
	airports, err := h.service.Airports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirports(airports))
}

func (h *TripHandler) search(c *gin.Context) {
	result, err := h.service.Search(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}

	now := result.AsOf
	resp := gin.H{
		"from":     result.From,
		"to":       result.To,
		"hub_code": result.HubCode,
		"trips":    toTrips(result.Trips, now),
	}
	if result.Recommended != nil {
		resp["recommended"] = toTrip(result.Recommended, now)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TripHandler) detail(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}

	detail, err := h.service.Detail(c.Request.Context(), id, c.Query("ref"))
	if err != nil {
		writeError(c, err)
		return
	}

	claims := currentClaims(c)
	resp := gin.H{
		"trip":                    toTripWithStatus(detail.Trip, detail.Status),
		"insight":                 detail.Insight,
		"booking_ref":             detail.BookingRef,
		"tracking_open":           detail.TrackingOpen,
		"tracking_opens_at":       detail.TrackingOpensAt,
		"tracking_unlock_minutes": detail.UnlockMinutes,
		"can_track":               detail.CanTrack,
		"booking_allowed":         claims != nil && !claims.IsStaff,
	}
	if detail.Booking != nil {
		resp["booking"] = toBooking(detail.Booking)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TripHandler) status(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	report, err := h.service.Status(c.Request.Context(), id, c.Query("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *TripHandler) advice(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	advice, err := h.service.Advice(c.Request.Context(), id, c.Query("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, advice)
}

func (h *TripHandler) position(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	pos, err := h.service.Position(c.Request.Context(), id, c.Query("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

func (h *TripHandler) network(c *gin.Context) {
	network, err := h.service.LiveNetwork(c.Request.Context(), c.Query("from"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, network)
}

func tripID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return 0, false
	}
	return id, true
}
