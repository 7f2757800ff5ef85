package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/airtrack/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	now     func() time.Time
}

type createBookingRequest struct {
	PassengerName  string `json:"passenger_name"`
	PassengerEmail string `json:"passenger_email"`
	PassengerPhone string `json:"passenger_phone"`
	Seats          int    `json:"seats"`
}

type myTripResponse struct {
	Booking bookingResponse `json:"booking"`
	Trip    tripResponse    `json:"trip"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service, now: time.Now}
}

// Register mounts the passenger routes. All of them require a signed-in
// non-staff account.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	passenger := router.Group("", RequirePassenger())
	passenger.POST("/trips/:id/bookings", h.create)
	passenger.GET("/me/trips", h.myTrips)
	passenger.POST("/bookings/:reference/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload."})
		return
	}

	claims := currentClaims(c)
	created, err := h.service.Book(c.Request.Context(), booking.BookInput{
		TripID:       id,
		UserID:       claims.UserID,
		AccountEmail: claims.Email,
		Name:         req.PassengerName,
		Email:        req.PassengerEmail,
		Phone:        req.PassengerPhone,
		Seats:        req.Seats,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Booking confirmed. Reference: " + created.Reference,
		"booking":      toBooking(created),
		"tracking_url": trackingURL(id, created.Reference),
	})
}

func (h *BookingHandler) myTrips(c *gin.Context) {
	list, err := h.service.ListForUser(c.Request.Context(), currentClaims(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	now := h.now()
	out := make([]myTripResponse, 0, len(list))
	for i := range list {
		out = append(out, myTripResponse{
			Booking: toBooking(&list[i].Booking),
			Trip:    toTrip(&list[i].Trip, now),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	cancelled, err := h.service.Cancel(c.Request.Context(), currentClaims(c).UserID, c.Param("reference"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBooking(cancelled))
}

func trackingURL(tripID int64, reference string) string {
	return "/api/trips/" + strconv.FormatInt(tripID, 10) + "?ref=" + reference
}
