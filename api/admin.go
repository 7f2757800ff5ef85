package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/service/ops"
	"github.com/Domenick1991/airtrack/internal/tracking"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the operations console under /admin. Every route
// requires a staff token.
type AdminHandler struct {
	service ops.OpsUseCase
	now     func() time.Time
}

type airportRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type flightRequest struct {
	FlightCode string `json:"flight_code"`
	FromCode   string `json:"from_code"`
	ToCode     string `json:"to_code"`
}

type tripRequest struct {
	FlightID     int64     `json:"flight_id"`
	DepartAt     time.Time `json:"depart_at"`
	ArriveAt     time.Time `json:"arrive_at"`
	DelayMinutes int       `json:"delay_minutes"`
	DelayNote    string    `json:"delay_note"`
}

type idsRequest struct {
	IDs []int64 `json:"ids"`
}

type delayRequest struct {
	IDs          []int64 `json:"ids"`
	DelayMinutes int     `json:"delay_minutes"`
	DelayNote    string  `json:"delay_note"`
}

type ticketStatusRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status"`
}

func NewAdminHandler(service ops.OpsUseCase) *AdminHandler {
	return &AdminHandler{service: service, now: time.Now}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	admin := router.Group("/admin", RequireStaff())
	admin.GET("/metrics", h.metrics)
	admin.GET("/airports", h.listAirports)
	admin.POST("/airports", h.createAirport)
	admin.GET("/flights", h.listFlights)
	admin.POST("/flights", h.createFlight)
	admin.GET("/trips", h.listTrips)
	admin.POST("/trips", h.createTrip)
	admin.POST("/trips/duplicate", h.duplicateTrips)
	admin.POST("/trips/delay", h.delayTrips)
	admin.POST("/trips/notify", h.notifyPassengers)
	admin.GET("/tickets", h.listTickets)
	admin.POST("/tickets/status", h.setTicketStatus)
}

func (h *AdminHandler) metrics(c *gin.Context) {
	m, err := h.service.Metrics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"airports":        m.Airports,
		"routes":          m.Routes,
		"flights":         m.Flights,
		"upcoming_trips":  m.UpcomingTrips,
		"open_tickets":    m.OpenTickets,
		"next_departures": toTrips(m.NextDepartures, h.now()),
	})
}

func (h *AdminHandler) listAirports(c *gin.Context) {
	airports, err := h.service.ListAirports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirports(airports))
}

func (h *AdminHandler) createAirport(c *gin.Context) {
	var req airportRequest
	if !bindJSON(c, &req) {
		return
	}
	airport, err := h.service.CreateAirport(c.Request.Context(), ops.AirportInput{
		Code: req.Code, Name: req.Name, City: req.City, Country: req.Country,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAirport(*airport))
}

func (h *AdminHandler) listFlights(c *gin.Context) {
	flights, err := h.service.ListFlights(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]flightResponse, 0, len(flights))
	for i := range flights {
		out = append(out, toFlight(&flights[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) createFlight(c *gin.Context) {
	var req flightRequest
	if !bindJSON(c, &req) {
		return
	}
	flight, err := h.service.CreateFlight(c.Request.Context(), ops.FlightInput{
		Code: req.FlightCode, FromCode: req.FromCode, ToCode: req.ToCode,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlight(flight))
}

func (h *AdminHandler) listTrips(c *gin.Context) {
	list, err := h.service.ListTrips(c.Request.Context(), tracking.LiveFilter(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTrips(list, h.now()))
}

func (h *AdminHandler) createTrip(c *gin.Context) {
	var req tripRequest
	if !bindJSON(c, &req) {
		return
	}
	trip, err := h.service.CreateTrip(c.Request.Context(), ops.TripInput{
		FlightID:     req.FlightID,
		DepartAt:     req.DepartAt,
		ArriveAt:     req.ArriveAt,
		DelayMinutes: req.DelayMinutes,
		DelayNote:    req.DelayNote,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTrip(trip, h.now()))
}

func (h *AdminHandler) duplicateTrips(c *gin.Context) {
	var req idsRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.service.DuplicateTrips(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": n})
}

func (h *AdminHandler) delayTrips(c *gin.Context) {
	var req delayRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.service.DelayTrips(c.Request.Context(), req.IDs, req.DelayMinutes, req.DelayNote)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *AdminHandler) notifyPassengers(c *gin.Context) {
	var req idsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.NotifyPassengers(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": result.Queued, "failed": result.Failed})
}

func (h *AdminHandler) listTickets(c *gin.Context) {
	tickets, err := h.service.ListTickets(c.Request.Context(), domain.TicketStatus(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicket(t))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) setTicketStatus(c *gin.Context) {
	var req ticketStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.service.SetTicketStatus(c.Request.Context(), req.IDs, domain.TicketStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload."})
		return false
	}
	return true
}
