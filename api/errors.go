package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/service/trips"
	"github.com/gin-gonic/gin"
)

const (
	codeBookingRequired = "booking_required"
	codeTrackingNotOpen = "tracking_not_open"
)

// writeError maps service errors onto HTTP responses. Unknown errors are
// logged by the request logger and reported as 500 without detail.
func writeError(c *gin.Context, err error) {
	var closed *trips.TrackingClosedError
	switch {
	case errors.As(err, &closed):
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "Tracking opens " + strconv.Itoa(closed.UnlockMinutes) + " minutes before departure.",
			"code":     codeTrackingNotOpen,
			"opens_at": closed.OpensAt.Format(time.RFC3339),
		})
	case errors.Is(err, domain.ErrBookingRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": "Valid booking reference required.", "code": codeBookingRequired})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")})
	case errors.Is(err, domain.ErrTripNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrAirportNotFound),
		errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials. Please try again."})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrDuplicateCode):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
