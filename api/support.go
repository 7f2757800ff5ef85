package api

import (
	"net/http"

	"github.com/Domenick1991/airtrack/internal/service/support"
	"github.com/gin-gonic/gin"
)

type SupportHandler struct {
	service support.SupportUseCase
}

type contactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	SourcePage string `json:"source_page"`
}

func NewSupportHandler(service support.SupportUseCase) *SupportHandler {
	return &SupportHandler{service: service}
}

func (h *SupportHandler) Register(router *gin.RouterGroup) {
	router.POST("/support/contact", h.contact)
}

func (h *SupportHandler) contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload."})
		return
	}

	result, err := h.service.Contact(c.Request.Context(), support.ContactInput{
		Name:       req.Name,
		Email:      req.Email,
		Message:    req.Message,
		SourcePage: req.SourcePage,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"handled_by": result.HandledBy,
		"escalated":  result.Escalated,
		"reply":      result.Reply,
	})
}
