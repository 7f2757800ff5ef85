package api

import (
	"net/http"

	"github.com/Domenick1991/airtrack/internal/service/users"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service users.UserUseCase
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type signinRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func NewAuthHandler(service users.UserUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/auth/signup", h.signup)
	router.POST("/auth/signin", h.signin)
}

func (h *AuthHandler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload."})
		return
	}

	session, err := h.service.Signup(c.Request.Context(), users.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(session))
}

func (h *AuthHandler) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload."})
		return
	}

	session, err := h.service.Signin(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func sessionResponse(s *users.Session) gin.H {
	return gin.H{
		"token":      s.Token,
		"expires_at": s.ExpiresAt,
		"user": gin.H{
			"id":        s.User.ID,
			"username":  s.User.Username,
			"email":     s.User.Email,
			"full_name": s.User.FullName,
			"is_staff":  s.User.IsStaff,
		},
	}
}
