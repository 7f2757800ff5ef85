package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/service/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_signup(t *testing.T) {
	mockService := &MockUserUseCase{}
	r := newTestRouter(NewAuthHandler(mockService))

	input := users.SignupInput{Username: "jane", Email: "jane@example.com", FullName: "Jane Doe", Password: "secret-pass"}
	expires := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mockService.On("Signup", mock.Anything, input).Return(&users.Session{
		User:      &domain.User{ID: 7, Username: "jane", Email: "jane@example.com", FullName: "Jane Doe"},
		Token:     "signed",
		ExpiresAt: expires,
	}, nil)

	w := doRequest(r, http.MethodPost, "/api/auth/signup", "",
		`{"username":"jane","email":"jane@example.com","full_name":"Jane Doe","password":"secret-pass"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
		User      struct {
			ID      int64 `json:"id"`
			IsStaff bool  `json:"is_staff"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed", resp.Token)
	assert.True(t, expires.Equal(resp.ExpiresAt))
	assert.Equal(t, int64(7), resp.User.ID)
	assert.False(t, resp.User.IsStaff)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_signupDuplicate(t *testing.T) {
	mockService := &MockUserUseCase{}
	r := newTestRouter(NewAuthHandler(mockService))
	mockService.On("Signup", mock.Anything, mock.Anything).Return(nil, domain.ErrUserExists)

	w := doRequest(r, http.MethodPost, "/api/auth/signup", "", `{"username":"jane","email":"jane@example.com","password":"secret-pass"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_signinInvalid(t *testing.T) {
	mockService := &MockUserUseCase{}
	r := newTestRouter(NewAuthHandler(mockService))
	mockService.On("Signin", mock.Anything, "jane", "wrong").Return(nil, domain.ErrInvalidCredentials)

	w := doRequest(r, http.MethodPost, "/api/auth/signin", "", `{"identifier":"jane","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertExpectations(t)
}
