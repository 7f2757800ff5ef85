package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/airtrack/internal/auth"
	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/repository"
	"github.com/Domenick1991/airtrack/internal/validate"
)

type UserUseCase interface {
	Signup(ctx context.Context, input SignupInput) (*Session, error)
	Signin(ctx context.Context, identifier, password string) (*Session, error)
}

type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

type SignupInput struct {
	Username string `validate:"required,max=150" field:"username"`
	Email    string `validate:"required,email,max=254" field:"email"`
	FullName string `validate:"max=150" field:"full_name"`
	// bcrypt ignores everything past 72 bytes.
	Password string `validate:"required,min=8,max=72" field:"password"`
}

type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

type UserService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	log    *slog.Logger
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{users: users, tokens: tokens, log: log}
}

// Signup registers a passenger account and signs it in.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*Session, error) {
	user, err := s.create(ctx, input, false)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// Signin accepts either the username or the email as identifier.
func (s *UserService) Signin(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByLogin(ctx, identifier)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.session(user)
}

// EnsureStaff creates the operations account unless the username is taken.
func (s *UserService) EnsureStaff(ctx context.Context, input SignupInput) error {
	_, err := s.users.GetByLogin(ctx, strings.TrimSpace(input.Username))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	user, err := s.create(ctx, input, true)
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	if err != nil {
		return err
	}
	s.log.Info("staff account created", slog.String("username", user.Username))
	return nil
}

func (s *UserService) create(ctx context.Context, input SignupInput, staff bool) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: hash,
		IsStaff:      staff,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) session(user *domain.User) (*Session, error) {
	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: expires}, nil
}

var _ UserUseCase = (*UserService)(nil)
