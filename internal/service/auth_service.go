package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"taskboard/internal/domain"
	"taskboard/internal/session"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var (
	validate     = validator.New()
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type RegisterInput struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string
}

type AuthService struct {
	users    UserRepository
	sessions Sessions
	cost     int
}

func NewAuthService(users UserRepository, sessions Sessions, bcryptCost int) *AuthService {
	return &AuthService{users: users, sessions: sessions, cost: bcryptCost}
}

// Register creates the user and opens a session for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Identity, string, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validate.Struct(in); err != nil {
		return nil, "", domain.NewValidationError("All fields are required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", domain.NewValidationError("Passwords do not match")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, "", domain.NewValidationError("Invalid email format")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return nil, "", domain.NewValidationError(fmt.Sprintf("Password must be at least %d characters long", minPasswordLen))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Issue(ctx, session.FromUser(u))
	if err != nil {
		return nil, "", err
	}
	return u.Identity(), token, nil
}

// Authenticate checks the credentials and opens a session. Unknown email and
// wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, session.FromUser(u))
	if err != nil {
		return nil, "", err
	}
	return u.Identity(), token, nil
}

// EndSession is idempotent.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}
