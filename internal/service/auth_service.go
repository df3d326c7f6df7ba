package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
	"github.com/iliyamo/venue-booking-api/internal/auth"
	"github.com/iliyamo/venue-booking-api/internal/config"
	"github.com/iliyamo/venue-booking-api/internal/model"
	"github.com/iliyamo/venue-booking-api/internal/repository"
	v "github.com/iliyamo/venue-booking-api/internal/validation"
)

// Credentials is the register and login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Admin     model.Admin
}

type AuthService struct {
	admins           *repository.AdminRepo
	issuer           *auth.Issuer
	cost             int
	registrationOpen bool
}

func NewAuthService(admins *repository.AdminRepo, issuer *auth.Issuer, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		admins:           admins,
		issuer:           issuer,
		cost:             cfg.BcryptCost,
		registrationOpen: cfg.RegistrationEnabled,
	}
}

func errInvalidCredentials() error { return apperr.Unauthenticatedf("Invalid credentials") }

func (in *Credentials) normalize() { in.Email = strings.TrimSpace(in.Email) }

// Register creates an administrator. It is unauthenticated; operators close
// it with AUTH_REGISTRATION_ENABLED=false once the first admin exists.
func (s *AuthService) Register(ctx context.Context, in Credentials) (model.Admin, error) {
	if !s.registrationOpen {
		return model.Admin{}, apperr.Domainf("Registration is disabled")
	}
	in.normalize()
	if err := v.First(
		v.RequiredCheck(v.F("email", in.Email), v.F("password", in.Password)),
		v.EmailCheck(in.Email),
	); err != nil {
		return model.Admin{}, err
	}

	_, err := s.admins.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return model.Admin{}, apperr.Domainf("Admin already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return model.Admin{}, apperr.Wrap(err, "Server error")
	}

	hash, err := auth.HashPassword(in.Password, s.cost)
	if err != nil {
		return model.Admin{}, apperr.Wrap(err, "Server error")
	}
	admin, err := s.admins.Create(ctx, in.Email, hash)
	if errors.Is(err, repository.ErrEmailExists) {
		// lost a race with a concurrent registration
		return model.Admin{}, apperr.Conflictf("Admin already exists")
	}
	if err != nil {
		return model.Admin{}, apperr.Wrap(err, "Server error")
	}
	return admin, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password fail identically and cost the same bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, in Credentials) (Session, error) {
	in.normalize()
	if err := v.Required(v.F("email", in.Email), v.F("password", in.Password)); err != nil {
		return Session{}, err
	}
	admin, err := s.admins.GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		auth.BurnPassword(in.Password)
		return Session{}, errInvalidCredentials()
	}
	if err != nil {
		return Session{}, apperr.Wrap(err, "Server error")
	}
	if !auth.VerifyPassword(admin.PasswordHash, in.Password) {
		return Session{}, errInvalidCredentials()
	}
	token, exp, err := s.issuer.Issue(admin.ID, admin.Email)
	if err != nil {
		return Session{}, apperr.Wrap(err, "Server error")
	}
	return Session{Token: token, ExpiresAt: exp, Admin: admin}, nil
}

// Authenticate verifies a bearer token and returns the admin capability.
func (s *AuthService) Authenticate(raw string) (auth.Admin, error) {
	admin, err := s.issuer.Verify(raw)
	if err != nil {
		return auth.Admin{}, &apperr.Error{Kind: apperr.Unauthenticated, Message: "Invalid or expired token", Err: err}
	}
	return admin, nil
}

// Me loads the administrator behind a capability.
func (s *AuthService) Me(ctx context.Context, admin auth.Admin) (model.Admin, error) {
	if err := requireAdmin(admin); err != nil {
		return model.Admin{}, err
	}
	a, err := s.admins.GetByID(ctx, admin.ID())
	if errors.Is(err, repository.ErrNotFound) {
		return model.Admin{}, apperr.Unauthenticatedf("Invalid or expired token")
	}
	if err != nil {
		return model.Admin{}, apperr.Wrap(err, "Server error")
	}
	return a, nil
}
