package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/backend"
	"github.com/artsfest/admin-panel/internal/models"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

type authBackend interface {
	Login(ctx context.Context, userName, password string) (*backend.LoginResponse, error)
}

type sessionRepository interface {
	SaveSession(ctx context.Context, session *models.Session, ttl time.Duration) error
	FindSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// LoginInput is the login form payload.
type LoginInput struct {
	UserName string `form:"userName" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// SessionService exchanges operator credentials for a backend token and
// manages the panel-side session wrapped around it.
type SessionService struct {
	backend   authBackend
	repo      sessionRepository
	validator *validator.Validate
	logger    *zap.Logger
	ttl       time.Duration
	now       func() time.Time
}

// NewSessionService constructs a session service.
func NewSessionService(auth authBackend, repo sessionRepository, validate *validator.Validate, logger *zap.Logger, ttl time.Duration) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionService{
		backend:   auth,
		repo:      repo,
		validator: validate,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Login validates credentials client-side, authenticates against the
// backend and mints a panel session around the returned bearer token.
func (s *SessionService) Login(ctx context.Context, in LoginInput) (*models.Session, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "please provide both user name and password")
	}

	res, err := s.backend.Login(ctx, in.UserName, in.Password)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, appErrors.Clone(appErrors.ErrBackend, "backend returned no token")
	}

	userName := res.UserName
	if userName == "" {
		userName = in.UserName
	}

	now := s.now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		Token:     res.Token,
		UserName:  userName,
		CreatedAt: now,
		ExpiresAt: s.sessionExpiry(now, res.Token),
	}

	if err := s.repo.SaveSession(ctx, session, session.ExpiresAt.Sub(now)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}

	s.logger.Info("operator logged in", zap.String("user", userName))
	return session, nil
}

// sessionExpiry picks the earlier of the configured TTL and the token's own
// exp claim. The parse is unverified: the panel never holds the backend's
// signing secret, and a forged exp only shortens the session.
func (s *SessionService) sessionExpiry(now time.Time, token string) time.Time {
	expiry := now.Add(s.ttl)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return expiry
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return expiry
	}
	if exp.Time.Before(expiry) && exp.Time.After(now) {
		return exp.Time
	}
	return expiry
}

// Current loads and validates the session behind a cookie value.
func (s *SessionService) Current(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, appErrors.ErrUnauthorized
	}
	session, err := s.repo.FindSession(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.Expired(s.now().UTC()) {
		_ = s.repo.DeleteSession(ctx, id)
		return nil, appErrors.ErrSessionExpired
	}
	return session, nil
}

// Logout discards the stored session. The backend token is simply dropped;
// there is no server-side revocation endpoint.
func (s *SessionService) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}
