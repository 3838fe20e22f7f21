package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	auditmodels "gatepass/internal/audit/models"
	"gatepass/internal/auth/models"
	"gatepass/internal/auth/store"
	"gatepass/internal/jwttoken"
	"gatepass/internal/platform/middleware"
	platformmetrics "gatepass/internal/platform/metrics"
	dErrors "gatepass/pkg/domain-errors"
	"gatepass/pkg/platform/sentinel"
	"gatepass/pkg/requestcontext"
)

// AuditRecorder receives login and logout events, fire and forget.
type AuditRecorder interface {
	Record(ctx context.Context, e auditmodels.Event)
}

// AuthService owns login, logout, and session validation. It implements
// middleware.SessionValidator so the auth gate and the login flow share one
// definition of a live session.
type AuthService struct {
	users      store.UserStore
	sessions   store.SessionStore
	tokens     *jwttoken.Service
	sessionTTL time.Duration
	logger     *slog.Logger
	metrics    *platformmetrics.Metrics
	auditor    AuditRecorder
}

// Option configures optional AuthService collaborators.
type Option func(*AuthService)

func WithMetrics(m *platformmetrics.Metrics) Option {
	return func(s *AuthService) { s.metrics = m }
}

func WithAuditor(a AuditRecorder) Option {
	return func(s *AuthService) { s.auditor = a }
}

func NewAuthService(users store.UserStore, sessions store.SessionStore, tokens *jwttoken.Service, sessionTTL time.Duration, logger *slog.Logger, opts ...Option) *AuthService {
	s := &AuthService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginResult carries what the handler needs to set the cookie and answer.
type LoginResult struct {
	Token    string
	Username string
	Role     models.Role
	TTL      time.Duration
}

// Login verifies credentials, opens a server-side session, and issues the
// signed cookie token. Unknown user and wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, username, password, userAgentHeader string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username and password are required")
	}

	invalid := dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordLogin("failure")
			return nil, invalid
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordLogin("failure")
		return nil, invalid
	}

	now := requestcontext.Now(ctx)
	session := models.Session{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Role:      user.Role,
		Device:    deviceName(userAgentHeader),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open session")
	}

	token, err := s.tokens.Generate(user.Username, string(user.Role), session.ID, s.sessionTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
	}

	s.recordLogin("success")
	s.logger.InfoContext(ctx, "user logged in",
		"username", user.Username,
		"role", user.Role,
		"device", session.Device,
	)
	s.audit(ctx, auditmodels.ActionUserLoggedIn, user.Username, map[string]string{"device": session.Device})

	return &LoginResult{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
		TTL:      s.sessionTTL,
	}, nil
}

// Logout deletes the session behind a token. Unknown or malformed tokens are
// a no-op: logout always succeeds from the client's perspective.
func (s *AuthService) Logout(ctx context.Context, token string) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return
	}
	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete session on logout",
			"session_id", claims.SessionID, "error", err)
		return
	}
	s.audit(ctx, auditmodels.ActionUserLoggedOut, claims.Username, nil)
}

// Validate implements middleware.SessionValidator: the token must verify and
// its session must still exist server-side.
func (s *AuthService) Validate(ctx context.Context, token string) (*middleware.Principal, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session is no longer active")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up session")
	}
	return &middleware.Principal{
		Username:  session.Username,
		Role:      string(session.Role),
		SessionID: session.ID,
	}, nil
}

func (s *AuthService) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementLogin(outcome)
	}
}

func (s *AuthService) audit(ctx context.Context, action auditmodels.Action, actor string, details map[string]string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, auditmodels.Event{
		Action:  action,
		Actor:   actor,
		At:      requestcontext.Now(ctx),
		Details: details,
	})
}
