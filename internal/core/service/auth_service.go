package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendconnect/auth-service/internal/core/domain"
	"github.com/friendconnect/auth-service/internal/core/ports"
)

// LoginThrottle abstracts the failed-attempt counter (Redis). A throttled
// username is rejected before any bcrypt work happens.
type LoginThrottle interface {
	TooManyAttempts(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuthService implements registration, login and logout over a user
// repository, a password hasher and a token service.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	throttle LoginThrottle
	audit    ports.AuditRecorder
	tokenTTL time.Duration
	log      zerolog.Logger
}

const defaultTokenTTL = 30 * time.Minute

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// WithThrottle enables login attempt throttling.
func (s *AuthService) WithThrottle(t LoginThrottle) *AuthService {
	s.throttle = t
	return s
}

// WithAudit enables asynchronous audit recording.
func (s *AuthService) WithAudit(a ports.AuditRecorder) *AuthService {
	s.audit = a
	return s
}

// Register stores a new user with a hashed credential. The plaintext password
// never leaves this method. Registration does not authenticate: the HTTP
// layer redirects to the login page afterwards.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if taken, err := s.users.Exists(ctx, in.Username); err != nil {
		return nil, err
	} else if taken {
		s.record(ctx, in.Username, ports.AuditActionRegister, ports.AuditOutcomeFailure)
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		Profile:      in.Profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The repository insert is the authoritative duplicate check: the Exists
	// call above is a fast path and two concurrent registrations still race
	// down to a single atomic insert.
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.record(ctx, in.Username, ports.AuditActionRegister, ports.AuditOutcomeFailure)
		}
		return nil, err
	}

	s.record(ctx, in.Username, ports.AuditActionRegister, ports.AuditOutcomeSuccess)
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown username and
// wrong password both fail with ErrInvalidCredentials so callers cannot
// enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyAttempts(ctx, username)
		if err != nil {
			// Fail open: an unreachable counter must not lock everyone out.
			s.log.Warn().Err(err).Str("username", username).Msg("login throttle check failed")
		} else if blocked {
			s.record(ctx, username, ports.AuditActionLogin, ports.AuditOutcomeThrottle)
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.Find(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(ctx, username)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		s.loginFailed(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login throttle reset failed")
		}
	}
	s.record(ctx, username, ports.AuditActionLogin, ports.AuditOutcomeSuccess)
	return token, user, nil
}

// Logout is idempotent and always succeeds. It records the event and nothing
// else: the token is stateless, so an already-issued token remains valid
// until its natural expiry even after logout.
func (s *AuthService) Logout(ctx context.Context, username string) {
	if username == "" {
		return
	}
	s.record(ctx, username, ports.AuditActionLogout, ports.AuditOutcomeSuccess)
}

func (s *AuthService) loginFailed(ctx context.Context, username string) {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login throttle increment failed")
		}
	}
	s.record(ctx, username, ports.AuditActionLogin, ports.AuditOutcomeFailure)
}

func (s *AuthService) record(ctx context.Context, username, action, outcome string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuthEventInput{
		Username:  username,
		Action:    action,
		Outcome:   outcome,
		Timestamp: time.Now().UTC(),
	})
}
