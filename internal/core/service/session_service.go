package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/console-api/internal/api/metrics"
	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/ports"
)

// AttemptGuard serializes authentication attempts: at most one login or
// register call is in flight per principal at a time (Redis SetNX).
type AttemptGuard interface {
	Acquire(ctx context.Context, email string) (bool, error)
	Release(ctx context.Context, email string) error
}

// AuditSink receives audit events for asynchronous persistence.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}

// SessionService owns the session lifecycle. Every write to the persisted
// Identity/Credential pair goes through this single instance, and the pair is
// committed as one record or not at all.
type SessionService struct {
	gateway   ports.AuthGateway
	sessions  ports.SessionRepository
	guard     AttemptGuard
	audit     AuditSink
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewSessionService wires a SessionService. A non-positive tokenTTL falls
// back to 24h.
func NewSessionService(
	gateway ports.AuthGateway,
	sessions ports.SessionRepository,
	guard AttemptGuard,
	audit AuditSink,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionService{
		gateway:   gateway,
		sessions:  sessions,
		guard:     guard,
		audit:     audit,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Login authenticates against the gateway and commits the resulting session.
// On any failure nothing is persisted, so a retry starts from a clean slate.
func (s *SessionService) Login(ctx context.Context, email, password string) (*ports.AuthOutcome, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	release, err := s.acquire(ctx, email)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.audit.Enqueue(domain.AuthEvent{Kind: domain.AuthEventLoginFailed, Email: email, Timestamp: time.Now().UTC()})
		return nil, err
	}

	outcome, err := s.commit(ctx, result)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionsActive.Inc()
	s.audit.Enqueue(domain.AuthEvent{Kind: domain.AuthEventLogin, Email: result.Email, Timestamp: time.Now().UTC()})
	s.log.Info().Str("email", result.Email).Msg("login committed")

	return outcome, nil
}

// Register creates an account through the gateway and commits the session
// exactly like Login. Privileged roles require an identification number; the
// default unprivileged role (Patient) does not.
func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthOutcome, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(input.Roles) == 0 {
		input.Roles = []domain.Role{domain.RolePatient}
	}
	for _, r := range input.Roles {
		if !domain.ValidRole(r) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, r)
		}
	}
	if requiresIdentification(input.Roles) && input.Identification == "" {
		return nil, fmt.Errorf("%w: identification required for privileged roles", domain.ErrInvalidCredentials)
	}

	release, err := s.acquire(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := s.gateway.Register(ctx, input)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	outcome, err := s.commit(ctx, result)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	metrics.SessionsActive.Inc()
	s.audit.Enqueue(domain.AuthEvent{Kind: domain.AuthEventRegister, Email: result.Email, Timestamp: time.Now().UTC()})
	s.log.Info().Str("email", result.Email).Msg("registration committed")

	return outcome, nil
}

// Logout clears the session unconditionally. It never fails: infrastructure
// errors are logged and swallowed, and a second logout of the same session is
// a no-op.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("session delete failed")
		return nil
	}
	metrics.SessionsActive.Dec()
	s.audit.Enqueue(domain.AuthEvent{Kind: domain.AuthEventLogout, SessionID: sessionID, Timestamp: time.Now().UTC()})
	return nil
}

// UpdateUser shallow-merges the partial into the current identity and
// re-persists the session. Without a live session it is a silent no-op. Once
// Put returns, any permission check sees the new role set: the store is the
// single source of truth and nothing derived is cached.
func (s *SessionService) UpdateUser(ctx context.Context, sessionID string, input ports.UpdateUserInput) (*domain.Identity, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return nil, nil
		}
		return nil, err
	}

	if input.Email != nil {
		sess.Identity.Email = *input.Email
	}
	if input.PhoneNumber != nil {
		sess.Identity.PhoneNumber = *input.PhoneNumber
	}
	if input.Identification != nil {
		sess.Identity.Identification = *input.Identification
	}
	if input.Roles != nil {
		for _, r := range input.Roles {
			if !domain.ValidRole(r) {
				return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, r)
			}
		}
		sess.Identity.Roles = dedupRoles(input.Roles)
	}
	sess.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	identity := sess.Identity
	return &identity, nil
}

// Current reads the persisted session, or domain.ErrSessionNotFound.
func (s *SessionService) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// commit writes the Identity/Credential pair as one session record and mints
// the console token. If minting fails the record is removed again so no
// half-committed state survives.
func (s *SessionService) commit(ctx context.Context, result *ports.AuthResult) (*ports.AuthOutcome, error) {
	if len(result.Roles) == 0 {
		return nil, fmt.Errorf("%w: account has no roles", domain.ErrInvalidCredentials)
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		ID: uuid.NewString(),
		Identity: domain.Identity{
			ID:          result.UserID,
			Email:       result.Email,
			Roles:       dedupRoles(result.Roles),
			PhoneNumber: result.PhoneNumber,
		},
		Credential: result.Token,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("commit session: %w", err)
	}

	token, err := s.mintToken(sess)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("mint session token: %w", err)
	}

	return &ports.AuthOutcome{SessionToken: token, Identity: sess.Identity}, nil
}

// mintToken signs the console JWT. Role claims are informational: every
// authorization decision re-reads the stored session, so a role update does
// not require re-issuing the token.
func (s *SessionService) mintToken(sess *domain.Session) (string, error) {
	roles := make([]string, 0, len(sess.Identity.Roles))
	for _, r := range sess.Identity.Roles {
		roles = append(roles, string(r))
	}
	claims := jwt.MapClaims{
		"sid":   sess.ID,
		"email": sess.Identity.Email,
		"roles": roles,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// acquire takes the per-principal attempt lock. A guard infrastructure error
// is logged and the attempt proceeds anyway; a held lock rejects the attempt.
func (s *SessionService) acquire(ctx context.Context, email string) (func(), error) {
	ok, err := s.guard.Acquire(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("attempt guard unavailable, proceeding")
		return func() {}, nil
	}
	if !ok {
		return nil, domain.ErrAttemptInFlight
	}
	return func() {
		if err := s.guard.Release(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("attempt guard release failed")
		}
	}, nil
}

// requiresIdentification reports whether the requested role set goes beyond
// the default unprivileged role.
func requiresIdentification(roles []domain.Role) bool {
	for _, r := range roles {
		if r != domain.RolePatient && r != domain.RoleClient {
			return true
		}
	}
	return false
}

func dedupRoles(roles []domain.Role) []domain.Role {
	seen := make(map[domain.Role]bool, len(roles))
	out := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
