package auth

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kioskgate/internal/audit"
	"kioskgate/internal/auth/metrics"
	"kioskgate/internal/identity"
	"kioskgate/internal/session"
	sessionstore "kioskgate/internal/session/store"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

// State is the authenticator's position in the two-factor login flow.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAwaitingPin     State = "awaiting_pin"
	StateAuthenticated   State = "authenticated"
)

const defaultPinLength = 4

// Service drives the card-plus-PIN login and same-card logout state machine
// for one device. All transitions hold the service mutex so a login attempt
// cannot race a concurrent logout; the scan coordinator shares nothing with
// it except the session store, so scanning is never blocked here.
//
// Bounded PIN retry is deliberately the caller's policy: a wrong PIN keeps
// the machine in StateAwaitingPin and reports the failure, nothing more.
type Service struct {
	deviceID   id.DeviceID
	deviceType id.DeviceType
	pinLength  int

	directory identity.Directory
	verifier  CredentialVerifier
	sessions  sessionstore.Store
	audit     *audit.Publisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	mu      sync.Mutex
	state   State
	pending *identity.Record
	current *session.DeviceSession
}

// Option configures optional collaborators.
type Option func(*Service)

func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPinLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pinLength = n
		}
	}
}

func NewService(deviceID id.DeviceID, deviceType id.DeviceType, directory identity.Directory, verifier CredentialVerifier, sessions sessionstore.Store, opts ...Option) *Service {
	s := &Service{
		deviceID:   deviceID,
		deviceType: deviceType,
		pinLength:  defaultPinLength,
		directory:  directory,
		verifier:   verifier,
		sessions:   sessions,
		tracer:     otel.Tracer("kioskgate/auth"),
		state:      StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current machine state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentSession returns a copy of the active session, or nil.
func (s *Service) CurrentSession() *session.DeviceSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// BeginLogin starts a tag login: resolve the card, check the role against
// this device type, and require a provisioned PIN before moving to
// StateAwaitingPin. No session exists until CompleteLogin succeeds.
func (s *Service) BeginLogin(ctx context.Context, rawTag string) error {
	ctx, span := s.tracer.Start(ctx, "auth.BeginLogin")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUnauthenticated {
		return dErrors.New(dErrors.CodeInvalidState, "login already in progress or session active")
	}

	rec, err := s.directory.LookupByTag(ctx, identity.Canonicalize(rawTag))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return s.loginFailed("", dErrors.New(dErrors.CodeUnknownIdentity, "tag does not match any identity"))
		}
		return s.loginFailed("", dErrors.Wrap(err, dErrors.CodeInternal, "directory lookup"))
	}
	span.SetAttributes(attribute.String("identity.id", rec.ID.String()))

	if !id.RolePermitted(s.deviceType, rec.Role) {
		return s.loginFailed(rec.ID, dErrors.New(dErrors.CodeRoleNotPermitted, "role not permitted on this device type"))
	}
	if !rec.HasPin {
		return s.loginFailed(rec.ID, dErrors.New(dErrors.CodePinNotProvisioned, "identity has no PIN provisioned"))
	}

	s.pending = rec
	s.state = StateAwaitingPin
	return nil
}

// CompleteLogin verifies the PIN for the identity matched by BeginLogin and,
// on success, atomically claims the device's active session slot.
func (s *Service) CompleteLogin(ctx context.Context, pin string) (*session.DeviceSession, error) {
	ctx, span := s.tracer.Start(ctx, "auth.CompleteLogin")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingPin || s.pending == nil {
		return nil, dErrors.New(dErrors.CodeInvalidState, "no login in progress")
	}

	if len(pin) != s.pinLength || !allDigits(pin) {
		// Malformed input counts as a wrong PIN: the machine stays in
		// StateAwaitingPin and the operator may try again.
		return nil, s.pinFailed(dErrors.New(dErrors.CodeInvalidPin, "pin rejected"))
	}

	start := time.Now()
	ok, err := s.verifier.VerifyPin(ctx, s.pending.ID, pin)
	s.metrics.ObservePinVerify(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		return nil, s.pinFailed(dErrors.Wrap(err, dErrors.CodeInternal, "pin verification"))
	}
	if !ok {
		return nil, s.pinFailed(dErrors.New(dErrors.CodeInvalidPin, "pin rejected"))
	}

	return s.establishSession(ctx, s.pending)
}

// LoginWithPassword is the account-credential entry into StateAuthenticated.
// It bypasses the tag and PIN steps but performs the same role check and the
// same active-session claim, and it binds the resolved identity, with its
// stored tag, to the session so the same-card logout rule applies uniformly.
func (s *Service) LoginWithPassword(ctx context.Context, account, password string) (*session.DeviceSession, error) {
	ctx, span := s.tracer.Start(ctx, "auth.LoginWithPassword")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUnauthenticated {
		return nil, dErrors.New(dErrors.CodeInvalidState, "login already in progress or session active")
	}

	rec, err := s.directory.LookupByAccount(ctx, account)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, s.loginFailed("", dErrors.New(dErrors.CodeUnknownIdentity, "account does not match any identity"))
		}
		return nil, s.loginFailed("", dErrors.Wrap(err, dErrors.CodeInternal, "directory lookup"))
	}
	if !id.RolePermitted(s.deviceType, rec.Role) {
		return nil, s.loginFailed(rec.ID, dErrors.New(dErrors.CodeRoleNotPermitted, "role not permitted on this device type"))
	}

	ok, err := s.verifier.VerifyPassword(ctx, rec.ID, password)
	if err != nil {
		return nil, s.loginFailed(rec.ID, dErrors.Wrap(err, dErrors.CodeInternal, "password verification"))
	}
	if !ok {
		return nil, s.loginFailed(rec.ID, dErrors.New(dErrors.CodeInvalidPin, "password rejected"))
	}

	return s.establishSession(ctx, rec)
}

// Logout ends the session, but only when the presented tag canonically
// matches the session's own identity. A mismatch leaves the session active:
// nobody else's card can end an operator's session.
func (s *Service) Logout(ctx context.Context, rawTag string) (*session.DeviceSession, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Logout")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated || s.current == nil {
		return nil, dErrors.New(dErrors.CodeInvalidState, "no authenticated session")
	}

	rec, err := s.directory.LookupByID(ctx, s.current.IdentityID)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "resolve session identity")
		s.metrics.Logout(string(dErrors.CodeOf(err)))
		return nil, err
	}
	if !identity.MatchesStored(rawTag, rec.StoredTag) {
		err := dErrors.New(dErrors.CodeIdentityMismatch, "logout requires the card that logged in")
		s.metrics.Logout(string(dErrors.CodeIdentityMismatch))
		if s.audit != nil {
			s.audit.Outcome(s.deviceID, s.current.IdentityID, audit.KindLogoutMismatch, string(dErrors.CodeIdentityMismatch))
		}
		return nil, err
	}

	ended, err := s.sessions.EndActive(ctx, s.deviceID)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "end session")
		s.metrics.Logout(string(dErrors.CodeOf(err)))
		return nil, err
	}

	s.current = nil
	s.state = StateUnauthenticated
	s.metrics.Logout("ok")
	if s.audit != nil {
		s.audit.Outcome(s.deviceID, ended.IdentityID, audit.KindLogoutSucceeded, "")
	}
	return ended, nil
}

// Abort drops an in-flight AwaitingPin attempt. Safe to call in any state.
func (s *Service) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAwaitingPin {
		s.pending = nil
		s.state = StateUnauthenticated
	}
}

// Resume adopts an active session left in the store by a previous process,
// so a kiosk restart does not strand the operator. Returns the adopted
// session, or nil when the device has none.
func (s *Service) Resume(ctx context.Context) (*session.DeviceSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUnauthenticated {
		return nil, dErrors.New(dErrors.CodeInvalidState, "cannot resume while a login is in progress")
	}

	sess, err := s.sessions.GetActive(ctx, s.deviceID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load active session")
	}
	if _, err := s.directory.LookupByID(ctx, sess.IdentityID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve resumed identity")
	}

	s.current = sess
	s.state = StateAuthenticated
	if s.audit != nil {
		s.audit.Outcome(s.deviceID, sess.IdentityID, audit.KindSessionResumed, "")
	}
	c := *sess
	return &c, nil
}

// establishSession claims the device's active slot and transitions to
// StateAuthenticated. Callers hold the mutex.
func (s *Service) establishSession(ctx context.Context, rec *identity.Record) (*session.DeviceSession, error) {
	sess, err := s.sessions.TryCreateActive(ctx, s.deviceID, rec.ID, id.SessionTypeFor(s.deviceType))
	if err != nil {
		s.pending = nil
		s.state = StateUnauthenticated
		if !dErrors.HasCode(err, dErrors.CodeDeviceInUse) {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "create session")
		}
		s.metrics.Login(string(dErrors.CodeOf(err)))
		if s.audit != nil {
			s.audit.Outcome(s.deviceID, rec.ID, audit.KindLoginFailed, string(dErrors.CodeOf(err)))
		}
		return nil, err
	}

	s.pending = nil
	s.current = sess
	s.state = StateAuthenticated
	s.metrics.Login("ok")
	if s.audit != nil {
		s.audit.Outcome(s.deviceID, rec.ID, audit.KindLoginSucceeded, "")
	}
	c := *sess
	return &c, nil
}

// loginFailed records a failed attempt that aborts the flow entirely.
// Callers hold the mutex.
func (s *Service) loginFailed(identityID id.IdentityID, err error) error {
	s.pending = nil
	s.state = StateUnauthenticated
	s.metrics.Login(string(dErrors.CodeOf(err)))
	if s.audit != nil {
		s.audit.Outcome(s.deviceID, identityID, audit.KindLoginFailed, string(dErrors.CodeOf(err)))
	}
	return err
}

// pinFailed records a failed second factor that keeps the machine in
// StateAwaitingPin. Callers hold the mutex.
func (s *Service) pinFailed(err error) error {
	s.metrics.Login(string(dErrors.CodeOf(err)))
	if s.audit != nil {
		s.audit.Outcome(s.deviceID, s.pending.ID, audit.KindLoginFailed, string(dErrors.CodeOf(err)))
	}
	return err
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
