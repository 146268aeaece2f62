package device

import (
	"context"
	"log"
	"sync"

	"kioskgate/internal/auth"
	"kioskgate/internal/scan"
	"kioskgate/internal/session"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

// Runtime glues one device's authenticator and scan coordinator together and
// sequences the transitions between them: scanning starts only once a login
// completes, and stops before a logout tap is read so the logout card is not
// swallowed by the capture loop. One mutex per device; devices never share a
// runtime.
type Runtime struct {
	deviceID id.DeviceID
	auth     *auth.Service
	coord    *scan.Coordinator
	reader   scan.Reader
	log      *log.Logger

	mu sync.Mutex
}

func NewRuntime(deviceID id.DeviceID, authSvc *auth.Service, coord *scan.Coordinator, reader scan.Reader, logger *log.Logger) *Runtime {
	if logger == nil {
		logger = log.Default()
	}
	return &Runtime{
		deviceID: deviceID,
		auth:     authSvc,
		coord:    coord,
		reader:   reader,
		log:      logger,
	}
}

func (r *Runtime) DeviceID() id.DeviceID { return r.deviceID }

// AuthState reports the login state; ScanState reports the capture loop state.
func (r *Runtime) AuthState() auth.State            { return r.auth.State() }
func (r *Runtime) ScanState() scan.CoordinatorState { return r.coord.State() }

// Session returns the active operator session, or nil.
func (r *Runtime) Session() *session.DeviceSession { return r.auth.CurrentSession() }

// Results exposes the scan coordinator's outcome stream.
func (r *Runtime) Results() <-chan scan.Outcome { return r.coord.Results() }

// TapCard presents an operator card as the first login factor.
func (r *Runtime) TapCard(ctx context.Context, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.auth.BeginLogin(ctx, raw)
}

// EnterPin completes the login and, on success, starts the capture loop.
func (r *Runtime) EnterPin(ctx context.Context, pin string) (*session.DeviceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, err := r.auth.CompleteLogin(ctx, pin)
	if err != nil {
		return nil, err
	}
	if err := r.coord.Start(ctx); err != nil {
		return sess, dErrors.Wrap(err, dErrors.CodeInternal, "start capture loop")
	}
	return sess, nil
}

// LoginWithPassword is the account fallback for operators without a card in
// hand. The established session behaves exactly like a card login.
func (r *Runtime) LoginWithPassword(ctx context.Context, account, password string) (*session.DeviceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, err := r.auth.LoginWithPassword(ctx, account, password)
	if err != nil {
		return nil, err
	}
	if err := r.coord.Start(ctx); err != nil {
		return sess, dErrors.Wrap(err, dErrors.CodeInternal, "start capture loop")
	}
	return sess, nil
}

// AbortLogin drops an in-flight PIN prompt.
func (r *Runtime) AbortLogin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auth.Abort()
}

// Logout stops the capture loop, reads one card tap, and ends the session
// only if that tap matches the session's own identity. On a mismatched or
// timed-out tap the session stays active and scanning resumes.
func (r *Runtime) Logout(ctx context.Context) (*session.DeviceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.auth.State() != auth.StateAuthenticated {
		return nil, dErrors.New(dErrors.CodeInvalidState, "no operator is logged in")
	}

	// The subscription must be released before ReadOnce, otherwise the
	// logout tap is consumed as an attendance reading.
	r.coord.Stop()

	raw, err := r.reader.ReadOnce(ctx, r.deviceID)
	if err != nil {
		r.resumeScanning(ctx)
		return nil, dErrors.Wrap(err, dErrors.CodeOf(err), "read logout tap")
	}

	ended, err := r.auth.Logout(ctx, raw)
	if err != nil {
		r.resumeScanning(ctx)
		return nil, err
	}
	return ended, nil
}

// SelectForConfirmation and CancelConfirmation forward to the capture loop.
func (r *Runtime) SelectForConfirmation(ctx context.Context, expected id.IdentityID) error {
	return r.coord.SelectForConfirmation(ctx, expected)
}

func (r *Runtime) CancelConfirmation() { r.coord.CancelConfirmation() }

// Resume adopts a session an earlier process left in the store and restarts
// the capture loop for it. Returns nil when the device has no session.
func (r *Runtime) Resume(ctx context.Context) (*session.DeviceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, err := r.auth.Resume(ctx)
	if err != nil || sess == nil {
		return sess, err
	}
	if err := r.coord.Start(ctx); err != nil {
		return sess, dErrors.Wrap(err, dErrors.CodeInternal, "start capture loop")
	}
	return sess, nil
}

// Shutdown stops the capture loop. The session is left in the store on
// purpose: the store survives restarts and Resume picks it back up.
func (r *Runtime) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coord.Stop()
}

func (r *Runtime) resumeScanning(ctx context.Context) {
	if r.auth.State() != auth.StateAuthenticated {
		return
	}
	if err := r.coord.Start(ctx); err != nil {
		r.log.Printf("device %s: resume scanning after logout attempt: %v", r.deviceID, err)
	}
}
