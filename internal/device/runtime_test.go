package device_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"kioskgate/internal/auth"
	"kioskgate/internal/device"
	"kioskgate/internal/identity"
	identitystore "kioskgate/internal/identity/store"
	"kioskgate/internal/ledger"
	"kioskgate/internal/reader"
	"kioskgate/internal/scan"
	sessionstore "kioskgate/internal/session/store"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
	"kioskgate/pkg/testutil"
)

const busDevice = id.DeviceID("bus-14")

type rig struct {
	directory *identitystore.InMemoryDirectory
	sessions  *sessionstore.InMemoryStore
	events    *ledger.InMemoryLedger
	tags      *reader.Fake
	runtime   *device.Runtime
}

func newRig(t *testing.T) *rig {
	t.Helper()

	pinHash, err := bcrypt.GenerateFromPassword([]byte("4321"), bcrypt.MinCost)
	require.NoError(t, err)

	driver := &identity.Record{
		ID:          "op-1",
		DisplayName: "Dana Reyes",
		Kind:        identity.KindStaff,
		StoredTag:   "STF-000000042",
		Role:        id.RoleDriver,
		HasPin:      true,
		PinHash:     string(pinHash),
	}
	student := &identity.Record{
		ID:          "stu-1",
		DisplayName: "Amina Okafor",
		Kind:        identity.KindStandard,
		StoredTag:   "NFC-000012345",
	}

	directory := identitystore.NewInMemoryDirectory(driver, student)
	sessions := sessionstore.NewInMemoryStore()
	events := ledger.NewInMemoryLedger()
	tags := reader.NewFake()

	authSvc := auth.NewService(busDevice, id.DeviceTypeBus, directory, auth.NewBcryptVerifier(directory), sessions)
	coord := scan.NewCoordinator(busDevice, ledger.ActionCheckIn, directory, sessions, events, tags)
	rt := device.NewRuntime(busDevice, authSvc, coord, tags, nil)

	return &rig{directory: directory, sessions: sessions, events: events, tags: tags, runtime: rt}
}

func (r *rig) nextOutcome(t *testing.T) scan.Outcome {
	t.Helper()
	select {
	case out := <-r.runtime.Results():
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a scan outcome")
		return scan.Outcome{}
	}
}

// The full morning-run scenario: the driver logs in with card and PIN, the
// same student taps twice, and the driver logs out with their own card.
func TestMorningRunScenario(t *testing.T) {
	ctx := context.Background()
	r := newRig(t)

	testutil.Given(t, "an idle bus device with a provisioned driver", func(t *testing.T) {
		require.Equal(t, auth.StateUnauthenticated, r.runtime.AuthState())
		require.Equal(t, scan.StateIdle, r.runtime.ScanState())
	})

	testutil.When(t, "the driver taps their card and enters their PIN", func(t *testing.T) {
		require.NoError(t, r.runtime.TapCard(ctx, "STF-000000042"))
		require.Equal(t, auth.StateAwaitingPin, r.runtime.AuthState())

		sess, err := r.runtime.EnterPin(ctx, "4321")
		require.NoError(t, err)
		require.NotNil(t, sess)
		require.Equal(t, id.IdentityID("op-1"), sess.IdentityID)
	})

	testutil.Then(t, "the device is scanning", func(t *testing.T) {
		require.Equal(t, auth.StateAuthenticated, r.runtime.AuthState())
		require.Equal(t, scan.StateScanning, r.runtime.ScanState())
		require.True(t, r.tags.Subscribed())
	})

	testutil.When(t, "the same student taps twice", func(t *testing.T) {
		require.True(t, r.tags.Tap("12345"))
		first := r.nextOutcome(t)
		require.Equal(t, scan.OutcomeRecorded, first.Kind)
		require.Equal(t, id.IdentityID("stu-1"), first.Subject.ID)

		require.True(t, r.tags.Tap("NFC-000012345"))
		second := r.nextOutcome(t)
		require.Equal(t, scan.OutcomeDuplicate, second.Kind)
	})

	testutil.When(t, "a stranger's card tries to log the driver out", func(t *testing.T) {
		r.tags.QueueTap("NFC-000012345")

		_, err := r.runtime.Logout(ctx)
		require.Error(t, err)
		require.True(t, dErrors.HasCode(err, dErrors.CodeIdentityMismatch))
	})

	testutil.Then(t, "the session survives and scanning resumes", func(t *testing.T) {
		require.Equal(t, auth.StateAuthenticated, r.runtime.AuthState())
		require.Equal(t, scan.StateScanning, r.runtime.ScanState())
	})

	testutil.When(t, "the driver logs out with their own card", func(t *testing.T) {
		r.tags.QueueTap("STF-000000042")

		ended, err := r.runtime.Logout(ctx)
		require.NoError(t, err)
		require.Equal(t, id.IdentityID("op-1"), ended.IdentityID)
	})

	testutil.Then(t, "the device is idle and the ledger holds exactly one event", func(t *testing.T) {
		require.Equal(t, auth.StateUnauthenticated, r.runtime.AuthState())
		require.Equal(t, scan.StateIdle, r.runtime.ScanState())
		require.False(t, r.tags.Subscribed())

		events := r.events.Events()
		require.Len(t, events, 1)
		require.Equal(t, id.IdentityID("stu-1"), events[0].SubjectID)
		require.Equal(t, id.IdentityID("op-1"), events[0].OperatorID)
		require.True(t, events[0].VerifiedByTap)
	})
}

func TestLogoutTimeoutResumesScanning(t *testing.T) {
	ctx := context.Background()
	r := newRig(t)

	require.NoError(t, r.runtime.TapCard(ctx, "STF-000000042"))
	_, err := r.runtime.EnterPin(ctx, "4321")
	require.NoError(t, err)

	// Nothing queued: ReadOnce reports a reader timeout.
	_, err = r.runtime.Logout(ctx)
	require.Error(t, err)
	require.True(t, dErrors.HasCode(err, dErrors.CodeReaderTimeout))

	require.Equal(t, auth.StateAuthenticated, r.runtime.AuthState())
	require.Equal(t, scan.StateScanning, r.runtime.ScanState())
}

func TestLogoutWithoutSession(t *testing.T) {
	r := newRig(t)

	_, err := r.runtime.Logout(context.Background())
	require.Error(t, err)
	require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
}

func TestResumeAdoptsStoredSession(t *testing.T) {
	ctx := context.Background()
	r := newRig(t)

	_, err := r.sessions.TryCreateActive(ctx, busDevice, "op-1", id.SessionTypeBus)
	require.NoError(t, err)

	sess, err := r.runtime.Resume(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, auth.StateAuthenticated, r.runtime.AuthState())
	require.Equal(t, scan.StateScanning, r.runtime.ScanState())

	r.runtime.Shutdown()
	require.Equal(t, scan.StateIdle, r.runtime.ScanState())
}
