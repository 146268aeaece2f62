//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kioskgate/internal/ledger"
	"kioskgate/internal/ledger/postgres"
	id "kioskgate/pkg/domain"
	"kioskgate/pkg/testutil/containers"
)

const attendanceSchema = `
CREATE TABLE IF NOT EXISTS attendance_events (
	event_id        TEXT PRIMARY KEY,
	device_id       TEXT NOT NULL,
	session_id      TEXT NOT NULL,
	subject_id      TEXT NOT NULL,
	operator_id     TEXT NOT NULL,
	action          TEXT NOT NULL,
	occurred_at     TIMESTAMPTZ NOT NULL,
	verified_by_tap BOOLEAN NOT NULL
)`

type PostgresLedgerSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *postgres.Store
}

func TestPostgresLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.pg = mgr.GetPostgres(s.T())
	_, err := s.pg.DB.Exec(attendanceSchema)
	s.Require().NoError(err)
	s.store = postgres.NewStore(s.pg.DB)
}

func (s *PostgresLedgerSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background(), "attendance_events"))
}

func makeEvent(device id.DeviceID, subject id.IdentityID) ledger.AttendanceEvent {
	return ledger.AttendanceEvent{
		ID:            id.NewEventID(),
		DeviceID:      device,
		SessionID:     id.NewSessionID(),
		SubjectID:     subject,
		OperatorID:    "op-1",
		Action:        ledger.ActionCheckIn,
		OccurredAt:    time.Now().UTC().Truncate(time.Millisecond),
		VerifiedByTap: true,
	}
}

func (s *PostgresLedgerSuite) TestAppendAndList() {
	ctx := context.Background()
	event := makeEvent("bus-14", "subj-1")
	s.Require().NoError(s.store.Append(ctx, event))

	got, err := s.store.ListByDevice(ctx, "bus-14", time.Now().Add(-time.Hour))
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(event.ID, got[0].ID)
	s.Equal(event.SubjectID, got[0].SubjectID)
	s.True(got[0].VerifiedByTap)
}

// Corrupt rows must surface as errors, not as zero-valued events.
func (s *PostgresLedgerSuite) TestListRejectsMalformedIDs() {
	ctx := context.Background()

	s.Run("malformed session id", func() {
		_, err := s.pg.DB.ExecContext(ctx, `
			INSERT INTO attendance_events
				(event_id, device_id, session_id, subject_id, operator_id, action, occurred_at, verified_by_tap)
			VALUES ($1, 'bus-2', 'not-a-uuid', 'subj-3', 'op-1', 'check_in', NOW(), TRUE)`,
			id.NewEventID().String())
		s.Require().NoError(err)

		_, err = s.store.ListByDevice(ctx, "bus-2", time.Now().Add(-time.Hour))
		s.Require().Error(err)
		s.Contains(err.Error(), "parse session id")
	})

	s.Run("malformed event id", func() {
		_, err := s.pg.DB.ExecContext(ctx, `
			INSERT INTO attendance_events
				(event_id, device_id, session_id, subject_id, operator_id, action, occurred_at, verified_by_tap)
			VALUES ('not-a-uuid', 'bus-3', $1, 'subj-4', 'op-1', 'check_in', NOW(), TRUE)`,
			id.NewSessionID().String())
		s.Require().NoError(err)

		_, err = s.store.ListByDevice(ctx, "bus-3", time.Now().Add(-time.Hour))
		s.Require().Error(err)
		s.Contains(err.Error(), "parse event id")
	})
}

// TestRetrySameEventIsIdempotent covers the contract that lets the operator
// layer retry the exact same call after a surfaced write failure.
func (s *PostgresLedgerSuite) TestRetrySameEventIsIdempotent() {
	ctx := context.Background()
	event := makeEvent("gate-1", "subj-2")
	s.Require().NoError(s.store.Append(ctx, event))
	s.Require().NoError(s.store.Append(ctx, event))

	got, err := s.store.ListByDevice(ctx, "gate-1", time.Now().Add(-time.Hour))
	s.Require().NoError(err)
	s.Len(got, 1)
}
