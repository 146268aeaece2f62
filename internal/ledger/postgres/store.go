package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kioskgate/internal/ledger"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

// Store writes attendance events to the hosted backend's ledger table.
// INSERT only; ON CONFLICT DO NOTHING on the event ID makes a caller-driven
// retry of the exact same event safe.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event ledger.AttendanceEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_events
			(event_id, device_id, session_id, subject_id, operator_id, action, occurred_at, verified_by_tap)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id) DO NOTHING`,
		event.ID.String(),
		event.DeviceID.String(),
		event.SessionID.String(),
		event.SubjectID.String(),
		event.OperatorID.String(),
		string(event.Action),
		event.OccurredAt,
		event.VerifiedByTap,
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeLedgerWrite, "append attendance event")
	}
	return nil
}

// ListByDevice reads back a device's events for verification and audit
// tooling; production scan paths never read the ledger.
func (s *Store) ListByDevice(ctx context.Context, deviceID id.DeviceID, since time.Time) ([]ledger.AttendanceEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, device_id, session_id, subject_id, operator_id, action, occurred_at, verified_by_tap
		FROM attendance_events
		WHERE device_id = $1 AND occurred_at >= $2
		ORDER BY occurred_at`,
		deviceID.String(), since)
	if err != nil {
		return nil, fmt.Errorf("list attendance events: %w", err)
	}
	defer rows.Close()

	var out []ledger.AttendanceEvent
	for rows.Next() {
		var e ledger.AttendanceEvent
		var eventID, sessionID string
		if err := rows.Scan(&eventID, &e.DeviceID, &sessionID, &e.SubjectID,
			&e.OperatorID, &e.Action, &e.OccurredAt, &e.VerifiedByTap); err != nil {
			return nil, fmt.Errorf("scan attendance event: %w", err)
		}
		parsed, err := id.ParseSessionID(sessionID)
		if err != nil {
			return nil, fmt.Errorf("parse session id: %w", err)
		}
		e.SessionID = parsed
		if err := e.ID.UnmarshalText([]byte(eventID)); err != nil {
			return nil, fmt.Errorf("parse event id: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance events: %w", err)
	}
	return out, nil
}
