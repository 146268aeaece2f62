package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kioskgate/pkg/domain-errors"
)

func TestParseSessionID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSessionID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseSessionID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseSessionID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID and trims whitespace", func(t *testing.T) {
		want := NewSessionID()
		got, err := ParseSessionID("  " + want.String() + "  ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestSessionIDJSONRoundTrip(t *testing.T) {
	id := NewSessionID()

	raw, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(raw))

	var back SessionID
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, id, back)
}

func TestRolePermissions(t *testing.T) {
	t.Run("bus admits driving roles only", func(t *testing.T) {
		assert.True(t, RolePermitted(DeviceTypeBus, RoleDriver))
		assert.True(t, RolePermitted(DeviceTypeBus, RoleSupervisor))
		assert.False(t, RolePermitted(DeviceTypeBus, RoleTeacher))
		assert.False(t, RolePermitted(DeviceTypeBus, RoleGateStaff))
	})

	t.Run("gate admits site staff", func(t *testing.T) {
		assert.True(t, RolePermitted(DeviceTypeGate, RoleGateStaff))
		assert.True(t, RolePermitted(DeviceTypeGate, RoleAdmin))
		assert.False(t, RolePermitted(DeviceTypeGate, RoleDriver))
	})

	t.Run("unknown device type admits nobody", func(t *testing.T) {
		assert.False(t, RolePermitted(DeviceType("tablet"), RoleAdmin))
	})
}
