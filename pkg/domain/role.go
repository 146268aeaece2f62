package domain

// Role is the operator role stored against an identity in the directory.
type Role string

const (
	RoleDriver     Role = "driver"
	RoleSupervisor Role = "supervisor"
	RoleGateStaff  Role = "gate_staff"
	RoleTeacher    Role = "teacher"
	RoleAdmin      Role = "admin"
)

// DeviceType distinguishes the kiosk deployments; each type admits a
// different set of operator roles.
type DeviceType string

const (
	DeviceTypeBus  DeviceType = "bus"
	DeviceTypeGate DeviceType = "gate"
)

// SessionType records which deployment flavour created a session. It mirrors
// DeviceType today but is persisted separately so historical sessions keep
// their meaning if device types are ever split further.
type SessionType string

const (
	SessionTypeBus  SessionType = "bus"
	SessionTypeGate SessionType = "gate"
)

// SessionTypeFor maps a device type to the session type it creates.
func SessionTypeFor(dt DeviceType) SessionType {
	switch dt {
	case DeviceTypeBus:
		return SessionTypeBus
	default:
		return SessionTypeGate
	}
}

// permittedRoles is the single source of truth for which operator roles may
// sign in on which device type.
var permittedRoles = map[DeviceType]map[Role]struct{}{
	DeviceTypeBus: {
		RoleDriver:     {},
		RoleSupervisor: {},
	},
	DeviceTypeGate: {
		RoleGateStaff:  {},
		RoleSupervisor: {},
		RoleAdmin:      {},
	},
}

// RolePermitted reports whether a role may operate a device of the given type.
// Unknown device types admit nobody.
func RolePermitted(dt DeviceType, role Role) bool {
	roles, ok := permittedRoles[dt]
	if !ok {
		return false
	}
	_, ok = roles[role]
	return ok
}
