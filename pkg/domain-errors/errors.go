package domainerrors

import "errors"

// Code classifies a domain error. Every operator-visible failure mode has its
// own code so the kiosk UI layer can render a specific prompt (re-tap,
// re-enter PIN, escalate) instead of a generic failure.
type Code string

const (
	// Authentication.
	CodeUnknownIdentity   Code = "unknown_identity"
	CodeRoleNotPermitted  Code = "role_not_permitted"
	CodePinNotProvisioned Code = "pin_not_provisioned"
	CodeInvalidPin        Code = "invalid_pin"
	CodeDeviceInUse       Code = "device_in_use"
	CodeIdentityMismatch  Code = "identity_mismatch"

	// Scanning.
	CodeSubjectNotFound Code = "subject_not_found"
	CodeDuplicateScan   Code = "duplicate_scan"
	CodeLedgerWrite     Code = "ledger_write_failed"
	CodeWrongCard       Code = "wrong_card_for_confirmation"
	CodeReaderTimeout   Code = "reader_timeout"

	// Ambient.
	CodeInvalidState Code = "invalid_state"
	CodeInvalidInput Code = "invalid_input"
	CodeConflict     Code = "conflict"
	CodeNotFound     Code = "not_found"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// Error carries a code alongside the message so callers can branch on the
// failure kind without string matching.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes two coded errors equivalent when their codes match, so sentinel
// values created with New compare correctly under errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New builds a coded error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors so callers always have something to branch on.
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return CodeInternal
	}
	return e.Code
}

// operatorMessages maps every code to a distinct operator-facing prompt.
// None of these collapse into a generic failure: the operator must know
// whether to re-tap, re-enter a PIN, or call an administrator.
var operatorMessages = map[Code]string{
	CodeUnknownIdentity:   "Card not recognised. Check the card or contact an administrator.",
	CodeRoleNotPermitted:  "This card is not authorised for this device.",
	CodePinNotProvisioned: "No PIN is set for this card. Contact an administrator to provision one.",
	CodeInvalidPin:        "Incorrect PIN. Try again.",
	CodeDeviceInUse:       "Another operator is already signed in on this device.",
	CodeIdentityMismatch:  "Sign-out requires the same card that signed in.",
	CodeSubjectNotFound:   "Card not found in the directory. Use manual lookup if needed.",
	CodeDuplicateScan:     "Already recorded for this session.",
	CodeLedgerWrite:       "Could not save the record. Tap retry to submit again.",
	CodeWrongCard:         "That is not the selected person's card. Tap the correct card or cancel.",
	CodeReaderTimeout:     "No card detected. Hold the card closer to the reader.",
	CodeInvalidState:      "That action is not available right now.",
	CodeInvalidInput:      "The entered value is not valid.",
	CodeConflict:          "The operation conflicted with another change. Try again.",
	CodeNotFound:          "Record not found.",
	CodeTimeout:           "The operation timed out. Try again.",
	CodeInternal:          "Something went wrong. Contact an administrator if it persists.",
}

// OperatorMessage returns the operator-facing prompt for err's code.
func OperatorMessage(err error) string {
	if msg, ok := operatorMessages[CodeOf(err)]; ok {
		return msg
	}
	return operatorMessages[CodeInternal]
}
