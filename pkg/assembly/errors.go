package assembly

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes assembly errors.
type ErrorCode string

const (
	// CodeDuplicateJointName indicates a joint label is declared twice on a part.
	CodeDuplicateJointName ErrorCode = "DUPLICATE_JOINT_NAME"

	// CodeUnknownJoint indicates a joint lookup by label failed.
	CodeUnknownJoint ErrorCode = "UNKNOWN_JOINT"

	// CodeAlreadyConnected indicates a joint already has a peer.
	CodeAlreadyConnected ErrorCode = "ALREADY_CONNECTED"

	// CodeInvalidParameter indicates incompatible kinds or an articulation
	// parameter the joint pair cannot take.
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// CodeOutOfRange indicates an articulation parameter outside the declared range.
	CodeOutOfRange ErrorCode = "OUT_OF_RANGE"
)

// Sentinel errors for use with errors.Is. Any *Error with the same code matches.
var (
	ErrDuplicateJointName = &Error{Code: CodeDuplicateJointName}
	ErrUnknownJoint       = &Error{Code: CodeUnknownJoint}
	ErrAlreadyConnected   = &Error{Code: CodeAlreadyConnected}
	ErrInvalidParameter   = &Error{Code: CodeInvalidParameter}
	ErrOutOfRange         = &Error{Code: CodeOutOfRange}
)

// Error is returned by joint declaration, lookup and connection.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Part is the label of the part the failing joint belongs to.
	Part string

	// Joint is the label of the failing joint.
	Joint string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Part != "" || e.Joint != "" {
		return fmt.Sprintf("%s (joint=%s:%s)", msg, e.Part, e.Joint)
	}
	return msg
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, j *Joint, format string, args ...any) *Error {
	e := &Error{Code: code, Message: fmt.Sprintf(format, args...)}
	if j != nil {
		e.Joint = j.label
		if j.part != nil {
			e.Part = j.part.label
		}
	}
	return e
}

// IsOutOfRange reports whether err is an out-of-range articulation error.
func IsOutOfRange(err error) bool {
	return hasCode(err, CodeOutOfRange)
}

// IsAlreadyConnected reports whether err is an already-connected error.
func IsAlreadyConnected(err error) bool {
	return hasCode(err, CodeAlreadyConnected)
}

// IsUnknownJoint reports whether err is a failed joint lookup.
func IsUnknownJoint(err error) bool {
	return hasCode(err, CodeUnknownJoint)
}

// IsInvalidParameter reports whether err is an incompatible joint pair or
// articulation parameter.
func IsInvalidParameter(err error) bool {
	return hasCode(err, CodeInvalidParameter)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
