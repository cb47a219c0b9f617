package domain

import "errors"

// ErrorKind classifies a domain error for the transport layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified domain error. Sentinels below are compared with
// errors.Is; ad-hoc validation errors are built with Invalid.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Invalid returns a fresh validation error carrying msg.
func Invalid(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// KindOf reports the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Authentication and authorization.
var (
	ErrUnauthenticated    = &Error{KindUnauthenticated, "authentication required"}
	ErrInvalidToken       = &Error{KindUnauthenticated, "invalid or expired token"}
	ErrInvalidCredentials = &Error{KindUnauthenticated, "invalid email or password"}
	ErrForbidden          = &Error{KindForbidden, "access forbidden"}
	ErrWrongCenter        = &Error{KindForbidden, "you can only manage your own center"}
	ErrAccountInactive    = &Error{KindForbidden, "account is inactive"}
)

// Input validation.
var (
	ErrInvalidRole   = &Error{KindValidation, "invalid role"}
	ErrInvalidStatus = &Error{KindValidation, "invalid status"}
	ErrWeakPassword  = &Error{KindValidation, "password must be at least 8 characters"}
)

// Lookups.
var (
	ErrUserNotFound     = &Error{KindNotFound, "user not found"}
	ErrCenterNotFound   = &Error{KindNotFound, "center not found"}
	ErrResourceNotFound = &Error{KindNotFound, "resource not found"}
)

// Uniqueness and referential conflicts.
var (
	ErrUserExists     = &Error{KindConflict, "a user with this email already exists"}
	ErrCenterExists   = &Error{KindConflict, "a center with this name already exists"}
	ErrCenterInUse    = &Error{KindConflict, "center still has users present"}
	ErrResourceExists = &Error{KindConflict, "resource already exists"}
)

// ErrInvalidReference is returned when a write points at a row that does not exist.
var ErrInvalidReference = &Error{KindValidation, "referenced record does not exist"}

// Access engine.
var (
	ErrInvalidScanToken           = &Error{KindValidation, "invalid QR code"}
	ErrScanTokenExpired           = &Error{KindValidation, "QR code has expired"}
	ErrScanTokenReplayed          = &Error{KindValidation, "QR code was already used"}
	ErrAlreadyRegisteredElsewhere = &Error{KindConflict, "user is already registered at another center"}
	ErrNotRegisteredHere          = &Error{KindConflict, "user is not registered at this center"}
	ErrConcurrentScan             = &Error{KindConflict, "user presence changed during scan, retry"}
)
