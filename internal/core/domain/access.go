package domain

import (
	"strings"
	"time"
)

const (
	// ScanTokenTTL is how long a QR payload stays valid after issuance.
	ScanTokenTTL = 20 * time.Minute
	// ScanClockSkew is the tolerated drift for payloads stamped in the future.
	ScanClockSkew = time.Minute
)

// ScanToken is the unsigned payload read from a member's QR code.
type ScanToken struct {
	SubjectID string
	IssuedAt  time.Time
	Email     string
	Name      string
}

// Validate checks shape and freshness relative to now. A token is fresh
// while now - IssuedAt < ScanTokenTTL.
func (t ScanToken) Validate(now time.Time) error {
	if strings.TrimSpace(t.SubjectID) == "" || t.IssuedAt.IsZero() {
		return ErrInvalidScanToken
	}
	age := now.Sub(t.IssuedAt)
	if age < -ScanClockSkew {
		return ErrInvalidScanToken
	}
	if age >= ScanTokenTTL {
		return ErrScanTokenExpired
	}
	return nil
}

// AccessKind is the direction of a registered scan.
type AccessKind string

const (
	AccessEntry AccessKind = "entry"
	AccessExit  AccessKind = "exit"
)

// DecideAccess is the presence state machine. Given the user's current
// center (nil when absent) and the scanning center it returns the transition
// to apply:
//
//	ABSENT        at C  -> entry
//	PRESENT(C)    at C  -> exit
//	PRESENT(C1)   at C2 -> ErrAlreadyRegisteredElsewhere
func DecideAccess(current *string, target string) (AccessKind, error) {
	switch {
	case current == nil:
		return AccessEntry, nil
	case *current == target:
		return AccessExit, nil
	default:
		return "", ErrAlreadyRegisteredElsewhere
	}
}

// AccessEvent is one registered entry or exit, kept in the attendance log.
type AccessEvent struct {
	UserID     string     `json:"userId"     bson:"user_id"`
	CenterID   string     `json:"centerId"   bson:"center_id"`
	Kind       AccessKind `json:"type"       bson:"kind"`
	OperatorID string     `json:"operatorId" bson:"operator_id"`
	ScannedAt  time.Time  `json:"scannedAt"  bson:"scanned_at"`
	RecordedAt time.Time  `json:"recordedAt" bson:"recorded_at"`
}
