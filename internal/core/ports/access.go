package ports

import (
	"context"
	"time"

	"github.com/gymcore/gym-api/internal/core/domain"
)

// ScanInput is the DTO passed from the transport layer to AccessService.
type ScanInput struct {
	Token    domain.ScanToken
	CenterID string
}

// ScanResult describes the transition applied by a scan.
type ScanResult struct {
	Kind domain.AccessKind
	User domain.PublicUser
}

// QRPayload is the data a client encodes into its member QR code.
type QRPayload struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

// AccessHistoryFilter narrows attendance log queries.
type AccessHistoryFilter struct {
	UserID   string
	CenterID string
	From     time.Time
	To       time.Time
	Limit    int
}

// AccessService runs the attendance state machine.
type AccessService interface {
	ProcessScan(ctx context.Context, operator domain.Identity, in ScanInput) (*ScanResult, error)
	IssueQR(ctx context.Context, caller domain.Identity) (*QRPayload, error)
	History(ctx context.Context, caller domain.Identity, filter AccessHistoryFilter) ([]domain.AccessEvent, error)
	Present(ctx context.Context, operator domain.Identity, centerID string) ([]domain.PublicUser, error)
}

// AccessEventRepository is the append-only attendance log.
type AccessEventRepository interface {
	Insert(ctx context.Context, event *domain.AccessEvent) error
	List(ctx context.Context, filter AccessHistoryFilter) ([]domain.AccessEvent, error)
}

// AccessRecorder accepts events for asynchronous persistence.
type AccessRecorder interface {
	Record(event domain.AccessEvent)
}

// ReplayGuard enforces single use of scan tokens.
type ReplayGuard interface {
	// Claim returns false when the token was already claimed.
	Claim(ctx context.Context, token domain.ScanToken) (bool, error)
}
