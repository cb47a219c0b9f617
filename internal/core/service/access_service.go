package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
	"github.com/gymcore/gym-api/internal/pkg/metrics"
)

const defaultHistoryLimit = 100

type accessService struct {
	users    ports.UserRepository
	centers  ports.CenterRepository
	events   ports.AccessEventRepository
	recorder ports.AccessRecorder
	replay   ports.ReplayGuard // nil disables single-use tokens
	log      zerolog.Logger
	now      func() time.Time
}

// AccessOption customises an AccessService.
type AccessOption func(*accessService)

// WithReplayGuard makes every scan token single-use.
func WithReplayGuard(g ports.ReplayGuard) AccessOption {
	return func(s *accessService) { s.replay = g }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) AccessOption {
	return func(s *accessService) { s.now = now }
}

// NewAccessService returns an AccessService implementation.
func NewAccessService(
	users ports.UserRepository,
	centers ports.CenterRepository,
	events ports.AccessEventRepository,
	recorder ports.AccessRecorder,
	log zerolog.Logger,
	opts ...AccessOption,
) ports.AccessService {
	s := &accessService{
		users:    users,
		centers:  centers,
		events:   events,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessScan registers an entry or exit for the QR token's subject at
// in.CenterID.
func (s *accessService) ProcessScan(ctx context.Context, operator domain.Identity, in ports.ScanInput) (*ports.ScanResult, error) {
	start := s.now()
	res, err := s.processScan(ctx, operator, in)
	if err != nil {
		metrics.AccessScanErrorsTotal.WithLabelValues(scanErrorReason(err)).Inc()
		metrics.AccessScanDuration.WithLabelValues("error").Observe(s.now().Sub(start).Seconds())
		return nil, err
	}
	metrics.AccessScansTotal.WithLabelValues(string(res.Kind)).Inc()
	metrics.AccessScanDuration.WithLabelValues(string(res.Kind)).Observe(s.now().Sub(start).Seconds())
	return res, nil
}

func (s *accessService) processScan(ctx context.Context, operator domain.Identity, in ports.ScanInput) (*ports.ScanResult, error) {
	// 1. Operator must be allowed to scan at this center.
	if !operator.HasRole(domain.RoleAdmin, domain.RoleCenterAdmin) {
		return nil, domain.ErrForbidden
	}
	if err := operator.RequireCenter(in.CenterID); err != nil {
		return nil, err
	}

	// 2. Token shape and freshness.
	now := s.now()
	if err := in.Token.Validate(now); err != nil {
		return nil, err
	}

	// 3. Single-use check. A guard outage is logged and the scan proceeds.
	if s.replay != nil {
		fresh, err := s.replay.Claim(ctx, in.Token)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("user_id", in.Token.SubjectID).Msg("replay guard unavailable, processing anyway")
		case !fresh:
			return nil, domain.ErrScanTokenReplayed
		}
	}

	// 4. Authoritative presence state.
	user, err := s.users.FindByID(ctx, in.Token.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("process scan: %w", err)
	}

	// 5. Anything but an exit needs the target center to exist, and a missing
	// center outranks a presence conflict.
	if !user.PresentAt(in.CenterID) {
		if _, err := s.centers.FindByID(ctx, in.CenterID); err != nil {
			return nil, fmt.Errorf("process scan: %w", err)
		}
	}
	kind, err := domain.DecideAccess(user.CurrentCenterID, in.CenterID)
	if err != nil {
		return nil, err
	}

	// 6. Apply it with a compare-and-swap on current_center_id.
	var from, to *string
	switch kind {
	case domain.AccessEntry:
		target := in.CenterID
		to = &target
	case domain.AccessExit:
		current := in.CenterID
		from = &current
	}

	swapped, err := s.users.SwapCurrentCenter(ctx, user.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("process scan: update presence: %w", err)
	}
	if !swapped {
		return nil, s.conflictAfterLostSwap(ctx, user.ID, kind, in.CenterID)
	}
	user.CurrentCenterID = to
	user.UpdatedAt = now

	// 7. Attendance log (asynchronous, non-fatal).
	s.recorder.Record(domain.AccessEvent{
		UserID:     user.ID,
		CenterID:   in.CenterID,
		Kind:       kind,
		OperatorID: operator.UserID,
		ScannedAt:  now,
	})

	s.log.Info().
		Str("user_id", user.ID).
		Str("center_id", in.CenterID).
		Str("kind", string(kind)).
		Str("operator_id", operator.UserID).
		Msg("access registered")

	return &ports.ScanResult{Kind: kind, User: user.Public()}, nil
}

// conflictAfterLostSwap re-reads the user after a concurrent writer won the
// compare-and-swap and reports the conflict that now applies.
func (s *accessService) conflictAfterLostSwap(ctx context.Context, userID string, kind domain.AccessKind, centerID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("process scan: reload: %w", err)
	}
	switch kind {
	case domain.AccessEntry:
		if user.CurrentCenterID != nil && *user.CurrentCenterID != centerID {
			return domain.ErrAlreadyRegisteredElsewhere
		}
		return domain.ErrConcurrentScan
	default:
		if !user.PresentAt(centerID) {
			return domain.ErrNotRegisteredHere
		}
		return domain.ErrConcurrentScan
	}
}

// IssueQR returns a freshly stamped payload for the caller's own QR code.
func (s *accessService) IssueQR(ctx context.Context, caller domain.Identity) (*ports.QRPayload, error) {
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if user.Status == domain.StatusInactive {
		return nil, domain.ErrAccountInactive
	}
	return &ports.QRPayload{
		ID:        user.ID,
		Timestamp: s.now().UnixMilli(),
		Email:     user.Email,
		Name:      user.Name,
	}, nil
}

// History lists attendance events visible to caller.
func (s *accessService) History(ctx context.Context, caller domain.Identity, filter ports.AccessHistoryFilter) ([]domain.AccessEvent, error) {
	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleCenterAdmin:
		if filter.CenterID == "" {
			filter.CenterID = caller.CenterID
		}
		if err := caller.RequireCenter(filter.CenterID); err != nil {
			return nil, err
		}
	default:
		if filter.UserID != "" && filter.UserID != caller.UserID {
			return nil, domain.ErrForbidden
		}
		filter.UserID = caller.UserID
	}

	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = defaultHistoryLimit
	}
	return s.events.List(ctx, filter)
}

// Present lists the users currently inside centerID.
func (s *accessService) Present(ctx context.Context, operator domain.Identity, centerID string) ([]domain.PublicUser, error) {
	if err := operator.RequireCenter(centerID); err != nil {
		return nil, err
	}
	if _, err := s.centers.FindByID(ctx, centerID); err != nil {
		return nil, err
	}
	users, err := s.users.ListPresent(ctx, centerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

func scanErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrScanTokenExpired):
		return "expired_token"
	case errors.Is(err, domain.ErrInvalidScanToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrScanTokenReplayed):
		return "replayed_token"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrCenterNotFound):
		return "center_not_found"
	case errors.Is(err, domain.ErrAlreadyRegisteredElsewhere):
		return "registered_elsewhere"
	case errors.Is(err, domain.ErrNotRegisteredHere):
		return "not_registered_here"
	case errors.Is(err, domain.ErrConcurrentScan):
		return "concurrent_scan"
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrWrongCenter):
		return "forbidden"
	default:
		return "internal"
	}
}
