package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

// ReplayGuard makes scan tokens single-use backed by Redis.
// Key format: scan:<subject_id>:<issued_at_unix_ms>
//
// Keys live as long as a token stays fresh; after that the freshness check
// rejects the token on its own.
type ReplayGuard struct {
	client *redis.Client
}

// NewReplayGuard creates a ReplayGuard wrapping the given Redis client.
func NewReplayGuard(client *redis.Client) *ReplayGuard {
	return &ReplayGuard{client: client}
}

var _ ports.ReplayGuard = (*ReplayGuard)(nil)

// Claim atomically marks token as used. It returns false when the token was
// already claimed.
func (g *ReplayGuard) Claim(ctx context.Context, token domain.ScanToken) (bool, error) {
	ok, err := g.client.SetNX(ctx, replayKey(token), "1", domain.ScanTokenTTL+domain.ScanClockSkew).Result()
	if err != nil {
		return false, fmt.Errorf("replay claim: %w", err)
	}
	return ok, nil
}

func replayKey(token domain.ScanToken) string {
	return fmt.Sprintf("scan:%s:%d", token.SubjectID, token.IssuedAt.UnixMilli())
}
