package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gymcore/gym-api/internal/core/domain"
)

func TestReplayKey(t *testing.T) {
	ts := time.UnixMilli(1767261600123)
	got := replayKey(domain.ScanToken{SubjectID: "u1", IssuedAt: ts})
	if got != "scan:u1:1767261600123" {
		t.Fatalf("unexpected key: %s", got)
	}

	// Distinct payloads for the same user never collide.
	other := replayKey(domain.ScanToken{SubjectID: "u1", IssuedAt: ts.Add(time.Millisecond)})
	if other == got {
		t.Fatal("keys for different timestamps must differ")
	}
}

func TestReplayGuard_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	_, err := NewReplayGuard(client).Claim(context.Background(), domain.ScanToken{SubjectID: "u1", IssuedAt: time.Now()})
	if err == nil {
		t.Fatal("expected an error when redis is unreachable")
	}
}
