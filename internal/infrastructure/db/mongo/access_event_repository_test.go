package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

var recordedAt = time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC)

func TestHistoryFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, historyFilter(ports.AccessHistoryFilter{}))

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	got := historyFilter(ports.AccessHistoryFilter{UserID: "u1", CenterID: "c1", From: from, To: to})
	assert.Equal(t, bson.M{
		"user_id":    "u1",
		"center_id":  "c1",
		"scanned_at": bson.M{"$gte": from, "$lte": to},
	}, got)
}

func TestAccessEventRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert stamps recorded_at", func(mt *mtest.T) {
		repo := &AccessEventRepository{coll: mt.Coll, now: func() time.Time { return recordedAt }}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		event := &domain.AccessEvent{UserID: "u1", CenterID: "c1", Kind: domain.AccessEntry, ScannedAt: recordedAt.Add(-5 * time.Second)}
		require.NoError(t, repo.Insert(context.Background(), event))
		assert.Equal(t, recordedAt, event.RecordedAt)
	})

	mt.Run("list decodes events", func(mt *mtest.T) {
		repo := &AccessEventRepository{coll: mt.Coll, now: time.Now}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "user_id", Value: "u1"},
				{Key: "center_id", Value: "c1"},
				{Key: "kind", Value: "exit"},
				{Key: "operator_id", Value: "admin-1"},
				{Key: "scanned_at", Value: recordedAt},
				{Key: "recorded_at", Value: recordedAt},
			},
		))

		events, err := repo.List(context.Background(), ports.AccessHistoryFilter{UserID: "u1", Limit: 10})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, domain.AccessExit, events[0].Kind)
		assert.Equal(t, "admin-1", events[0].OperatorID)
		assert.True(t, events[0].ScannedAt.Equal(recordedAt))
	})
}
