package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
	"github.com/gymcore/gym-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// Recorder persists attendance events off the request path. Events are
// routed to a fixed set of workers by hashing the user id, so one user's
// events are written in scan order.
type Recorder struct {
	workers []chan domain.AccessEvent
	repo    ports.AccessEventRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewRecorder creates a Recorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRecorder(numWorkers int, repo ports.AccessEventRepository, log zerolog.Logger) *Recorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Recorder{
		workers: make([]chan domain.AccessEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan domain.AccessEvent, channelBuffer)
	}
	return r
}

var _ ports.AccessRecorder = (*Recorder)(nil)

// Start launches all worker goroutines. Workers drain what is already queued
// and stop when ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		r.wg.Add(1)
		go r.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// Record queues event for persistence. It never blocks: when the worker's
// buffer is full the event is dropped and counted.
func (r *Recorder) Record(event domain.AccessEvent) {
	idx := r.shardIndex(event.UserID)
	select {
	case r.workers[idx] <- event:
		metrics.AccessRecorderQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AccessEventsRecordedTotal.WithLabelValues("dropped").Inc()
		r.log.Warn().
			Str("user_id", event.UserID).
			Str("center_id", event.CenterID).
			Str("kind", string(event.Kind)).
			Int("worker_id", idx).
			Msg("attendance queue full, event dropped")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (r *Recorder) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(r.workers)))
}

func (r *Recorder) runWorker(ctx context.Context, id int, ch <-chan domain.AccessEvent) {
	defer r.wg.Done()
	depth := metrics.AccessRecorderQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case event := <-ch:
					depth.Dec()
					r.persist(ctx, id, event)
				default:
					return
				}
			}
		case event := <-ch:
			depth.Dec()
			r.persist(ctx, id, event)
		}
	}
}

// persist writes one event. Shutdown does not abort a write in progress; the
// insert timeout bounds it instead.
func (r *Recorder) persist(ctx context.Context, workerID int, event domain.AccessEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), insertTimeout)
	defer cancel()

	if err := r.repo.Insert(ctx, &event); err != nil {
		metrics.AccessEventsRecordedTotal.WithLabelValues("error").Inc()
		r.log.Error().Err(err).
			Str("user_id", event.UserID).
			Str("center_id", event.CenterID).
			Str("kind", string(event.Kind)).
			Int("worker_id", workerID).
			Msg("attendance event not persisted")
		return
	}
	metrics.AccessEventsRecordedTotal.WithLabelValues("ok").Inc()
}
