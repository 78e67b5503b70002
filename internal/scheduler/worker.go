package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"depot_dispatch_backend/internal/dispatch/repository"
	"depot_dispatch_backend/internal/events"
	"depot_dispatch_backend/platform/config"
	"depot_dispatch_backend/platform/logger"
)

// Worker consumes dispatch background tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   repository.Repository
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskDayCloseReview, w.handleDayCloseReview)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleDayCloseReview lists rows still on work with no reported count at the
// day's close and publishes a review event for each affected convoy. Nothing
// is mutated; the review is advisory.
func (w *Worker) handleDayCloseReview(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDayCloseReviewPayload(task)
	if err != nil {
		return err
	}

	serviceDate, err := time.Parse("2006-01-02", payload.ServiceDate)
	if err != nil {
		return err
	}
	convoyID, err := uuid.Parse(payload.ConvoyID)
	if err != nil {
		return err
	}

	rows, err := w.repo.ListUnreportedActive(ctx, serviceDate, convoyID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	slotIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		slotIDs = append(slotIDs, row.SlotID)
	}

	w.log.Warn("day close review found unreported active rows",
		"date", payload.ServiceDate,
		"convoy_id", payload.ConvoyID,
		"rows", len(slotIDs),
	)

	if w.bus == nil {
		return nil
	}
	return w.bus.PublishSync(ctx, events.DayCloseReviewDue{
		BaseEvent:   events.NewBaseEvent(),
		ServiceDate: serviceDate,
		ConvoyID:    convoyID,
		SlotIDs:     slotIDs,
	})
}
