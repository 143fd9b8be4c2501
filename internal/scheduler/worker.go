package scheduler

import (
	"context"
	"fmt"
	"time"

	"novaestudio_backend/internal/conversation/repository"
	"novaestudio_backend/platform/config"
	"novaestudio_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker processes background maintenance tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   repository.ConversationsRepository
	log    *logger.Logger
}

// NewWorker creates the asynq worker with its task handlers registered.
func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 2,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		log:    log,
	}

	mux.HandleFunc(TaskRetentionSweep, w.handleRetentionSweep)

	return w, nil
}

// Run starts processing tasks and blocks until Shutdown.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker gracefully.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleRetentionSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRetentionSweepPayload(task)
	if err != nil {
		return err
	}

	days := payload.RetentionDays
	if days < 1 {
		days = 90
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	removed, err := w.repo.DeleteStaleWithoutConsent(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("retention sweep: %w", err)
	}

	w.log.Info("retention sweep completed",
		"cutoff", cutoff.Format(time.RFC3339),
		"removed", removed,
	)
	return nil
}
