package scheduler

import (
	"fmt"

	"novaestudio_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

// NewPeriodicScheduler registers the recurring maintenance tasks and returns
// the asynq scheduler that enqueues them.
func NewPeriodicScheduler(cfg config.SchedulerConfig, retention config.RetentionConfig) (*asynq.Scheduler, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	s := asynq.NewScheduler(opt, nil)

	task, err := NewRetentionSweepTask(RetentionSweepPayload{RetentionDays: retention.GetRetentionDays()})
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	if _, err := s.Register("@every 24h", task, asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register retention sweep: %w", err)
	}
	return s, nil
}
