package queue

import (
	"encoding/json"
	"time"

	"inkdrop-backend/internal/config"
	"inkdrop-backend/internal/shared"
	"inkdrop-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.WorkerConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, cfg config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		cfg:       cfg,
	}
}

// RegisterJobs registers every periodic task.
func (s *Scheduler) RegisterJobs() error {
	return s.registerBackfillSizesJob()
}

// ================================================
// Backfill remote book sizes (daily, 03:00 UTC by default)
// ================================================
func (s *Scheduler) registerBackfillSizesJob() error {
	payload, err := json.Marshal(struct{}{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeBackfillBookSizes, payload)

	_, err = s.scheduler.Register(
		s.cfg.BackfillCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
		asynq.Unique(time.Hour),
	)
	if err != nil {
		logger.Error("Failed to register BackfillSizes job", err)
		return err
	}

	logger.Info("Registered BackfillSizes job", map[string]interface{}{
		"schedule": s.cfg.BackfillCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
