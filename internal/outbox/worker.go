package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"hrdocflow/internal/config"
	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/domain/repository"
	"hrdocflow/internal/infrastructure/redis"
)

// listClient is the slice of the redis client the worker needs.
type listClient interface {
	LPush(ctx context.Context, key string, value interface{}) error
	BRPopLPush(ctx context.Context, source, destination string, timeout time.Duration) (string, error)
	LRem(ctx context.Context, key string, count int64, value interface{}) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Worker drains the employee-release queue. Jobs are moved into a processing
// list before being applied, acked with LREM on success, and pushed back onto
// the queue after a delay on failure, so a crash mid-apply loses nothing and
// a persistently failing job cannot spin the loop.
type Worker struct {
	redis     listClient
	directory repository.DirectoryRepository
	cfg       *config.OutboxConfig
	logger    *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewWorker(
	lc fx.Lifecycle,
	cfg *config.Config,
	redisClient *redis.RedisClient,
	directory repository.DirectoryRepository,
	logger *zap.Logger,
) *Worker {
	w := &Worker{
		redis:     redisClient,
		directory: directory,
		cfg:       &cfg.Outbox,
		logger:    logger,
		done:      make(chan struct{}),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			runCtx, cancel := context.WithCancel(context.Background())
			w.cancel = cancel

			// Jobs stranded in the processing list by a previous crash go
			// back onto the queue before the loop starts.
			if err := w.requeueStranded(ctx); err != nil {
				w.logger.Warn("Failed to requeue stranded outbox jobs", zap.Error(err))
			}

			go w.run(runCtx)
			logger.Info("Outbox worker started",
				zap.String("queue", w.cfg.Queue),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.cancel()
			select {
			case <-w.done:
			case <-ctx.Done():
			}
			logger.Info("Outbox worker stopped")
			return nil
		},
	})

	return w
}

func (w *Worker) requeueStranded(ctx context.Context) error {
	stranded, err := w.redis.LRange(ctx, w.cfg.ProcessingList, 0, -1)
	if err != nil {
		return err
	}
	for _, payload := range stranded {
		if err := w.redis.LPush(ctx, w.cfg.Queue, payload); err != nil {
			return err
		}
		if err := w.redis.LRem(ctx, w.cfg.ProcessingList, 1, payload); err != nil {
			return err
		}
	}
	if len(stranded) > 0 {
		w.logger.Info("Requeued stranded outbox jobs", zap.Int("count", len(stranded)))
	}
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	pollTimeout := time.Duration(w.cfg.PollSeconds) * time.Second
	retryDelay := time.Duration(w.cfg.RetrySeconds) * time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		payload, err := w.redis.BRPopLPush(ctx, w.cfg.Queue, w.cfg.ProcessingList, pollTimeout)
		if err != nil {
			if redis.IsNil(err) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("Outbox poll failed", zap.Error(err))
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return
			}
			continue
		}

		if err := w.process(ctx, payload); err != nil {
			w.logger.Error("Outbox job failed, requeueing after delay",
				zap.Error(err),
			)
			// Hold the failed job in the processing list through the retry
			// delay, then push it back. Stopping mid-delay leaves it there
			// for the re-drain on next start.
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return
			}
			if pushErr := w.redis.LPush(ctx, w.cfg.Queue, payload); pushErr != nil {
				w.logger.Error("Failed to requeue outbox job", zap.Error(pushErr))
			}
		}
		if remErr := w.redis.LRem(ctx, w.cfg.ProcessingList, 1, payload); remErr != nil {
			w.logger.Error("Failed to ack outbox job", zap.Error(remErr))
		}
	}
}

// process applies one job. Applying is idempotent: an employee already moved
// to alumni is a success, and a job for a deleted employee is dropped rather
// than retried forever.
func (w *Worker) process(ctx context.Context, payload string) error {
	var job EmployeeReleaseJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		w.logger.Error("Dropping undecodable outbox payload", zap.Error(err))
		return nil
	}

	emp, err := w.directory.GetEmployee(ctx, job.EmployeeID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			w.logger.Warn("Dropping release job for unknown employee",
				zap.String("job_id", job.JobID),
				zap.String("employee_id", job.EmployeeID),
			)
			return nil
		}
		return err
	}

	if emp.Stage == entity.StageAlumni {
		w.logger.Info("Employee already alumni, job is a no-op",
			zap.String("job_id", job.JobID),
			zap.String("employee_id", job.EmployeeID),
		)
		return nil
	}

	if err := w.directory.SetEmployeeStage(ctx, job.EmployeeID, entity.StageAlumni, job.TerminationDate); err != nil {
		return err
	}

	w.logger.Info("Employee released",
		zap.String("job_id", job.JobID),
		zap.String("document_id", job.DocumentID),
		zap.String("employee_id", job.EmployeeID),
	)
	return nil
}

var Module = fx.Module("outbox",
	fx.Provide(NewQueue),
	fx.Invoke(NewWorker),
)
