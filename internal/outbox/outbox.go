// Package outbox decouples the employee-lifecycle side effect of Final
// Approve from the approval write itself. The transition enqueues a durable
// job; a worker applies it idempotently and retries independently, so the
// secondary bookkeeping can never block or fail the approval.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrdocflow/internal/config"
	"hrdocflow/internal/infrastructure/redis"
)

// EmployeeReleaseJob asks the worker to move an employee to the alumni stage
// after a release document was finally approved.
type EmployeeReleaseJob struct {
	JobID           string     `json:"job_id"`
	DocumentID      string     `json:"document_id"`
	EmployeeID      string     `json:"employee_id"`
	TerminationDate *time.Time `json:"termination_date,omitempty"`
	EnqueuedAt      time.Time  `json:"enqueued_at"`
}

// Queue is the producer side of the outbox.
type Queue struct {
	redis  *redis.RedisClient
	cfg    *config.OutboxConfig
	logger *zap.Logger
}

func NewQueue(cfg *config.Config, redisClient *redis.RedisClient, logger *zap.Logger) *Queue {
	return &Queue{
		redis:  redisClient,
		cfg:    &cfg.Outbox,
		logger: logger,
	}
}

// EnqueueEmployeeRelease pushes a job onto the queue. Callers treat failure
// as best-effort: log and move on, the approval already happened.
func (q *Queue) EnqueueEmployeeRelease(ctx context.Context, documentID, employeeID string, terminationDate *time.Time) error {
	job := EmployeeReleaseJob{
		JobID:           uuid.NewString(),
		DocumentID:      documentID,
		EmployeeID:      employeeID,
		TerminationDate: terminationDate,
		EnqueuedAt:      time.Now().UTC(),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode release job: %w", err)
	}
	if err := q.redis.LPush(ctx, q.cfg.Queue, string(payload)); err != nil {
		return fmt.Errorf("failed to enqueue release job: %w", err)
	}

	q.logger.Info("Employee release job enqueued",
		zap.String("job_id", job.JobID),
		zap.String("document_id", documentID),
		zap.String("employee_id", employeeID),
	)
	return nil
}
