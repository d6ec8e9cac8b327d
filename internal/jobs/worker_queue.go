package jobs

import (
	"github.com/seonu/drillforge/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	auditPool    *worker.Pool
	auditService worker.AuditServiceInterface
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(auditPool *worker.Pool, auditService worker.AuditServiceInterface) JobQueue {
	return &WorkerQueue{
		auditPool:    auditPool,
		auditService: auditService,
	}
}

func (q *WorkerQueue) EnqueueGraphAudit() error {
	return q.auditPool.Submit(&worker.GraphAuditJob{
		AuditService: q.auditService,
	})
}
