package worker

import (
	"context"
)

// GraphAuditJob revalidates the whole scene collection in the
// background and refreshes the cached audit report.
type GraphAuditJob struct {
	AuditService AuditServiceInterface
}

func (j *GraphAuditJob) Name() string { return "graph_audit" }

func (j *GraphAuditJob) Run(ctx context.Context) error {
	return j.AuditService.AuditGraph(ctx)
}
