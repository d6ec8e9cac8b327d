package worker

import "context"

// AuditServiceInterface lets audit jobs run without importing the
// services package directly.
type AuditServiceInterface interface {
	AuditGraph(ctx context.Context) error
}
