package services

import (
	"context"

	"github.com/yukikurage/kanban-board-api/internal/metrics"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"go.uber.org/zap"
)

// AuditEntry describes one action to record.
type AuditEntry struct {
	EntityID    string
	EntityTitle string
	EntityType  models.EntityType
	Action      models.Action
	OrgID       string
}

// AuditRecorder appends audit entries after the primary write has committed.
// A failed append is logged and counted; it never changes the caller's result.
type AuditRecorder struct {
	repo   repository.AuditLogRepository
	logger *zap.Logger
}

// NewAuditRecorder creates a new AuditRecorder.
func NewAuditRecorder(repo repository.AuditLogRepository, logger *zap.Logger) *AuditRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditRecorder{repo: repo, logger: logger}
}

// Record appends entry. The request context may already be cancelled once the
// response is written, so the append runs detached from its cancellation.
func (a *AuditRecorder) Record(ctx context.Context, entry AuditEntry) {
	log := &models.AuditLog{
		EntityID:    entry.EntityID,
		EntityTitle: entry.EntityTitle,
		EntityType:  entry.EntityType,
		Action:      entry.Action,
		OrgID:       entry.OrgID,
	}

	if err := a.repo.Create(context.WithoutCancel(ctx), log); err != nil {
		metrics.IncAuditFailure(string(entry.EntityType), string(entry.Action))
		a.logger.Warn("failed to write audit log",
			zap.String("entity_id", entry.EntityID),
			zap.String("entity_type", string(entry.EntityType)),
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
	}
}
