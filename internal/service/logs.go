package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/internal/repository"
)

// Logs is the downstream-only read side of the audit trail. The
// workflow never reads it back.
type Logs struct {
	log   *zap.Logger
	store repository.AuditStore
}

func NewLogs(store repository.AuditStore, log *zap.Logger) *Logs {
	return &Logs{
		log:   log,
		store: store,
	}
}

func (s *Logs) List(ctx context.Context, filter model.ListAuditFilter) (model.ListAuditEntries, error) {
	return s.store.ListAudit(ctx, filter)
}

// Persist is the kafka consumer's write path into system_logs.
func (s *Logs) Persist(ctx context.Context, entry model.AuditEntry) error {
	return s.store.AppendAudit(ctx, entry)
}
