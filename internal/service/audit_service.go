package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/models"
)

type auditRepository interface {
	Insert(ctx context.Context, entry *models.AuditEntry) error
}

// AuditService records operator actions in the local audit trail. Recording
// is best-effort: a failed write is logged and never blocks the action
// itself. A nil repository disables the trail entirely.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs an audit service.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record writes one audit entry for the session's operator.
func (s *AuditService) Record(ctx context.Context, session *models.Session, ip, action, resource string, resourceID string, detail interface{}) {
	if s == nil || s.repo == nil {
		return
	}

	entry := &models.AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Resource:  resource,
		IPAddress: ip,
	}
	if session != nil {
		entry.SessionID = session.ID
		entry.UserName = session.UserName
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if detail != nil {
		if payload, err := json.Marshal(detail); err == nil {
			entry.Detail = payload
		}
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit entry",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err),
		)
	}
}
