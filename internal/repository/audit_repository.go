package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/artsfest/admin-panel/internal/models"
)

// AuditRepository persists the local operator audit trail.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an audit repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert records one audit entry.
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_entries (id, session_id, user_name, action, resource, resource_id, detail, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID,
		entry.SessionID,
		entry.UserName,
		entry.Action,
		entry.Resource,
		entry.ResourceID,
		entry.Detail,
		entry.IPAddress,
		entry.CreatedAt,
	)
	return err
}

// Recent returns the newest audit entries, most recent first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries := []models.AuditEntry{}
	err := r.db.SelectContext(ctx, &entries,
		`SELECT id, session_id, user_name, action, resource, resource_id, detail, ip_address, created_at
		 FROM audit_entries ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
