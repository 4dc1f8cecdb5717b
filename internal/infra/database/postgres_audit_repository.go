package database

import (
	"context"
	"database/sql"
	"fmt"

	"domain_expiry_notifier/internal/domain/audit"
)

type PostgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

func (r *PostgresAuditRepository) Record(ctx context.Context, entry audit.Entry) error {
	query := `INSERT INTO audit_logs (user_id, action, resource_type, domain, status, error_message)
               VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.Action, entry.ResourceType, entry.Domain, entry.Status, entry.ErrorMessage)
	if err != nil {
		return fmt.Errorf("error recording audit entry: %w", err)
	}
	return nil
}
