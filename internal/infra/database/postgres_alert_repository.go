package database

import (
	"context"
	"database/sql"
	"fmt"

	"domain_expiry_notifier/internal/domain/alert"
)

// ErrStateNotFound is returned when no notification state exists for
// an identity.
var ErrStateNotFound = fmt.Errorf("notification state not found")

type PostgresAlertRepository struct {
	db *sql.DB
}

func NewPostgresAlertRepository(db *sql.DB) *PostgresAlertRepository {
	return &PostgresAlertRepository{db: db}
}

func (r *PostgresAlertRepository) Get(ctx context.Context, id alert.Identity) (*alert.State, error) {
	query := `SELECT id, user_id, domain, expires_at, threshold_days, channel, status, payload, error_message, last_notified_at, created_at, updated_at
               FROM expiry_notification_states
               WHERE user_id = $1 AND domain = $2 AND expires_at = $3 AND threshold_days = $4 AND channel = $5`
	st := alert.State{}
	err := r.db.QueryRowContext(ctx, query, id.UserID, id.Domain, id.ExpiresAt, id.ThresholdDays, id.Channel).Scan(
		&st.ID, &st.UserID, &st.Domain, &st.ExpiresAt, &st.ThresholdDays, &st.Channel,
		&st.Status, &st.Payload, &st.ErrorMessage, &st.LastNotifiedAt, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("error getting notification state: %w", err)
	}
	return &st, nil
}

// Upsert inserts or replaces the state for its composite identity.
// Last-writer-wins; the unique index on the identity plus the 24h
// suppression window makes that sufficient.
func (r *PostgresAlertRepository) Upsert(ctx context.Context, st *alert.State) error {
	query := `INSERT INTO expiry_notification_states
                  (user_id, domain, expires_at, threshold_days, channel, status, payload, error_message, last_notified_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
               ON CONFLICT (user_id, domain, expires_at, threshold_days, channel)
               DO UPDATE SET status = EXCLUDED.status,
                             payload = EXCLUDED.payload,
                             error_message = EXCLUDED.error_message,
                             last_notified_at = EXCLUDED.last_notified_at,
                             updated_at = NOW()
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		st.UserID, st.Domain, st.ExpiresAt, st.ThresholdDays, st.Channel,
		st.Status, st.Payload, st.ErrorMessage, st.LastNotifiedAt,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting notification state: %w", err)
	}
	return nil
}
