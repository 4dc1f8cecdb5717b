package database

import (
	"context"
	"database/sql"
	"fmt"

	"domain_expiry_notifier/internal/domain/credential"
)

type PostgresCredentialRepository struct {
	db *sql.DB
}

func NewPostgresCredentialRepository(db *sql.DB) *PostgresCredentialRepository {
	return &PostgresCredentialRepository{db: db}
}

func (r *PostgresCredentialRepository) ListByUser(ctx context.Context, userID int64) ([]*credential.Credential, error) {
	query := `SELECT id, user_id, name, provider, secrets, account_id, created_at, updated_at
               FROM dns_credentials WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing credentials for user %d: %w", userID, err)
	}
	defer rows.Close()

	creds := make([]*credential.Credential, 0)
	for rows.Next() {
		c := &credential.Credential{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Provider, &c.Secrets, &c.AccountID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning credential: %w", err)
		}
		creds = append(creds, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credentials: %w", err)
	}
	return creds, nil
}
