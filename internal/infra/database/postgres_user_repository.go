package database

import (
	"context"
	"database/sql"
	"fmt"

	"domain_expiry_notifier/internal/domain/user"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// ListAlertPrefs loads every user with a notification-settings row.
// Users without a row never participate in the daily run.
func (r *PostgresUserRepository) ListAlertPrefs(ctx context.Context) ([]*user.AlertPrefs, error) {
	query := `SELECT s.user_id, s.threshold_days, s.webhook_enabled, s.webhook_url,
                      s.email_enabled, COALESCE(NULLIF(s.email_to, ''), COALESCE(u.email, '')),
                      s.smtp_host, s.smtp_port, s.smtp_secure, s.smtp_user, s.smtp_pass, s.smtp_from
               FROM user_alert_settings s
               JOIN users u ON u.id = s.user_id
               ORDER BY s.user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing alert preferences: %w", err)
	}
	defer rows.Close()

	prefs := make([]*user.AlertPrefs, 0)
	for rows.Next() {
		p := &user.AlertPrefs{}
		var webhookURL, emailTo sql.NullString
		var smtpHost, smtpUser, smtpPass, smtpFrom sql.NullString
		var smtpPort sql.NullInt64
		var smtpSecure sql.NullBool
		if err := rows.Scan(
			&p.UserID, &p.ThresholdDays, &p.WebhookEnabled, &webhookURL,
			&p.EmailEnabled, &emailTo,
			&smtpHost, &smtpPort, &smtpSecure, &smtpUser, &smtpPass, &smtpFrom,
		); err != nil {
			return nil, fmt.Errorf("error scanning alert preferences: %w", err)
		}
		p.WebhookURL = webhookURL.String
		p.EmailTo = emailTo.String
		if smtpHost.Valid && smtpHost.String != "" {
			p.SMTP = &user.SMTPOverride{
				Host:   smtpHost.String,
				Port:   int(smtpPort.Int64),
				Secure: smtpSecure.Bool,
				User:   smtpUser.String,
				Pass:   smtpPass.String,
				From:   smtpFrom.String,
			}
		}
		prefs = append(prefs, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert preferences: %w", err)
	}
	return prefs, nil
}
