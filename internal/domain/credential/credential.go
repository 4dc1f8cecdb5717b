// Package credential models stored DNS provider accounts. Secrets are
// kept encrypted at rest; decryption is a collaborator concern.
package credential

import (
	"context"
	"database/sql"
	"time"
)

// Credential is one DNS provider account belonging to a user.
type Credential struct {
	ID        int64
	UserID    int64
	Name      string
	Provider  string
	Secrets   string // encrypted blob
	AccountID sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository retrieves credentials for the scheduler.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*Credential, error)
}

// Decryptor turns an encrypted secrets blob into provider-specific
// auth material.
type Decryptor interface {
	Decrypt(ciphertext string) (map[string]string, error)
}
