package alert

import "time"

// Account identifies one DNS credential through which a domain is
// reachable; a domain can belong to several accounts of the same user.
type Account struct {
	CredentialID   int64  `json:"credentialId"`
	CredentialName string `json:"credentialName"`
	Provider       string `json:"provider"`
}

// Payload is the notification body sent through every channel.
// ExpiresAt is a plain calendar date string (2006-01-02).
type Payload struct {
	Type          string    `json:"type"`
	UserID        int64     `json:"userId"`
	Domain        string    `json:"domain"`
	ExpiresAt     string    `json:"expiresAt"`
	DaysLeft      int       `json:"daysLeft"`
	ThresholdDays int       `json:"thresholdDays"`
	Accounts      []Account `json:"accounts"`
	CheckedAt     time.Time `json:"checkedAt"`
}

// PayloadTypeDomainExpiry tags expiry alerts in the payload.
const PayloadTypeDomainExpiry = "domain-expiry"
