package domain

import "time"

// AccessToken is a personal access token issued at login. Token holds the
// sha256 hex digest of the secret, never the secret itself.
type AccessToken struct {
	ID         uint64     `json:"id" db:"id"`
	UserID     uint64     `json:"user_id" db:"user_id"`
	Name       string     `json:"name" db:"name"`
	Token      string     `json:"-" db:"token" gorm:"uniqueIndex"`
	LastUsedAt *time.Time `json:"last_used_at" db:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

func (t *AccessToken) TableName() string {
	return "personal_access_tokens"
}
