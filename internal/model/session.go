package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionTTL is the absolute lifetime of a session row. Resolution treats
// rows past ExpiresAt as absent, so an unswept expired row is harmless.
const SessionTTL = 7 * 24 * time.Hour

// Session maps an opaque token handed to the browser onto a user.
// The token doubles as the primary key; creating the same token twice
// refreshes the expiry instead of failing.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
