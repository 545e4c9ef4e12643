package model

import (
	"time"
)

// SessionRecord stores an opaque value for the database session backend.
//
// Values are raw bytes produced by the session layer; the database does not
// interpret them. ExpiresAt is a unix timestamp in seconds, zero means the
// record never expires.
type SessionRecord struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Key       string `gorm:"primaryKey;size:128" json:"key"`
	Value     []byte `json:"-"`
	ExpiresAt int64  `gorm:"index" json:"expires_at"`
}

// Expired reports whether the record is past its expiry at the given time
func (r SessionRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != 0 && r.ExpiresAt <= now.Unix()
}
