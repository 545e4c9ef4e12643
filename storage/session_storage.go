package storage

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/go-watchlist/watchlist/storage/model"
)

// SessionStorage implements fiber.Storage on top of the session_records table.
type SessionStorage struct {
	db *gorm.DB
}

// SessionStorage provides an accessor for the database session backend.
func (s *Storage) SessionStorage() *SessionStorage {
	return &SessionStorage{db: s.db}
}

// Get returns the value stored at key. If not found or expired, returns nil, nil.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var rec model.SessionRecord
	err := s.db.Where(&model.SessionRecord{Key: key}).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if rec.Expired(time.Now()) {
		if err = s.Delete(key); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return rec.Value, nil
}

// Set upserts the value for key. A zero exp stores the value without expiry.
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	rec := model.SessionRecord{
		Key:   key,
		Value: val,
	}
	if exp > 0 {
		rec.ExpiresAt = time.Now().Add(exp).Unix()
	}
	return s.db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns(
				[]string{
					"value",
					"expires_at",
					"updated_at",
				},
			),
		},
	).Create(&rec).Error
}

// Delete removes key. No error if it's missing.
func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Where(&model.SessionRecord{Key: key}).Delete(&model.SessionRecord{}).Error
}

// Reset removes all session records.
func (s *SessionStorage) Reset() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.SessionRecord{}).Error
}

// PurgeExpired removes all records whose expiry has passed and returns how
// many were deleted.
func (s *SessionStorage) PurgeExpired() (int64, error) {
	res := s.db.Where("expires_at <> 0 AND expires_at <= ?", time.Now().Unix()).Delete(&model.SessionRecord{})
	return res.RowsAffected, res.Error
}

// Close is a no-op; the connection pool is owned by Storage.
func (*SessionStorage) Close() error {
	return nil
}
