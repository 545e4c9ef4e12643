package storage

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/go-watchlist/watchlist/storage/model"
)

// Storage is a GORM-based storage implementation
type Storage struct {
	db         *gorm.DB
	userParams Argon2idParams
}

var models = []any{
	&model.User{},
	&model.Movie{},
	&model.SessionRecord{},
}

// NewStorage creates a new GORM-based storage
func NewStorage(config Config) (*Storage, error) {
	db, err := Connect(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate the schemas
	if err = db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Fill user hash params with defaults if zero values
	params := config.UsersHash
	if params.Time == 0 {
		params = defaultArgon2idParams()
	}

	return &Storage{
		db:         db,
		userParams: params,
	}, nil
}

// InitSchema creates all tables. If drop is set, existing tables and their
// data are removed first.
func (s *Storage) InitSchema(drop bool) error {
	if drop {
		if err := s.db.Migrator().DropTable(models...); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
	}
	if err := s.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the underlying database connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Backends returns the grouped stores backed by this Storage
func (s *Storage) Backends() model.Backends {
	return model.Backends{
		Movies: s.MoviesStorage(),
		Users:  s.UsersStorage(),
	}
}

// Users storage is implemented in users_storage.go,
// movies storage in movies_storage.go and
// session records in session_storage.go
