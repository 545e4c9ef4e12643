package storage

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/go-watchlist/watchlist/storage/model"
)

// MoviesStorage returns a MoviesStorage
func (s *Storage) MoviesStorage() *MoviesStorage {
	return &MoviesStorage{db: s.db}
}

// MoviesStorage implements model.MoviesStore using GORM
type MoviesStorage struct {
	db *gorm.DB
}

// List returns all movies ordered by id
func (s *MoviesStorage) List() ([]model.Movie, error) {
	var movies []model.Movie
	if err := s.db.Order("id").Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

// Count returns the number of stored movies
func (s *MoviesStorage) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&model.Movie{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Get returns a movie by id
func (s *MoviesStorage) Get(id uint) (*model.Movie, error) {
	var m model.Movie
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("movie not found: %d", id)
		}
		return nil, err
	}
	return &m, nil
}

// Create stores a new movie
func (s *MoviesStorage) Create(title, year string) (*model.Movie, error) {
	m := model.Movie{
		Title: title,
		Year:  year,
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create movie")
	}
	return &m, nil
}

// Update replaces title and year of an existing movie
func (s *MoviesStorage) Update(id uint, title, year string) (*model.Movie, error) {
	var m model.Movie
	err := s.db.Transaction(
		func(tx *gorm.DB) error {
			if err := tx.First(&m, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return model.NotFoundErrorFmt("movie not found: %d", id)
				}
				return err
			}
			m.Title = title
			m.Year = year
			return tx.Save(&m).Error
		},
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a movie by id
func (s *MoviesStorage) Delete(id uint) error {
	res := s.db.Delete(&model.Movie{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("movie not found: %d", id)
	}
	return nil
}
