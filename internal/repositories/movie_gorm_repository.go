package repositories

import (
	"errors"
	"fmt"
	"time"
	"watchlog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMovieRepository is a GORM implementation of MovieRepository.
type GORMMovieRepository struct {
	db *gorm.DB
}

// NewGORMMovieRepository creates a new instance of GORMMovieRepository.
func NewGORMMovieRepository(db *gorm.DB) *GORMMovieRepository {
	return &GORMMovieRepository{
		db: db,
	}
}

// ListByUser retrieves all of a user's entries ordered by updated_at, so
// list order matches insertion order and moved entries land at the tail.
func (r *GORMMovieRepository) ListByUser(userID string) ([]models.Movie, error) {
	var movies []models.Movie
	if err := r.db.Where("user_id = ?", userID).Order("updated_at asc").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies for user %s: %w", userID, err)
	}
	return movies, nil
}

// GetByID retrieves a single entry by its ID, scoped to the user.
func (r *GORMMovieRepository) GetByID(userID, id string) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.First(&movie, "user_id = ? AND id = ?", userID, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("movie with ID %s: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get movie by ID %s: %w", id, err)
	}
	return &movie, nil
}

// GetByTitleKey retrieves the entry whose normalized title matches titleKey,
// searching across all categories of the user's collection.
func (r *GORMMovieRepository) GetByTitleKey(userID, titleKey string) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.First(&movie, "user_id = ? AND title_key = ?", userID, titleKey).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("movie titled %q: %w", titleKey, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get movie by title %q: %w", titleKey, err)
	}
	return &movie, nil
}

// Create inserts a new entry. The unique index on (user_id, title_key)
// rejects a second entry with the same normalized title; that surfaces as
// gorm.ErrDuplicatedKey so callers can treat races like any other duplicate.
func (r *GORMMovieRepository) Create(movie *models.Movie) error {
	if movie.ID == "" {
		movie.ID = uuid.New().String()
	}
	if movie.AddedAt.IsZero() {
		movie.AddedAt = time.Now()
	}
	if err := r.db.Create(movie).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("movie titled %q: %w", movie.TitleKey, gorm.ErrDuplicatedKey)
		}
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return nil
}

// UpdateCategory reassigns an entry to a new category. GORM bumps updated_at
// on the way through, which re-appends the entry at its destination.
func (r *GORMMovieRepository) UpdateCategory(userID, id, category string) error {
	res := r.db.Model(&models.Movie{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(map[string]interface{}{"category": category})
	if res.Error != nil {
		return fmt.Errorf("failed to update category for movie %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("movie with ID %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes an entry by its ID, scoped to the user.
func (r *GORMMovieRepository) Delete(userID, id string) error {
	res := r.db.Delete(&models.Movie{}, "user_id = ? AND id = ?", userID, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete movie %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("movie with ID %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
