package repositories

import (
	"fmt"
	"sync"
	"time"
	"watchlog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockMovieRepository is an in-memory implementation of MovieRepository.
// Entries are kept in a slice so list order survives, matching the
// updated_at ordering of the GORM implementation: moves re-append the entry
// at the tail.
type MockMovieRepository struct {
	movies []models.Movie
	mu     sync.RWMutex
}

// NewMockMovieRepository creates a new instance of MockMovieRepository.
func NewMockMovieRepository() *MockMovieRepository {
	return &MockMovieRepository{}
}

// ListByUser returns all entries belonging to the user, in stored order.
func (r *MockMovieRepository) ListByUser(userID string) ([]models.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.Movie
	for _, m := range r.movies {
		if m.UserID == userID {
			list = append(list, m)
		}
	}
	return list, nil
}

// GetByID returns the user's entry with the given ID.
func (r *MockMovieRepository) GetByID(userID, id string) (*models.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.movies {
		if m.UserID == userID && m.ID == id {
			movie := m
			return &movie, nil
		}
	}
	return nil, fmt.Errorf("movie with ID %s: %w", id, gorm.ErrRecordNotFound)
}

// GetByTitleKey returns the user's entry with a matching normalized title.
func (r *MockMovieRepository) GetByTitleKey(userID, titleKey string) (*models.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.movies {
		if m.UserID == userID && m.TitleKey == titleKey {
			movie := m
			return &movie, nil
		}
	}
	return nil, fmt.Errorf("movie titled %q: %w", titleKey, gorm.ErrRecordNotFound)
}

// Create appends a new entry, rejecting a duplicate (user, title key) pair
// the same way the database unique index does.
func (r *MockMovieRepository) Create(movie *models.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.movies {
		if m.UserID == movie.UserID && m.TitleKey == movie.TitleKey {
			return fmt.Errorf("movie titled %q: %w", movie.TitleKey, gorm.ErrDuplicatedKey)
		}
	}

	if movie.ID == "" {
		movie.ID = uuid.New().String()
	}
	if movie.AddedAt.IsZero() {
		movie.AddedAt = time.Now()
	}
	movie.UpdatedAt = time.Now()
	r.movies = append(r.movies, *movie)
	return nil
}

// UpdateCategory reassigns an entry to a new category and moves it to the
// tail of the stored slice.
func (r *MockMovieRepository) UpdateCategory(userID, id, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.movies {
		if m.UserID == userID && m.ID == id {
			m.Category = category
			m.UpdatedAt = time.Now()
			r.movies = append(r.movies[:i], r.movies[i+1:]...)
			r.movies = append(r.movies, m)
			return nil
		}
	}
	return fmt.Errorf("movie with ID %s: %w", id, gorm.ErrRecordNotFound)
}

// Delete removes the user's entry with the given ID.
func (r *MockMovieRepository) Delete(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.movies {
		if m.UserID == userID && m.ID == id {
			r.movies = append(r.movies[:i], r.movies[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("movie with ID %s: %w", id, gorm.ErrRecordNotFound)
}
