package repositories

import (
	"watchlog/internal/models"
)

// MovieRepository defines the interface for movie entry data access. Every
// method is scoped by user ID so one user's entries are never visible to
// another.
type MovieRepository interface {
	ListByUser(userID string) ([]models.Movie, error)
	GetByID(userID, id string) (*models.Movie, error)
	GetByTitleKey(userID, titleKey string) (*models.Movie, error)
	Create(movie *models.Movie) error
	UpdateCategory(userID, id, category string) error
	Delete(userID, id string) error
}
