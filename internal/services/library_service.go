package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"watchlog/internal/models"
	"watchlog/internal/repositories"
	"watchlog/pkg/rabbitmq"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LibraryService handles business logic for per-user movie collections.
type LibraryService struct {
	movieRepo repositories.MovieRepository
	mqClient  *rabbitmq.Client
}

// NewLibraryService creates a new LibraryService. mqClient may be nil, in
// which case activity events are skipped.
func NewLibraryService(movieRepo repositories.MovieRepository, mqClient *rabbitmq.Client) *LibraryService {
	return &LibraryService{
		movieRepo: movieRepo,
		mqClient:  mqClient,
	}
}

// GetCollection returns the user's three category lists. A user who has
// never added anything gets an empty triple; nothing is persisted until the
// first add.
func (s *LibraryService) GetCollection(userID string) (*models.Collection, error) {
	collection := models.NewCollection()
	if userID == "" {
		return collection, nil
	}

	movies, err := s.movieRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	for _, m := range movies {
		collection.Append(m)
	}
	return collection, nil
}

// AddEntry appends a new movie to the named category. Titles are unique
// case-insensitively (and ignoring surrounding whitespace) across all three
// categories combined.
func (s *LibraryService) AddEntry(userID, title, category string, year *int) (*models.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, failf(ErrInvalidInput, "movie title is required")
	}
	if !models.ValidCategory(category) {
		return nil, failf(ErrInvalidInput, "invalid category")
	}

	titleKey := models.NormalizeTitle(title)
	if existing, err := s.movieRepo.GetByTitleKey(userID, titleKey); err == nil && existing != nil {
		return nil, failf(ErrDuplicate, "this movie already exists in your library")
	}

	movie := &models.Movie{
		ID:       uuid.New().String(),
		UserID:   userID,
		Title:    title,
		TitleKey: titleKey,
		Year:     year,
		Category: category,
		AddedAt:  time.Now(),
	}
	if err := s.movieRepo.Create(movie); err != nil {
		// A concurrent add of the same title slips past the lookup above;
		// the storage unique index catches it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, failf(ErrDuplicate, "this movie already exists in your library")
		}
		return nil, fmt.Errorf("failed to add movie: %w", err)
	}

	s.publishEvent("movie.added", movie)
	return movie, nil
}

// MoveEntry relocates an entry to a different category. Moving to the
// category the entry already lives in fails with ErrNoOp.
func (s *LibraryService) MoveEntry(userID, id, newCategory string) (*models.Movie, error) {
	if !models.ValidCategory(newCategory) {
		return nil, failf(ErrInvalidInput, "invalid category")
	}

	movie, err := s.movieRepo.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failf(ErrNotFound, "movie not found")
		}
		return nil, err
	}
	if movie.Category == newCategory {
		return nil, failf(ErrNoOp, "movie is already in this category")
	}

	if err := s.movieRepo.UpdateCategory(userID, id, newCategory); err != nil {
		return nil, fmt.Errorf("failed to move movie %s: %w", id, err)
	}
	movie.Category = newCategory

	s.publishEvent("movie.moved", movie)
	return movie, nil
}

// DeleteEntry removes an entry from whichever category holds it.
func (s *LibraryService) DeleteEntry(userID, id string) (*models.Movie, error) {
	movie, err := s.movieRepo.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failf(ErrNotFound, "movie not found")
		}
		return nil, err
	}

	if err := s.movieRepo.Delete(userID, id); err != nil {
		return nil, fmt.Errorf("failed to delete movie %s: %w", id, err)
	}

	s.publishEvent("movie.deleted", movie)
	return movie, nil
}

// publishEvent fires a library activity event. Publication failures are
// logged and swallowed; the store operation already succeeded.
func (s *LibraryService) publishEvent(event string, movie *models.Movie) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"movieID":  movie.ID,
		"userID":   movie.UserID,
		"title":    movie.Title,
		"category": movie.Category,
	}
	if err := s.mqClient.PublishMovieEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for movie %s: %v", event, movie.ID, err)
	}
}
