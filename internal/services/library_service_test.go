package services_test

import (
	"fmt"
	"testing"

	"watchlog/internal/models"
	"watchlog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockMovieRepository is a mock implementation of repositories.MovieRepository
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) ListByUser(userID string) ([]models.Movie, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetByID(userID, id string) (*models.Movie, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetByTitleKey(userID, titleKey string) (*models.Movie, error) {
	args := m.Called(userID, titleKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) Create(movie *models.Movie) error {
	args := m.Called(movie)
	return args.Error(0)
}

func (m *MockMovieRepository) UpdateCategory(userID, id, category string) error {
	args := m.Called(userID, id, category)
	return args.Error(0)
}

func (m *MockMovieRepository) Delete(userID, id string) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

const testUserID = "user-123"

func TestLibraryService_AddEntry(t *testing.T) {
	mockRepo := new(MockMovieRepository)
	service := services.NewLibraryService(mockRepo, nil)

	// Successful add: the title is trimmed, the duplicate check uses the
	// normalized key, and the new entry gets a random ID.
	year := 2010
	mockRepo.On("GetByTitleKey", testUserID, "inception").Return(nil, notFoundErr("movie")).Once()
	mockRepo.On("Create", mock.MatchedBy(func(movie *models.Movie) bool {
		return movie.ID != "" &&
			movie.UserID == testUserID &&
			movie.Title == "Inception" &&
			movie.TitleKey == "inception" &&
			movie.Category == models.CategoryWishlist &&
			movie.Year != nil && *movie.Year == 2010 &&
			!movie.AddedAt.IsZero()
	})).Return(nil).Once()

	movie, err := service.AddEntry(testUserID, "  Inception ", models.CategoryWishlist, &year)
	assert.NoError(t, err)
	assert.Equal(t, "Inception", movie.Title)
	mockRepo.AssertExpectations(t)

	// Blank title
	_, err = service.AddEntry(testUserID, "   ", models.CategoryWishlist, nil)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	assert.Contains(t, err.Error(), "title is required")

	// Unknown category
	_, err = service.AddEntry(testUserID, "Inception", "favorites", nil)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	assert.Contains(t, err.Error(), "invalid category")

	// A title differing only by case and whitespace collides, regardless of
	// which category either entry targets.
	existing := &models.Movie{ID: "movie-1", Title: "Inception", TitleKey: "inception", Category: models.CategoryWishlist}
	mockRepo.On("GetByTitleKey", testUserID, "inception").Return(existing, nil).Once()
	_, err = service.AddEntry(testUserID, " INCEPTION  ", models.CategoryWatching, nil)
	assert.ErrorIs(t, err, services.ErrDuplicate)
	assert.Contains(t, err.Error(), "already exists")
	mockRepo.AssertExpectations(t)

	// When a concurrent add wins the race between the lookup and the
	// insert, the storage unique index fires and it still reads as a
	// duplicate, not an internal failure.
	mockRepo.On("GetByTitleKey", testUserID, "inception").Return(nil, notFoundErr("movie")).Once()
	mockRepo.On("Create", mock.Anything).Return(fmt.Errorf("movie titled %q: %w", "inception", gorm.ErrDuplicatedKey)).Once()
	_, err = service.AddEntry(testUserID, "Inception", models.CategoryWishlist, nil)
	assert.ErrorIs(t, err, services.ErrDuplicate)
	assert.Contains(t, err.Error(), "already exists")
	mockRepo.AssertExpectations(t)
}

func TestLibraryService_MoveEntry(t *testing.T) {
	mockRepo := new(MockMovieRepository)
	service := services.NewLibraryService(mockRepo, nil)

	// Unknown category fails before any lookup
	_, err := service.MoveEntry(testUserID, "movie-1", "favorites")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	// Unknown entry
	mockRepo.On("GetByID", testUserID, "missing").Return(nil, notFoundErr("movie")).Once()
	_, err = service.MoveEntry(testUserID, "missing", models.CategoryWatching)
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)

	entry := &models.Movie{ID: "movie-1", UserID: testUserID, Title: "Inception", Category: models.CategoryWishlist}

	// Moving to the current category is a no-op failure
	mockRepo.On("GetByID", testUserID, "movie-1").Return(entry, nil).Once()
	_, err = service.MoveEntry(testUserID, "movie-1", models.CategoryWishlist)
	assert.ErrorIs(t, err, services.ErrNoOp)
	assert.Contains(t, err.Error(), "already in this category")
	mockRepo.AssertExpectations(t)

	// Valid move relocates the entry and the category field follows
	mockRepo.On("GetByID", testUserID, "movie-1").Return(entry, nil).Once()
	mockRepo.On("UpdateCategory", testUserID, "movie-1", models.CategoryWatching).Return(nil).Once()
	moved, err := service.MoveEntry(testUserID, "movie-1", models.CategoryWatching)
	assert.NoError(t, err)
	assert.Equal(t, models.CategoryWatching, moved.Category)
	mockRepo.AssertExpectations(t)
}

func TestLibraryService_DeleteEntry(t *testing.T) {
	mockRepo := new(MockMovieRepository)
	service := services.NewLibraryService(mockRepo, nil)

	// Unknown entry
	mockRepo.On("GetByID", testUserID, "missing").Return(nil, notFoundErr("movie")).Once()
	_, err := service.DeleteEntry(testUserID, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)

	// Successful delete returns the removed entry for the caller's message
	entry := &models.Movie{ID: "movie-1", UserID: testUserID, Title: "Inception", Category: models.CategoryWatching}
	mockRepo.On("GetByID", testUserID, "movie-1").Return(entry, nil).Once()
	mockRepo.On("Delete", testUserID, "movie-1").Return(nil).Once()
	deleted, err := service.DeleteEntry(testUserID, "movie-1")
	assert.NoError(t, err)
	assert.Equal(t, "Inception", deleted.Title)
	mockRepo.AssertExpectations(t)
}

func TestLibraryService_GetCollection(t *testing.T) {
	mockRepo := new(MockMovieRepository)
	service := services.NewLibraryService(mockRepo, nil)

	// No session user resolves to an empty triple without touching storage
	collection, err := service.GetCollection("")
	assert.NoError(t, err)
	assert.Empty(t, collection.Wishlist)
	assert.Empty(t, collection.Watching)
	assert.Empty(t, collection.AlreadyWatched)

	// A user with no entries also gets the empty triple
	mockRepo.On("ListByUser", testUserID).Return([]models.Movie{}, nil).Once()
	collection, err = service.GetCollection(testUserID)
	assert.NoError(t, err)
	assert.NotNil(t, collection.Wishlist)
	assert.Empty(t, collection.Wishlist)
	mockRepo.AssertExpectations(t)

	// Entries are grouped by category, preserving list order
	mockRepo.On("ListByUser", testUserID).Return([]models.Movie{
		{ID: "1", Title: "Inception", Category: models.CategoryWishlist},
		{ID: "2", Title: "Heat", Category: models.CategoryAlreadyWatched},
		{ID: "3", Title: "Dune", Category: models.CategoryWishlist},
	}, nil).Once()

	collection, err = service.GetCollection(testUserID)
	assert.NoError(t, err)
	assert.Len(t, collection.Wishlist, 2)
	assert.Equal(t, "Inception", collection.Wishlist[0].Title)
	assert.Equal(t, "Dune", collection.Wishlist[1].Title)
	assert.Len(t, collection.Watching, 0)
	assert.Len(t, collection.AlreadyWatched, 1)
	mockRepo.AssertExpectations(t)
}
