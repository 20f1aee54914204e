package models

import (
	"strings"
	"time"
)

// Movie entry categories, in their fixed display order.
const (
	CategoryWishlist       = "wishlist"
	CategoryWatching       = "watching"
	CategoryAlreadyWatched = "already_watched"
)

// Categories lists all valid categories in order.
var Categories = []string{CategoryWishlist, CategoryWatching, CategoryAlreadyWatched}

var categoryLabels = map[string]string{
	CategoryWishlist:       "Wishlist",
	CategoryWatching:       "Watching",
	CategoryAlreadyWatched: "Already Watched",
}

// ValidCategory reports whether c is one of the three known categories.
func ValidCategory(c string) bool {
	_, ok := categoryLabels[c]
	return ok
}

// CategoryLabel returns the display name for a category ("wishlist" -> "Wishlist").
func CategoryLabel(c string) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return c
}

// NormalizeTitle produces the key used for duplicate checks: lowercased and
// trimmed, so "Inception" and " inception " collide.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Movie is a single entry in a user's collection. The composite unique index
// on (UserID, TitleKey) enforces per-user title uniqueness in storage, so
// concurrent adds of the same title cannot both land. UpdatedAt orders the
// category lists: it equals AddedAt on creation and is bumped when an entry
// moves, so moved entries surface at the tail of their destination list.
type Movie struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"-" gorm:"uniqueIndex:idx_user_title;type:varchar(36)"`
	Title     string    `json:"title" gorm:"type:varchar(255)" validate:"required"`
	TitleKey  string    `json:"-" gorm:"uniqueIndex:idx_user_title;type:varchar(255)"`
	Year      *int      `json:"year,omitempty"`
	Category  string    `json:"category" gorm:"type:varchar(32)"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"-"`
}
