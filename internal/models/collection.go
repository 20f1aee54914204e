package models

// Collection groups a user's movies into the three category lists.
type Collection struct {
	Wishlist       []Movie `json:"wishlist"`
	Watching       []Movie `json:"watching"`
	AlreadyWatched []Movie `json:"already_watched"`
}

// NewCollection returns an empty collection with non-nil lists, so JSON
// output always contains three arrays.
func NewCollection() *Collection {
	return &Collection{
		Wishlist:       []Movie{},
		Watching:       []Movie{},
		AlreadyWatched: []Movie{},
	}
}

// Append adds a movie to the list matching its category. Entries with an
// unknown category are ignored.
func (c *Collection) Append(m Movie) {
	switch m.Category {
	case CategoryWishlist:
		c.Wishlist = append(c.Wishlist, m)
	case CategoryWatching:
		c.Watching = append(c.Watching, m)
	case CategoryAlreadyWatched:
		c.AlreadyWatched = append(c.AlreadyWatched, m)
	}
}
