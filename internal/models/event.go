package models

// Event is a catalog entry users can swipe on.
// Events are created by the bulk loader; the application only reads them
// and increments Popularity.
type Event struct {
	ID           int64
	Name         string
	Description  string
	VenueAddress string

	// Location is a normalized "City, ST" string.
	Location string

	Link string

	// Popularity counts processed "yes" decisions. It never decreases.
	Popularity int64
}

// Interest is a keyword a user follows.
type Interest struct {
	ID   int64
	Name string
}

// SimilarUser is another user ranked by how many interests they share.
type SimilarUser struct {
	UserID string
	Shared int
}
