package record

import "time"

// Field length limits for a record, counted in characters.
const (
	MaxTitleLength  = 100
	MaxAuthorLength = 100
	MaxGenreLength  = 50
)

// Record is a book owned by exactly one user.
type Record struct {
	ID        string
	Title     string
	Author    string
	Genre     string
	OwnerID   string // OwnerID is set at creation and never reassigned
	Owner     Owner
	CreatedAt time.Time
}

// Owner is the denormalized public view of a record's owner.
type Owner struct {
	Name  string
	Email string
}

// OwnedBy reports whether the record belongs to the given user.
func (r *Record) OwnedBy(userID string) bool {
	return userID != "" && r.OwnerID == userID
}
