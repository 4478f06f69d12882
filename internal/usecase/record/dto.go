package record

import "time"

// CreateRecordRequest represents the request payload for adding a book.
type CreateRecordRequest struct {
	Title  string `json:"title" validate:"required,max=100"`
	Author string `json:"author" validate:"required,max=100"`
	Genre  string `json:"genre" validate:"required,max=50"`
}

// Record represents a book DTO returned to callers.
type Record struct {
	ID        string
	Title     string
	Author    string
	Genre     string
	OwnerID   string
	Owner     Owner
	CreatedAt time.Time
}

// Owner is the public view of the user who owns a record.
type Owner struct {
	Name  string
	Email string
}

// DeleteRecordResponse confirms a deletion.
type DeleteRecordResponse struct {
	Message string
	ID      string
}
