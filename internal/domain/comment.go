package domain

import "time"

// Comment is one message in a ticket's append-only, time-ordered thread.
// Internal comments are hidden from the user role at read time; rows are
// never stored differently.
type Comment struct {
	ID         int64
	TicketID   int64
	UserID     int64
	Message    string
	IsInternal bool
	CreatedAt  time.Time
}

// CommentView joins author display fields for listing responses.
type CommentView struct {
	Comment
	AuthorFirstName string
	AuthorLastName  string
	AuthorRole      Role
}
