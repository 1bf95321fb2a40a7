package domain

import "time"

// AttachmentOwner distinguishes which aggregate an attachment belongs to.
type AttachmentOwner string

const (
	AttachmentOwnerTicket  AttachmentOwner = "ticket"
	AttachmentOwnerComment AttachmentOwner = "comment"
)

// Attachment is immutable upload metadata. The file body lives on disk under
// the upload dir; rows cascade with their owning ticket or comment.
type Attachment struct {
	ID        int64
	OwnerID   int64
	FileName  string
	FilePath  string
	FileSize  int64
	MimeType  string
	CreatedAt time.Time
}
