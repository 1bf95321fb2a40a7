package dto

import (
	"time"

	"github.com/deskops/servicedesk/internal/domain"
)

// AttachmentResponse is immutable upload metadata. FilePath is the stored
// filename relative to the uploads URL prefix.
type AttachmentResponse struct {
	ID        int64     `json:"id"`
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"`
	FileSize  int64     `json:"file_size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAttachmentResponses maps attachment metadata rows.
func NewAttachmentResponses(attachments []domain.Attachment) []AttachmentResponse {
	result := make([]AttachmentResponse, 0, len(attachments))
	for _, att := range attachments {
		result = append(result, AttachmentResponse{
			ID:        att.ID,
			FileName:  att.FileName,
			FilePath:  att.FilePath,
			FileSize:  att.FileSize,
			MimeType:  att.MimeType,
			CreatedAt: att.CreatedAt,
		})
	}
	return result
}
