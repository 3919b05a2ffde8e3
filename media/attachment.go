package media

import "github.com/google/uuid"

// Attachment is an ingested media file.
type Attachment struct {
	// ID identifies the attachment independently of its position.
	ID string `json:"id"`

	// URI is a displayable locator, typically a data URI.
	URI string `json:"uri"`

	// MIMEType is one of the accepted types.
	MIMEType string `json:"mime_type"`
}

// Kind classifies the attachment.
func (a Attachment) Kind() Kind {
	return KindOf(a.MIMEType)
}

// NewAttachment builds an attachment with a fresh ID.
func NewAttachment(uri, mimeType string) Attachment {
	return Attachment{
		ID:       uuid.NewString(),
		URI:      uri,
		MIMEType: NormalizeType(mimeType),
	}
}
