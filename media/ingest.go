package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Ingestor converts a file into a displayable attachment.
// Implementations must be safe for concurrent use.
type Ingestor interface {
	Ingest(ctx context.Context, file File) (Attachment, error)
}

// IngestorFunc adapts a function to the Ingestor interface.
type IngestorFunc func(ctx context.Context, file File) (Attachment, error)

// Ingest calls f.
func (f IngestorFunc) Ingest(ctx context.Context, file File) (Attachment, error) {
	return f(ctx, file)
}

// DataURIIngestor inlines file contents as a base64 data URI.
type DataURIIngestor struct {
	// MaxBytes caps the file size. Zero means no limit.
	MaxBytes int64
}

// Ingest reads file and returns a data URI attachment.
func (d DataURIIngestor) Ingest(ctx context.Context, file File) (Attachment, error) {
	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}
	mimeType := NormalizeType(file.MIMEType())
	if KindOf(mimeType) == KindUnknown {
		return Attachment{}, fmt.Errorf("%w: %q", ErrUnsupportedType, file.MIMEType())
	}

	r, err := file.Open()
	if err != nil {
		return Attachment{}, fmt.Errorf("open %s: %w", file.Name(), err)
	}
	defer r.Close()

	var reader io.Reader = r
	if d.MaxBytes > 0 {
		reader = io.LimitReader(r, d.MaxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return Attachment{}, fmt.Errorf("read %s: %w", file.Name(), err)
	}
	if d.MaxBytes > 0 && int64(len(data)) > d.MaxBytes {
		return Attachment{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, file.Name(), d.MaxBytes)
	}
	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}

	return NewAttachment(DataURI(mimeType, data), mimeType), nil
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}
