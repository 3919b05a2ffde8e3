package media

import "errors"

var (
	// ErrUnsupportedType is returned for MIME types outside the accepted set.
	ErrUnsupportedType = errors.New("unsupported media type")

	// ErrNotImage is returned when a non-image is staged as a draft image.
	ErrNotImage = errors.New("media is not an image")

	// ErrTooLarge is returned when a file exceeds the ingestor's size limit.
	ErrTooLarge = errors.New("media file too large")
)
