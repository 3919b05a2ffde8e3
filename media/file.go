package media

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// File is a user-selected file awaiting ingestion.
type File interface {
	// Name is the file's base name, used in logs and results.
	Name() string

	// MIMEType is the declared or detected type of the content.
	MIMEType() string

	// Open returns the file contents. Callers close the reader.
	Open() (io.ReadCloser, error)
}

type pathFile struct {
	path     string
	mimeType string
}

// OpenPath wraps a local file. The MIME type is detected from its content.
func OpenPath(path string) (File, error) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect type of %s: %w", path, err)
	}
	return &pathFile{path: path, mimeType: NormalizeType(detected.String())}, nil
}

func (f *pathFile) Name() string     { return filepath.Base(f.path) }
func (f *pathFile) MIMEType() string { return f.mimeType }

func (f *pathFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

type multipartFile struct {
	header   *multipart.FileHeader
	mimeType string
}

// FromMultipart wraps an uploaded file. The declared Content-Type is
// trusted when present; otherwise the content is sniffed.
func FromMultipart(header *multipart.FileHeader) (File, error) {
	declared := NormalizeType(header.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return &multipartFile{header: header, mimeType: declared}, nil
	}
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer f.Close()
	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect type of %s: %w", header.Filename, err)
	}
	return &multipartFile{header: header, mimeType: NormalizeType(detected.String())}, nil
}

func (f *multipartFile) Name() string     { return f.header.Filename }
func (f *multipartFile) MIMEType() string { return f.mimeType }

func (f *multipartFile) Open() (io.ReadCloser, error) {
	return f.header.Open()
}

type bytesFile struct {
	name     string
	mimeType string
	data     []byte
}

// FromBytes wraps in-memory content with a declared MIME type. An empty
// mimeType is detected from data.
func FromBytes(name, mimeType string, data []byte) File {
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	return &bytesFile{name: name, mimeType: NormalizeType(mimeType), data: data}
}

func (f *bytesFile) Name() string     { return f.name }
func (f *bytesFile) MIMEType() string { return f.mimeType }

func (f *bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
