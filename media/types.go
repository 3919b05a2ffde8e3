// Package media validates and ingests image and video attachments.
//
// A File is anything with a name, a declared MIME type and readable bytes.
// An Ingestor turns an accepted File into an Attachment whose URI can be
// displayed directly (the default ingestor produces data URIs).
package media

import (
	"mime"
	"sort"
	"strings"

	"github.com/amonks/todolist/internal/validation"
)

// Kind classifies an attachment.
type Kind string

const (
	// KindImage is a still or animated image.
	KindImage Kind = "image"

	// KindVideo is a video clip.
	KindVideo Kind = "video"

	// KindUnknown is anything the store does not accept.
	KindUnknown Kind = ""
)

// Accepted MIME types.
const (
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
	TypeGIF  = "image/gif"
	TypeWebP = "image/webp"
	TypeMP4  = "video/mp4"
	TypeWebM = "video/webm"
)

var builtinTypes = map[string]Kind{
	TypeJPEG: KindImage,
	TypePNG:  KindImage,
	TypeGIF:  KindImage,
	TypeWebP: KindImage,
	TypeMP4:  KindVideo,
	TypeWebM: KindVideo,
}

// AcceptedTypes returns every MIME type the store can hold, sorted.
func AcceptedTypes() []string {
	types := make([]string, 0, len(builtinTypes))
	for t := range builtinTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// NormalizeType lowercases a MIME type and strips any parameters.
// Unparseable input normalizes to "".
func NormalizeType(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return ""
	}
	return mediaType
}

// KindOf classifies a MIME type against the built-in accepted set.
func KindOf(mimeType string) Kind {
	return builtinTypes[NormalizeType(mimeType)]
}

// Policy is the set of MIME types a store admits. The zero value admits
// every built-in type.
type Policy struct {
	allowed map[string]Kind
}

// DefaultPolicy admits every built-in type.
func DefaultPolicy() Policy {
	return Policy{}
}

// NewPolicy narrows the accepted set to types. An empty list yields the
// default policy. Types outside the built-in set are rejected.
func NewPolicy(types []string) (Policy, error) {
	if len(types) == 0 {
		return DefaultPolicy(), nil
	}
	allowed := make(map[string]Kind, len(types))
	for _, t := range types {
		normalized := NormalizeType(t)
		kind, ok := builtinTypes[normalized]
		if !ok {
			return Policy{}, validation.FormatInvalidValueError(ErrUnsupportedType, t, AcceptedTypes())
		}
		allowed[normalized] = kind
	}
	return Policy{allowed: allowed}, nil
}

// Kind classifies mimeType under this policy.
func (p Policy) Kind(mimeType string) Kind {
	if p.allowed == nil {
		return KindOf(mimeType)
	}
	return p.allowed[NormalizeType(mimeType)]
}

// Accepts reports whether mimeType may be attached to a todo.
func (p Policy) Accepts(mimeType string) bool {
	return p.Kind(mimeType) != KindUnknown
}

// AcceptsImage reports whether mimeType may be staged as a draft image.
func (p Policy) AcceptsImage(mimeType string) bool {
	return p.Kind(mimeType) == KindImage
}

// Types lists the MIME types admitted by the policy, sorted.
func (p Policy) Types() []string {
	if p.allowed == nil {
		return AcceptedTypes()
	}
	types := make([]string, 0, len(p.allowed))
	for t := range p.allowed {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
