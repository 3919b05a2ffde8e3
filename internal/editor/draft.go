package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	internalstrings "github.com/amonks/todolist/internal/strings"
	"github.com/amonks/todolist/todo"
)

// MaxTitleLength caps the title accepted back from the editor.
const MaxTitleLength = 500

// ErrTitleTooLong is returned when an edited title exceeds MaxTitleLength.
var ErrTitleTooLong = errors.New("title exceeds maximum length")

var draftTemplate = template.Must(template.New("draft").Parse(`title = {{ printf "%q" .Title }}
---
{{ .Description }}
`))

// RenderDraft renders the draft's text fields as TOML frontmatter followed
// by the description.
func RenderDraft(draft todo.Draft) (string, error) {
	var buf bytes.Buffer
	if err := draftTemplate.Execute(&buf, draft); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedDraft is the result of editing a rendered draft.
type ParsedDraft struct {
	Title       string `toml:"title"`
	Description string `toml:"-"`
}

// ParseDraft parses editor output produced from RenderDraft. The title may
// be blank, since drafts are allowed to be incomplete.
func ParseDraft(content string) (*ParsedDraft, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedDraft
	meta, err := toml.Decode(frontmatter, &parsed)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse TOML: unknown key %q", undecoded[0].String())
	}
	parsed.Description = internalstrings.TrimTrailingNewlines(internalstrings.TrimLeadingNewlines(body))

	if len(parsed.Title) > MaxTitleLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(parsed.Title), MaxTitleLength)
	}
	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = internalstrings.TrimLeadingNewlines(internalstrings.NormalizeNewlines(content))
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

// WriteDraftFile renders draft into a new temp file and returns its path.
// The caller removes the file.
func WriteDraftFile(draft todo.Draft) (string, error) {
	content, err := RenderDraft(draft)
	if err != nil {
		return "", err
	}

	tmpfile, err := os.CreateTemp("", "todolist-draft-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmpPath, nil
}

// ReadDraftFile parses an edited draft file.
func ReadDraftFile(path string) (*ParsedDraft, error) {
	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	return ParseDraft(string(edited))
}
