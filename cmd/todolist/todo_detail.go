package main

import (
	"fmt"
	"strings"

	"github.com/amonks/todolist/internal/markdown"
	internalstrings "github.com/amonks/todolist/internal/strings"
	"github.com/amonks/todolist/todo"
)

const todoDetailLineWidth = 80

func formatTodoDetail(t todo.Todo, highlight func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:        %s\n", highlight(t.ID))
	fmt.Fprintf(&b, "Title:     %s\n", t.Title)
	fmt.Fprintf(&b, "Completed: %t\n", t.Completed)
	fmt.Fprintf(&b, "Created:   %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))

	if len(t.Media) > 0 {
		b.WriteString("Media:\n")
		for i, attachment := range t.Media {
			fmt.Fprintf(&b, "  %d. %s %s\n", i, attachment.MIMEType, attachment.ID)
		}
	}

	if !internalstrings.IsBlank(t.Description) {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", formatTodoDescription(t.Description))
	}
	return b.String()
}

func formatTodoDescription(value string) string {
	value = internalstrings.TrimLeadingNewlines(value)
	rendered := markdown.SafeRender(todoDetailLineWidth, 2, []byte(value))
	if internalstrings.IsBlank(string(rendered)) {
		return "-"
	}
	return string(rendered)
}
