package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/todolist/internal/ui"
	"github.com/amonks/todolist/todo"
)

// formatSnapshot renders the collection as a table followed by the draft,
// if any.
func formatSnapshot(snapshot todo.Snapshot, color bool, now time.Time) string {
	var b strings.Builder
	if len(snapshot.Items) == 0 {
		b.WriteString("No todos found.\n")
	} else {
		b.WriteString(formatTodoTable(snapshot.Items, highlightFor(snapshot.Items, color), now))
	}
	if !snapshot.Draft.IsEmpty() {
		b.WriteString("\n")
		b.WriteString(formatDraft(snapshot.Draft))
	}
	return b.String()
}

func formatTodoTable(todos []todo.Todo, highlight func(string) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"#", "ID", "DONE", "AGE", "MEDIA", "TITLE"}, len(todos))
	for _, t := range todos {
		done := ""
		if t.Completed {
			done = "x"
		}
		builder.AddRow([]string{
			strconv.FormatUint(t.Seq, 10),
			highlight(t.ID),
			done,
			ui.FormatAge(t.CreatedAt, now),
			formatMediaCount(t),
			ui.TruncateTableCell(t.Title),
		})
	}
	return builder.String()
}

func formatMediaCount(t todo.Todo) string {
	if len(t.Media) == 0 {
		return "-"
	}
	return strconv.Itoa(len(t.Media))
}

func formatDraft(draft todo.Draft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Draft:    %s\n", ui.TruncateTableCell(draft.Title))
	if draft.Description != "" {
		fmt.Fprintf(&b, "          %s\n", ui.TruncateTableCell(draft.Description))
	}
	if draft.PendingImage != nil {
		fmt.Fprintf(&b, "Image:    %s\n", draft.PendingImage.MIMEType)
	}
	return b.String()
}

// highlightFor returns a function that marks each ID's unique prefix.
func highlightFor(todos []todo.Todo, color bool) func(string) string {
	lengths := todo.NewIDIndex(todos).PrefixLengths()
	return func(id string) string {
		return ui.HighlightID(id, ui.PrefixLength(lengths, id), color)
	}
}
