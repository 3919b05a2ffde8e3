package tui

import (
	"fmt"
	"strings"

	internalstrings "github.com/amonks/todolist/internal/strings"
	"github.com/amonks/todolist/todo"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const defaultWidth = 80

func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("My Todo List"))
	if remaining := countRemaining(m.snapshot.Items); len(m.snapshot.Items) > 0 {
		b.WriteString(valueMuted.Render(fmt.Sprintf("  %d remaining", remaining)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderInput("Title", m.title.View(), m.focus == inputTitle))
	b.WriteString(m.renderInput("Description", m.description.View(), m.focus == inputDescription))
	image := m.image.View()
	if staged := m.snapshot.Draft.PendingImage; staged != nil {
		image += valueMuted.Render("  staged: " + staged.MIMEType + " (c clears)")
	}
	b.WriteString(m.renderInput("Image", image, m.focus == inputImage))
	if m.focus == inputAttach {
		b.WriteString(m.renderInput("Attach", m.attach.View(), true))
	}
	b.WriteString("\n")

	b.WriteString(m.renderList(width))
	b.WriteString("\n")
	if line := m.renderStatusLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(helpBarStyle.Render(truncate.StringWithTail(m.helpSummary(), uint(width), "...")))
	return b.String()
}

func (m model) renderInput(label, value string, focused bool) string {
	marker := "  "
	if focused {
		marker = "> "
	}
	return marker + labelStyle.Render(label) + value + "\n"
}

func (m model) renderList(width int) string {
	if len(m.snapshot.Items) == 0 {
		return valueMuted.Render("No todos yet! Add one above.") + "\n"
	}
	lengths := todo.NewIDIndex(m.snapshot.Items).PrefixLengths()

	var b strings.Builder
	for i, item := range m.snapshot.Items {
		selected := i == m.cursor && (m.focus == inputNone || m.focus == inputAttach)
		b.WriteString(renderItem(item, lengths[strings.ToLower(item.ID)], selected, width))
		b.WriteString("\n")
		if i == m.cursor {
			b.WriteString(renderDetail(item, width))
		}
	}
	return b.String()
}

func renderItem(item todo.Todo, prefixLen int, selected bool, width int) string {
	check := "[ ]"
	if item.Completed {
		check = "[x]"
	}
	prefixLen = min(max(prefixLen, 1), len(item.ID))
	title := internalstrings.NormalizeWhitespace(item.Title)
	suffix := ""
	if n := len(item.Media); n > 0 {
		suffix = fmt.Sprintf("  (%d media)", n)
	}

	if selected {
		line := fmt.Sprintf("%s %s  %s%s", check, item.ID, title, suffix)
		return selectedStyle.Render(truncate.StringWithTail(line, uint(width), "..."))
	}
	titleWidth := max(width-len(check)-len(item.ID)-len(suffix)-3, 1)
	title = truncate.StringWithTail(title, uint(titleWidth), "...")
	if item.Completed {
		title = doneStyle.Render(title)
	}
	id := idPrefixStyle.Render(item.ID[:prefixLen]) + item.ID[prefixLen:]
	return fmt.Sprintf("%s %s  %s%s", check, id, title, valueMuted.Render(suffix))
}

func renderDetail(item todo.Todo, width int) string {
	var lines []string
	if description := internalstrings.TrimSpace(item.Description); description != "" {
		lines = append(lines, wordwrap.String(internalstrings.NormalizeNewlines(description), max(width-4, 10)))
	}
	for i, attachment := range item.Media {
		lines = append(lines, valueMuted.Render(fmt.Sprintf("%d. %s %s", i+1, attachment.Kind(), attachment.MIMEType)))
	}
	if len(lines) == 0 {
		return ""
	}
	return detailStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func (m model) renderStatusLine() string {
	text := m.status
	if internalstrings.IsBlank(text) {
		return ""
	}
	style := valueMuted
	if m.statusLevel == statusError {
		style = statusErrorStyle
	} else if m.statusLevel == statusInfo {
		style = statusSuccessStyle
	}
	return style.Render(text)
}

func (m model) helpSummary() string {
	switch m.focus {
	case inputTitle, inputDescription:
		return "Keys: enter add todo | tab next field | esc back | ctrl+c quit"
	case inputImage:
		return "Keys: enter stage image | tab next field | esc back | ctrl+c quit"
	case inputAttach:
		return "Keys: enter attach | esc cancel | ctrl+c quit"
	}
	return "Keys: up/down move | space toggle | x delete | a attach | r remove media | tab type draft | e editor | q quit"
}

func countRemaining(items []todo.Todo) int {
	remaining := 0
	for _, item := range items {
		if !item.Completed {
			remaining++
		}
	}
	return remaining
}
