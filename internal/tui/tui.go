// Package tui is an interactive terminal client for a todo.Store.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/amonks/todolist/internal/editor"
	internalstrings "github.com/amonks/todolist/internal/strings"
	"github.com/amonks/todolist/media"
	"github.com/amonks/todolist/todo"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type inputField int

const (
	inputNone inputField = iota
	inputTitle
	inputDescription
	inputImage
	inputAttach
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type model struct {
	ctx         context.Context
	store       *todo.Store
	updates     <-chan todo.Snapshot
	snapshot    todo.Snapshot
	cursor      int
	focus       inputField
	title       textinput.Model
	description textinput.Model
	image       textinput.Model
	attach      textinput.Model
	width       int
	height      int
	status      string
	statusLevel statusLevel
}

type snapshotMsg struct {
	snapshot todo.Snapshot
}

type ingestDoneMsg struct {
	op  string
	err error
}

type editorDoneMsg struct {
	path string
	err  error
}

// Run starts the terminal UI and blocks until the user quits or ctx is
// canceled.
func Run(ctx context.Context, store *todo.Store, opts ...tea.ProgramOption) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	updates, unsubscribe := subscribe(store)
	defer unsubscribe()

	options := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(newModel(ctx, store, updates), options...)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// subscribe forwards snapshots into a one-slot channel, replacing any
// snapshot the UI has not picked up yet. The callback never blocks.
func subscribe(store *todo.Store) (<-chan todo.Snapshot, func()) {
	updates := make(chan todo.Snapshot, 1)
	unsubscribe := store.Subscribe(func(snapshot todo.Snapshot) {
		for {
			select {
			case updates <- snapshot:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	return updates, unsubscribe
}

func newModel(ctx context.Context, store *todo.Store, updates <-chan todo.Snapshot) model {
	snapshot := store.Snapshot()
	return model{
		ctx:         ctx,
		store:       store,
		updates:     updates,
		snapshot:    snapshot,
		title:       newInput("What do you need to do?", snapshot.Draft.Title, editor.MaxTitleLength),
		description: newInput("Details (optional)", snapshot.Draft.Description, inputCharLimit),
		image:       newInput("Path to an image to stage", "", inputCharLimit),
		attach:      newInput("Paths to attach, comma separated", "", inputCharLimit),
	}
}

const inputCharLimit = 2000

func newInput(placeholder, value string, limit int) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = ""
	input.CharLimit = limit
	input.SetValue(value)
	return input
}

func (m model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m model) waitForSnapshot() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	updates := m.updates
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case snapshot := <-updates:
			return snapshotMsg{snapshot: snapshot}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case snapshotMsg:
		m.applySnapshot(msg.snapshot)
		return m, m.waitForSnapshot()
	case ingestDoneMsg:
		m.refresh()
		if msg.err != nil {
			m.setStatus(statusError, msg.op+": "+firstLine(msg.err.Error()))
		} else {
			m.setStatus(statusInfo, msg.op+" done")
		}
		return m, nil
	case editorDoneMsg:
		m.applyEditedDraft(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.focus != inputNone {
		return m.handleInputKey(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		return m.focusInput(inputTitle)
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case " ", "space":
		if item, ok := m.selected(); ok {
			_, err := m.store.ToggleCompleted(item.ID)
			m.reportResult("toggle", err)
		}
	case "x":
		if item, ok := m.selected(); ok {
			err := m.store.Delete(item.ID)
			m.reportResult("delete", err)
		}
	case "a":
		if _, ok := m.selected(); ok {
			return m.focusInput(inputAttach)
		}
		m.setStatus(statusError, "select a todo to attach to")
	case "r":
		if item, ok := m.selected(); ok {
			_, err := m.store.RemoveMedia(item.ID, 0)
			m.reportResult("remove attachment", err)
		}
	case "c":
		m.store.ClearStagedImage()
		m.refresh()
	case "e":
		cmd := m.editDraft()
		return m, cmd
	}
	return m, nil
}

// editDraft suspends the UI and opens the draft in $EDITOR.
func (m *model) editDraft() tea.Cmd {
	path, err := editor.WriteDraftFile(m.snapshot.Draft)
	if err != nil {
		m.setStatus(statusError, "edit draft: "+err.Error())
		return nil
	}
	return tea.ExecProcess(editor.Command(path), func(err error) tea.Msg {
		return editorDoneMsg{path: path, err: editor.ExitError(err)}
	})
}

func (m *model) applyEditedDraft(msg editorDoneMsg) {
	defer os.Remove(msg.path)
	if msg.err != nil {
		m.setStatus(statusError, "edit draft: "+msg.err.Error())
		return
	}
	parsed, err := editor.ReadDraftFile(msg.path)
	if err != nil {
		m.setStatus(statusError, "edit draft: "+firstLine(err.Error()))
		return
	}
	err = errors.Join(
		m.store.SetDraftField(todo.DraftTitle, parsed.Title),
		m.store.SetDraftField(todo.DraftDescription, parsed.Description),
	)
	m.refresh()
	m.title.SetValue(m.snapshot.Draft.Title)
	m.description.SetValue(m.snapshot.Draft.Description)
	if err != nil {
		m.setStatus(statusError, "edit draft: "+err.Error())
		return
	}
	m.setStatus(statusInfo, "draft updated")
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.blurAll()
		m.focus = inputNone
		return m, nil
	case "tab":
		if m.focus == inputAttach {
			return m, nil
		}
		next := m.focus + 1
		if next > inputImage {
			next = inputTitle
		}
		return m.focusInput(next)
	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	switch m.focus {
	case inputTitle:
		before := m.title.Value()
		m.title, cmd = m.title.Update(msg)
		if m.title.Value() != before {
			_ = m.store.SetDraftField(todo.DraftTitle, m.title.Value())
		}
	case inputDescription:
		before := m.description.Value()
		m.description, cmd = m.description.Update(msg)
		if m.description.Value() != before {
			_ = m.store.SetDraftField(todo.DraftDescription, m.description.Value())
		}
	case inputImage:
		m.image, cmd = m.image.Update(msg)
	case inputAttach:
		m.attach, cmd = m.attach.Update(msg)
	}
	m.refresh()
	return m, cmd
}

func (m model) submit() (tea.Model, tea.Cmd) {
	switch m.focus {
	case inputTitle, inputDescription:
		created, err := m.store.Create()
		if err != nil {
			m.reportResult("create", err)
			return m, nil
		}
		m.title.Reset()
		m.description.Reset()
		m.refresh()
		m.cursor = len(m.snapshot.Items) - 1
		m.setStatus(statusInfo, "created "+created.ID)
		return m, nil
	case inputImage:
		path := internalstrings.TrimSpace(m.image.Value())
		if path == "" {
			return m, nil
		}
		m.image.Reset()
		file, err := media.OpenPath(path)
		if err != nil {
			m.setStatus(statusError, err.Error())
			return m, nil
		}
		return m, waitForIngestion("stage image", m.store.StageImage(m.ctx, file))
	case inputAttach:
		item, ok := m.selected()
		paths := splitPaths(m.attach.Value())
		m.attach.Reset()
		m.blurAll()
		m.focus = inputNone
		if !ok || len(paths) == 0 {
			return m, nil
		}
		files := make([]media.File, 0, len(paths))
		var openErrs []error
		for _, path := range paths {
			file, err := media.OpenPath(path)
			if err != nil {
				openErrs = append(openErrs, err)
				continue
			}
			files = append(files, file)
		}
		if len(openErrs) > 0 {
			m.setStatus(statusError, firstLine(errors.Join(openErrs...).Error()))
		}
		if len(files) == 0 {
			return m, nil
		}
		return m, waitForIngestion("attach", m.store.AttachMedia(m.ctx, item.ID, files))
	}
	return m, nil
}

func waitForIngestion(op string, in *todo.Ingestion) tea.Cmd {
	return func() tea.Msg {
		return ingestDoneMsg{op: op, err: in.Err()}
	}
}

func (m model) focusInput(field inputField) (tea.Model, tea.Cmd) {
	m.blurAll()
	m.focus = field
	var cmd tea.Cmd
	switch field {
	case inputTitle:
		cmd = m.title.Focus()
	case inputDescription:
		cmd = m.description.Focus()
	case inputImage:
		cmd = m.image.Focus()
	case inputAttach:
		cmd = m.attach.Focus()
	}
	return m, cmd
}

func (m *model) blurAll() {
	m.title.Blur()
	m.description.Blur()
	m.image.Blur()
	m.attach.Blur()
}

// refresh reads the store directly after a local mutation.
func (m *model) refresh() {
	m.applySnapshot(m.store.Snapshot())
}

// applySnapshot ignores snapshots older than the one shown.
func (m *model) applySnapshot(snapshot todo.Snapshot) {
	if snapshot.Version < m.snapshot.Version {
		return
	}
	m.snapshot = snapshot
	m.clampCursor()
}

func (m *model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *model) clampCursor() {
	if m.cursor >= len(m.snapshot.Items) {
		m.cursor = len(m.snapshot.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) selected() (todo.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Items) {
		return todo.Todo{}, false
	}
	return m.snapshot.Items[m.cursor], true
}

func (m *model) reportResult(op string, err error) {
	m.refresh()
	if err != nil {
		m.setStatus(statusError, op+": "+err.Error())
		return
	}
	m.setStatus(statusNone, "")
}

func (m *model) setStatus(level statusLevel, text string) {
	m.statusLevel = level
	m.status = text
}

func splitPaths(value string) []string {
	var paths []string
	for _, part := range strings.Split(value, ",") {
		if path := internalstrings.TrimSpace(part); path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

func firstLine(value string) string {
	line, _, _ := strings.Cut(value, "\n")
	return line
}
