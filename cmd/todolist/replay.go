package main

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	internalstrings "github.com/amonks/todolist/internal/strings"
	"github.com/amonks/todolist/internal/ui"
	"github.com/amonks/todolist/media"
	"github.com/amonks/todolist/todo"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"
)

//go:embed replay_schema.json
var replaySchemaJSON []byte

const replaySchemaURL = "replay_schema.json"

var (
	replayJSON   bool
	replayDetail bool
	replayStrict bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [FILE]",
	Short: "Apply a JSONL command script to an empty list and print the result",
	Long: `Replay reads one JSON command per line from FILE, or stdin when FILE is
omitted or "-", and applies each to an empty todo list.

Commands: draft, create, add, toggle, delete, attach, remove-media, stage,
clear-image. Todo ids may be written as "#N" for the N-th todo created by
the script, or as any unique id prefix. File paths are relative to FILE.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "print the final state as JSON")
	replayCmd.Flags().BoolVar(&replayDetail, "detail", false, "print each todo in full after the table")
	replayCmd.Flags().BoolVar(&replayStrict, "strict", false, "fail on the first command the list rejects")
	rootCmd.AddCommand(replayCmd)
}

type replayCommand struct {
	Op          string   `json:"op"`
	Field       string   `json:"field,omitempty"`
	Value       string   `json:"value,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	ID          string   `json:"id,omitempty"`
	Index       int      `json:"index,omitempty"`
	Attachment  string   `json:"attachment,omitempty"`
	Files       []string `json:"files,omitempty"`
	File        string   `json:"file,omitempty"`
}

func runReplay(cmd *cobra.Command, args []string) error {
	input := cmd.InOrStdin()
	baseDir := ""
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		input = f
		baseDir = filepath.Dir(args[0])
	}

	env, err := loadEnvironment(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	schema, err := compileReplaySchema()
	if err != nil {
		return err
	}

	r := &replayer{store: env.store, baseDir: baseDir, warnings: cmd.ErrOrStderr(), strict: replayStrict}
	if err := r.run(cmd.Context(), input, schema); err != nil {
		return err
	}

	snapshot := env.store.Snapshot()
	out := cmd.OutOrStdout()
	if replayJSON {
		return encodeJSON(out, snapshot)
	}
	color := ui.ColorEnabled(out)
	fmt.Fprint(out, formatSnapshot(snapshot, color, time.Now()))
	if replayDetail {
		for _, item := range snapshot.Items {
			fmt.Fprintln(out)
			fmt.Fprint(out, formatTodoDetail(item, highlightFor(snapshot.Items, color)))
		}
	}
	return nil
}

func compileReplaySchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(replaySchemaURL, bytes.NewReader(replaySchemaJSON)); err != nil {
		return nil, fmt.Errorf("load replay schema: %w", err)
	}
	schema, err := compiler.Compile(replaySchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile replay schema: %w", err)
	}
	return schema, nil
}

type replayer struct {
	store    *todo.Store
	baseDir  string
	warnings io.Writer
	strict   bool
	created  []string
}

func (r *replayer) run(ctx context.Context, input io.Reader, schema *jsonschema.Schema) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	line := 0
	for scanner.Scan() {
		line++
		text := internalstrings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "//") {
			continue
		}
		command, err := parseReplayCommand([]byte(text), schema)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := r.apply(ctx, command); err != nil {
			if r.strict {
				return fmt.Errorf("line %d: %s: %w", line, command.Op, err)
			}
			fmt.Fprintf(r.warnings, "line %d: %s ignored: %s\n", line, command.Op, firstLine(err.Error()))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return nil
}

func parseReplayCommand(data []byte, schema *jsonschema.Schema) (replayCommand, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return replayCommand{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return replayCommand{}, schemaError(err)
	}
	var command replayCommand
	if err := json.Unmarshal(data, &command); err != nil {
		return replayCommand{}, fmt.Errorf("invalid command: %w", err)
	}
	return command, nil
}

// schemaError reduces a validation tree to its first leaf.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	location := ve.InstanceLocation
	if location == "" {
		location = "/"
	}
	return fmt.Errorf("invalid command at %s: %s", location, ve.Message)
}

func (r *replayer) apply(ctx context.Context, command replayCommand) error {
	switch command.Op {
	case "draft":
		field, err := todo.ParseDraftField(command.Field)
		if err != nil {
			return err
		}
		return r.store.SetDraftField(field, command.Value)
	case "create":
		return r.record(r.store.Create())
	case "add":
		return r.record(r.store.CreateWithText(command.Title, command.Description))
	case "toggle":
		id, err := r.resolveID(command.ID)
		if err != nil {
			return err
		}
		_, err = r.store.ToggleCompleted(id)
		return err
	case "delete":
		id, err := r.resolveID(command.ID)
		if err != nil {
			return err
		}
		return r.store.Delete(id)
	case "attach":
		id, err := r.resolveID(command.ID)
		if err != nil {
			return err
		}
		files, openErr := r.openFiles(command.Files)
		return errors.Join(openErr, r.store.AttachMedia(ctx, id, files).Err())
	case "remove-media":
		id, err := r.resolveID(command.ID)
		if err != nil {
			return err
		}
		if command.Attachment != "" {
			_, err = r.store.RemoveMediaByID(id, command.Attachment)
			return err
		}
		_, err = r.store.RemoveMedia(id, command.Index)
		return err
	case "stage":
		files, err := r.openFiles([]string{command.File})
		if err != nil {
			return err
		}
		return r.store.StageImage(ctx, files[0]).Err()
	case "clear-image":
		r.store.ClearStagedImage()
		return nil
	}
	return fmt.Errorf("unknown op %q", command.Op)
}

func (r *replayer) record(created *todo.Todo, err error) error {
	if err != nil {
		return err
	}
	r.created = append(r.created, created.ID)
	return nil
}

// resolveID expands "#N" references and unique prefixes.
func (r *replayer) resolveID(ref string) (string, error) {
	if n, ok := strings.CutPrefix(ref, "#"); ok {
		i, err := strconv.Atoi(n)
		if err != nil || i < 1 || i > len(r.created) {
			return "", fmt.Errorf("%w: %s", todo.ErrTodoNotFound, ref)
		}
		return r.created[i-1], nil
	}
	return r.store.Resolve(ref)
}

func (r *replayer) openFiles(names []string) ([]media.File, error) {
	files := make([]media.File, 0, len(names))
	var errs []error
	for _, name := range names {
		path := name
		if !filepath.IsAbs(path) && r.baseDir != "" {
			path = filepath.Join(r.baseDir, path)
		}
		file, err := media.OpenPath(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, file)
	}
	return files, errors.Join(errs...)
}

func firstLine(value string) string {
	line, _, _ := strings.Cut(value, "\n")
	return line
}
