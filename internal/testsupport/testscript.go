package testsupport

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/amonks/todolist/todo"
	"github.com/rogpeppe/go-internal/testscript"
)

// SetupScriptEnv points HOME at a fresh directory inside the script's
// work dir and clears variables that change output.
func SetupScriptEnv(env *testscript.Env) error {
	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTodoID finds a todo by title in a JSON snapshot and stores its ID in
// an env var.
func CmdTodoID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("todoid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: todoid FILE TITLE VAR")
	}

	var snapshot todo.Snapshot
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		ts.Fatalf("parse snapshot: %v", err)
	}

	title := args[1]
	for _, item := range snapshot.Items {
		if item.Title == title {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("todo with title %q not found", title)
}
