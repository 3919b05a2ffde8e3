package main

import (
	"os"
	"testing"

	"github.com/amonks/todolist/internal/testsupport"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"todolist": run,
	}))
}

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "todolist" {
		t.Fatalf("expected root command name todolist, got %q", rootCmd.Use)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "tui", "replay", "config"} {
		found, _, err := rootCmd.Find([]string{name})
		if err != nil || found.Name() != name {
			t.Fatalf("expected subcommand %s, got %v (%v)", name, found, err)
		}
	}
}

func TestServeAddrAliases(t *testing.T) {
	flags := serveCmd.Flags()
	for _, alias := range []string{"address", "listen"} {
		if flags.Lookup(alias) == nil {
			t.Fatalf("expected --%s to resolve to --addr", alias)
		}
	}
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(env)
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"envset": testsupport.CmdEnvSet,
			"todoid": testsupport.CmdTodoID,
		},
	})
}
