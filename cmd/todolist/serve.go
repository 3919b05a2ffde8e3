package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/amonks/todolist/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and the web UI",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, host:port or a bare port")
	setFlagAliases(serveCmd.Flags(), addrFlagAliases)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	addr, err := env.config.ResolveAddr(serveAddr)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Store:    env.store,
		Logger:   env.logger,
		Theme:    env.config.UI.Theme,
		DarkMode: env.config.UI.DarkMode,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Serve(ctx, addr)
}
