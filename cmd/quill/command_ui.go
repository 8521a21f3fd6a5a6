package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/app"
	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/session"
)

type UICommand struct {
	stderr    io.Writer
	newClient clientFactory
	admin     bool
}

func NewUICommand(stderr io.Writer, newClient clientFactory, admin bool) *UICommand {
	return &UICommand{stderr: stderr, newClient: newClient, admin: admin}
}

func (c *UICommand) Run(args []string) error {
	name := "ui"
	if c.admin {
		name = "admin"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, closeLogs := configureUILogging(cfg)
	defer closeLogs()

	apiClient, err := c.newClient()
	if err != nil {
		return err
	}
	if err := apiClient.EnsureDaemon(context.Background()); err != nil {
		return err
	}

	sessions := session.NewStore(apiClient, logger)
	if err := sessions.Start(context.Background()); err != nil {
		return err
	}
	defer sessions.Stop()

	model := app.NewModel(apiClient, sessions, app.Options{
		AutosaveIdle: cfg.AutosaveIdle(),
		DarkMarkdown: cfg.Editor.DarkMarkdown,
		StartInAdmin: c.admin,
		Logger:       logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// configureUILogging sends structured logs to ~/.quill/ui.log so they stay
// off the alternate screen.
func configureUILogging(cfg config.Config) (logging.Logger, func()) {
	dataDir, err := config.DataDir()
	if err != nil {
		return logging.Nop(), func() {}
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return logging.Nop(), func() {}
	}
	logger, closer, err := logging.NewFile(filepath.Join(dataDir, "ui.log"), logging.ParseLevel(cfg.LogLevel()))
	if err != nil {
		return logging.Nop(), func() {}
	}
	return logger, func() { _ = closer.Close() }
}
