package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"quill/internal/config"
	"quill/internal/daemon"
	"quill/internal/logging"
	"quill/internal/store"
)

type DaemonCommand struct {
	stderr    io.Writer
	runDaemon func(background bool) error
}

func NewDaemonCommand(stderr io.Writer, runDaemon func(background bool) error) *DaemonCommand {
	return &DaemonCommand{stderr: stderr, runDaemon: runDaemon}
}

func (c *DaemonCommand) Run(args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	background := fs.Bool("background", false, "log to file instead of stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.runDaemon(*background)
}

func runDaemonProcess(background bool) error {
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Logger(nil)
	if background {
		logPath, err := config.DaemonLogPath()
		if err != nil {
			return err
		}
		fileLogger, closer, err := logging.NewFile(logPath, logging.ParseLevel(cfg.LogLevel()))
		if err != nil {
			return err
		}
		defer closer.Close()
		logger = fileLogger
	} else {
		logger = logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel()))
	}

	secretPath, err := config.SecretPath()
	if err != nil {
		return err
	}
	secret, err := daemon.LoadOrCreateSecret(secretPath)
	if err != nil {
		return err
	}
	signer, err := daemon.NewTokenSigner(secret, cfg.SessionTTL())
	if err != nil {
		return err
	}

	dbPath, err := config.DatabasePath()
	if err != nil {
		return err
	}
	repo, err := store.NewBboltRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := daemon.New(cfg.DaemonAddress(), buildVersion(), signer, repo, logger)
	return d.Run(ctx)
}
