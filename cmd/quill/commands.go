package main

import (
	"io"
	"os"

	"quill/internal/client"
)

type commandRunner interface {
	Run(args []string) error
}

type clientFactory func() (*client.Client, error)

type commandWiring struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	runDaemon func(background bool) error
	version   string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:    stdout,
		stderr:    stderr,
		newClient: client.New,
		runDaemon: runDaemonProcess,
		version:   buildVersion(),
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"daemon": NewDaemonCommand(wiring.stderr, wiring.runDaemon),
		"ui":     NewUICommand(wiring.stderr, wiring.newClient, false),
		"admin":  NewUICommand(wiring.stderr, wiring.newClient, true),
		"signup": NewSignUpCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"login":  NewLoginCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"logout": NewLogoutCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"whoami": NewWhoamiCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"config": NewConfigCommand(wiring.stdout, wiring.stderr),
	}
}
