package main

import (
	"fmt"
	"os"
)

const usageText = `quill is a note-taking TUI with a local sync daemon.

Usage:
  quill <command> [flags]

Commands:
  daemon   run the sync daemon
  ui       run the notes TUI (default)
  admin    run the admin dashboard TUI
  signup   create an account
  login    sign in and store a session token
  logout   sign out and drop the session token
  whoami   print the current session
  config   print effective configuration
  help     show help

Daemon flags:
  --background    log to ~/.quill/daemon.log instead of stderr

Examples:
  quill daemon --background
  quill login --email ada@example.com
  quill ui
  quill admin
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"ui"}
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
