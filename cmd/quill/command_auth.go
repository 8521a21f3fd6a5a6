package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"quill/internal/client"
)

type SignUpCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewSignUpCommand(stdout, stderr io.Writer, newClient clientFactory) *SignUpCommand {
	return &SignUpCommand{stdout: stdout, stderr: stderr, newClient: newClient}
}

func (c *SignUpCommand) Run(args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	email := fs.String("email", "", "account email")
	username := fs.String("username", "", "optional username")
	displayName := fs.String("display-name", "", "optional display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return errors.New("--email is required")
	}
	password, err := readPassword(c.stdout)
	if err != nil {
		return err
	}

	apiClient, err := c.newClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session, err := apiClient.SignUp(ctx, client.SignUpRequest{
		Email:       *email,
		Password:    password,
		Username:    *username,
		DisplayName: *displayName,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "account created, signed in as %s\n", session.Email)
	return nil
}

type LoginCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewLoginCommand(stdout, stderr io.Writer, newClient clientFactory) *LoginCommand {
	return &LoginCommand{stdout: stdout, stderr: stderr, newClient: newClient}
}

func (c *LoginCommand) Run(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return errors.New("--email is required")
	}
	password, err := readPassword(c.stdout)
	if err != nil {
		return err
	}

	apiClient, err := c.newClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session, err := apiClient.SignIn(ctx, *email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "signed in as %s\n", session.Email)
	return nil
}

type LogoutCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewLogoutCommand(stdout, stderr io.Writer, newClient clientFactory) *LogoutCommand {
	return &LogoutCommand{stdout: stdout, stderr: stderr, newClient: newClient}
}

func (c *LogoutCommand) Run(args []string) error {
	apiClient, err := c.newClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiClient.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "signed out")
	return nil
}

type WhoamiCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewWhoamiCommand(stdout, stderr io.Writer, newClient clientFactory) *WhoamiCommand {
	return &WhoamiCommand{stdout: stdout, stderr: stderr, newClient: newClient}
}

func (c *WhoamiCommand) Run(args []string) error {
	apiClient, err := c.newClient()
	if err != nil {
		return err
	}
	if !apiClient.HasToken() {
		fmt.Fprintln(c.stdout, "not signed in")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session, err := apiClient.RefreshToken(ctx)
	if err != nil {
		return err
	}
	role := "user"
	if session.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(c.stdout, "%s (%s), session expires %s\n", session.Email, role, session.ExpiresAt.Local().Format(time.RFC822))
	return nil
}

// readPassword reads a password without echo when stdin is a terminal, and
// falls back to a plain line read for pipes.
func readPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "password: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
