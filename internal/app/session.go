package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/five82/shelf/internal/session"
)

// ErrEmptyToken is returned by Login when no token was supplied.
var ErrEmptyToken = errors.New("token is empty")

// Status prints the API endpoint and whether a token is stored.
func Status(opts Options, w io.Writer) error {
	e, err := open(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	gate := session.NewGate(e.store, e.logger)
	gate.Mount()

	fmt.Fprintf(w, "api:    %s\n", e.cfg.APIURL)
	fmt.Fprintf(w, "token:  %s\n", e.store.Path())
	if !gate.Authenticated() {
		fmt.Fprintln(w, "status: logged out")
		return nil
	}
	status := "logged in"
	if subject := gate.Subject(); subject != "" {
		status += " as " + subject
	}
	if gate.Expired(time.Now()) {
		status += " (token expired)"
	}
	fmt.Fprintf(w, "status: %s\n", status)
	return nil
}

// Login stores token for later sessions.
func Login(opts Options, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	e, err := open(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.store.Set(token); err != nil {
		return err
	}
	e.logger.Info("token stored", "path", e.store.Path())
	return nil
}

// Logout removes the stored token. Logging out twice is not an error.
func Logout(opts Options) error {
	e, err := open(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	e.logger.Info("logged out")
	return nil
}
