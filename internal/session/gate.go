// Package session derives the authenticated status shown in the navbar.
package session

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/credential"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/route"
)

// Gate reads the stored token on mount and clears it on logout. The status is
// only refreshed by Mount; there is no polling.
type Gate struct {
	creds  credential.Provider
	logger *slog.Logger

	authenticated bool
	claims        credential.Claims
}

// NewGate returns a gate over creds.
func NewGate(creds credential.Provider, logger *slog.Logger) *Gate {
	logger = logging.Default(logger)
	return &Gate{creds: creds, logger: logger.With("component", "session")}
}

// CheckAuthenticated reports whether a non-empty token is stored. It does not
// change the gate's status.
func (g *Gate) CheckAuthenticated() bool {
	if g.creds == nil {
		return false
	}
	return g.creds.Get() != ""
}

// Mount reads the token once and records the status.
func (g *Gate) Mount() {
	token := ""
	if g.creds != nil {
		token = g.creds.Get()
	}
	g.authenticated = token != ""
	g.claims, _ = credential.Peek(token)
}

// Authenticated returns the status recorded by the last Mount or Logout.
func (g *Gate) Authenticated() bool {
	return g.authenticated
}

// Subject returns the token subject for display, or "".
func (g *Gate) Subject() string {
	if !g.authenticated {
		return ""
	}
	return g.claims.Subject
}

// Expired reports whether the token carries an expiry that has passed.
// Display only.
func (g *Gate) Expired(now time.Time) bool {
	if !g.authenticated || g.claims.ExpiresAt.IsZero() {
		return false
	}
	return now.After(g.claims.ExpiresAt)
}

// Logout clears the token and returns the navigation to the login page.
// Calling it again is harmless. A failed clear is logged and navigation
// still happens.
func (g *Gate) Logout() tea.Cmd {
	if g.creds != nil {
		if err := g.creds.Clear(); err != nil {
			g.logger.Warn("clear token failed", "error", err)
		}
	}
	if g.authenticated {
		g.logger.Info("logged out")
	}
	g.authenticated = false
	g.claims = credential.Claims{}
	return route.To(route.Login)
}
