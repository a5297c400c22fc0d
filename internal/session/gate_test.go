package session

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/five82/shelf/internal/credential"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/route"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestCheckAuthenticated(t *testing.T) {
	store := credential.NewMemoryStore("")
	g := NewGate(store, nil)
	if g.CheckAuthenticated() {
		t.Fatalf("CheckAuthenticated() = true with empty store")
	}
	_ = store.Set("tok")
	if !g.CheckAuthenticated() {
		t.Fatalf("CheckAuthenticated() = false with token")
	}
	if g.Authenticated() {
		t.Fatalf("CheckAuthenticated changed gate status")
	}

	if NewGate(nil, nil).CheckAuthenticated() {
		t.Fatalf("nil provider reads as authenticated")
	}
}

func TestMount_ReadsOnce(t *testing.T) {
	store := credential.NewMemoryStore("tok")
	g := NewGate(store, nil)
	g.Mount()
	if !g.Authenticated() {
		t.Fatalf("Authenticated() = false after mount with token")
	}

	_ = store.Clear()
	if !g.Authenticated() {
		t.Fatalf("status changed without a remount")
	}
	g.Mount()
	if g.Authenticated() {
		t.Fatalf("Authenticated() = true after remount with no token")
	}
}

func TestMount_UnreadableFileStoreIsLoggedOut(t *testing.T) {
	g := NewGate(credential.NewFileStore(t.TempDir()), nil)
	g.Mount()
	if g.Authenticated() {
		t.Fatalf("directory as token file reads as authenticated")
	}
}

func TestSubjectAndExpiry(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	token := signed(t, jwt.MapClaims{"sub": "ada", "exp": past.Unix()})
	g := NewGate(credential.NewMemoryStore(token), nil)
	g.Mount()

	if got := g.Subject(); got != "ada" {
		t.Fatalf("Subject() = %q, want ada", got)
	}
	if !g.Expired(time.Now()) {
		t.Fatalf("Expired() = false, want true")
	}
	if !g.Authenticated() {
		t.Fatalf("expired token must still count as authenticated")
	}

	opaque := NewGate(credential.NewMemoryStore("opaque"), nil)
	opaque.Mount()
	if opaque.Subject() != "" || opaque.Expired(time.Now()) {
		t.Fatalf("opaque token produced claims")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	store := credential.NewMemoryStore("tok")
	g := NewGate(store, nil)
	g.Mount()

	for i := 0; i < 2; i++ {
		cmd := g.Logout()
		if cmd == nil {
			t.Fatalf("Logout #%d returned nil command", i+1)
		}
		nav, ok := cmd().(route.NavigateMsg)
		if !ok || nav.Path != route.Login {
			t.Fatalf("Logout #%d message = %#v, want navigate to %s", i+1, nav, route.Login)
		}
		if g.Authenticated() || store.Get() != "" {
			t.Fatalf("Logout #%d left authenticated=%v token=%q", i+1, g.Authenticated(), store.Get())
		}
	}
}

type failingStore struct{}

func (failingStore) Get() string  { return "tok" }
func (failingStore) Clear() error { return errors.New("read-only") }

func TestLogout_ClearFailureStillNavigates(t *testing.T) {
	var logs bytes.Buffer
	g := NewGate(failingStore{}, logging.New(&logs, "info"))
	g.Mount()

	cmd := g.Logout()
	if nav, ok := cmd().(route.NavigateMsg); !ok || nav.Path != route.Login {
		t.Fatalf("Logout message = %#v, want navigate to login", nav)
	}
	if g.Authenticated() {
		t.Fatalf("Authenticated() = true after logout")
	}
	if !strings.Contains(logs.String(), "clear token failed") {
		t.Fatalf("log = %q, want clear failure", logs.String())
	}
}
