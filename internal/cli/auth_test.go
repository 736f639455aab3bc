package cli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/deckview/pkg/auth"
	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/session"
)

var testNow = time.Unix(1_700_000_000, 0)

// idToken builds an unsigned JWT around claims.
func idToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"RS256"}`)) + "." + enc.EncodeToString(payload) + ".sig"
}

func validClaims() map[string]any {
	return map[string]any{
		"sub":   "42",
		"email": "ada@example.com",
		"name":  "Ada",
		"iss":   "https://accounts.google.com",
		"aud":   "client-1",
		"exp":   testNow.Add(time.Hour).Unix(),
	}
}

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.sessionDir = t.TempDir()
	c.config.Auth.GoogleClientID = "client-1"
	c.now = func() time.Time { return testNow }
	return c
}

func TestLogin(t *testing.T) {
	c := newTestCLI(t)
	ctx := context.Background()

	if err := c.runLogin(ctx, idToken(t, validClaims())); err != nil {
		t.Fatalf("runLogin() error: %v", err)
	}

	sess, err := c.requireSession(ctx)
	if err != nil {
		t.Fatalf("requireSession() error: %v", err)
	}
	if sess.UserID() != "google:42" {
		t.Errorf("UserID() = %q, want %q", sess.UserID(), "google:42")
	}
	if sess.User.Email != "ada@example.com" || sess.User.Name != "Ada" {
		t.Errorf("User = %+v", sess.User)
	}
}

func TestLoginRejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		code   errors.Code
	}{
		{"wrong audience", func(c map[string]any) { c["aud"] = "other" }, errors.ErrCodeUnauthorized},
		{"wrong issuer", func(c map[string]any) { c["iss"] = "evil.example.com" }, errors.ErrCodeUnauthorized},
		{"expired", func(c map[string]any) { c["exp"] = testNow.Add(-time.Minute).Unix() }, errors.ErrCodeSessionExpired},
		{"no subject", func(c map[string]any) { delete(c, "sub") }, errors.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t)
			claims := validClaims()
			tt.mutate(claims)

			err := c.runLogin(context.Background(), idToken(t, claims))
			if !errors.Is(err, tt.code) {
				t.Errorf("runLogin() error = %v, want code %s", err, tt.code)
			}

			store, err := session.NewCLIStore(c.sessionDir)
			if err != nil {
				t.Fatal(err)
			}
			if sess, _ := store.GetSession(context.Background()); sess != nil {
				t.Error("rejected login should not store a session")
			}
		})
	}
}

func TestLoginMalformedToken(t *testing.T) {
	c := newTestCLI(t)
	if err := c.runLogin(context.Background(), "not-a-jwt"); !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("runLogin() error = %v, want UNAUTHORIZED", err)
	}
}

func TestRequireSessionNotSignedIn(t *testing.T) {
	c := newTestCLI(t)
	_, err := c.requireSession(context.Background())
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("requireSession() error = %v, want UNAUTHORIZED", err)
	}
}

func TestRequireSessionNoAuth(t *testing.T) {
	c := newTestCLI(t)
	c.noAuth = true
	sess, err := c.requireSession(context.Background())
	if err != nil {
		t.Fatalf("requireSession() error: %v", err)
	}
	if sess.UserID() != "google:local" {
		t.Errorf("UserID() = %q, want google:local", sess.UserID())
	}
}

func TestLogout(t *testing.T) {
	isolate(t)
	c := newTestCLI(t)
	ctx := context.Background()
	if err := c.runLogin(ctx, idToken(t, validClaims())); err != nil {
		t.Fatal(err)
	}

	root := c.RootCommand()
	root.SetArgs([]string{"logout"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("logout error: %v", err)
	}

	if _, err := c.requireSession(ctx); !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("after logout requireSession() error = %v, want UNAUTHORIZED", err)
	}
}

func TestLogoutWhenSignedOut(t *testing.T) {
	isolate(t)
	c := newTestCLI(t)

	var out strings.Builder
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"logout"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("logout error: %v", err)
	}
	if !strings.Contains(out.String(), "Not signed in") {
		t.Errorf("logout output = %q, want Not signed in", out.String())
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name, email, want string
	}{
		{"Ada", "ada@example.com", "Ada <ada@example.com>"},
		{"Ada", "", "Ada"},
		{"", "ada@example.com", "ada@example.com"},
		{"", "", "42"},
	}
	for _, tt := range tests {
		u := auth.User{Subject: "42", Name: tt.name, Email: tt.email}
		if got := displayName(&u); got != tt.want {
			t.Errorf("displayName(%q, %q) = %q, want %q", tt.name, tt.email, got, tt.want)
		}
	}
}
