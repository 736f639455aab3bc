package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckview/pkg/auth"
	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/session"
)

// =============================================================================
// Login Command
// =============================================================================

func (c *CLI) loginCommand() *cobra.Command {
	var credential string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a Google ID token",
		Long: `Sign in with the ID token (the "credential" field) returned by Google Sign-In.

The token's issuer, expiry and, when auth.google_client_id is configured,
audience are checked. The session is stored in ~/.config/deckview/sessions.`,
		Example: `  deckview login --credential "$(cat token.jwt)"
  pbpaste | deckview login --credential -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if credential == "-" {
				data, err := readAllStdin(cmd)
				if err != nil {
					return err
				}
				credential = data
			}
			if credential == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--credential is required")
			}
			return c.runLogin(cmd.Context(), credential)
		},
	}

	cmd.Flags().StringVar(&credential, "credential", "", "Google ID token (JWT), or - to read stdin")
	return cmd
}

func (c *CLI) runLogin(ctx context.Context, credential string) error {
	claims, err := auth.ParseIDToken(credential)
	if err != nil {
		return err
	}
	if err := claims.Validate(c.config.Auth.GoogleClientID, c.now()); err != nil {
		return err
	}
	if c.config.Auth.GoogleClientID == "" {
		loggerFromContext(ctx).Warn("auth.google_client_id is not set; token audience not checked")
	}

	user := claims.User()
	sess := session.New(&user, session.DefaultTTL)

	store, err := session.NewCLIStore(c.sessionDir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	if err := store.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	p := c.print()
	p.success("Signed in as %s", displayName(&user))
	p.detail("Session expires %s", sess.ExpiresAt.Format("2006-01-02 15:04"))
	p.nextStep("Start the player", appName+" play")
	return nil
}

// =============================================================================
// Logout Command
// =============================================================================

func (c *CLI) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewCLIStore(c.sessionDir)
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			err = store.DeleteSession(cmd.Context())
			if err == session.ErrNotFound {
				c.print().info("Not signed in")
				return nil
			}
			if err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			c.print().success("Signed out")
			return nil
		},
	}
}

// =============================================================================
// Whoami Command
// =============================================================================

func (c *CLI) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			p := c.print()
			p.keyValue("Name", sess.User.Name)
			if sess.User.Email != "" {
				p.keyValue("Email", sess.User.Email)
			}
			p.keyValue("User ID", sess.UserID())
			p.keyValue("Expires", sess.ExpiresAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

// =============================================================================
// Session Helpers
// =============================================================================

// requireSession returns the signed-in session, or the local mock session
// with --no-auth.
func (c *CLI) requireSession(ctx context.Context) (*session.Session, error) {
	if c.noAuth {
		return session.MockLocal(), nil
	}
	store, err := session.NewCLIStore(c.sessionDir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	sess, err := store.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeUnauthorized, "not signed in (run '%s login' first, or pass --no-auth)", appName)
	}
	loggerFromContext(ctx).Debug("session", "user", sess.UserID())
	return sess, nil
}

func displayName(u *auth.User) string {
	switch {
	case u.Name != "" && u.Email != "":
		return u.Name + " <" + u.Email + ">"
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	}
	return u.Subject
}

func readAllStdin(cmd *cobra.Command) (string, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
