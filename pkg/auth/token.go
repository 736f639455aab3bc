// Package auth decodes Google Sign-In ID tokens.
//
// The viewer only needs the identity inside the token (subject, email, name,
// picture) to greet the user and scope their cache entries. The token's
// signature is not verified: the token comes straight from the user's own
// sign-in, and the data it unlocks is read with the user's own sheet access.
// Audience, issuer and expiry are still checked by [Claims.Validate].
package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/matzehuels/deckview/pkg/errors"
)

// Issuers accepted for Google ID tokens.
var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// Audience is the "aud" claim, which may be a string or a list of strings.
type Audience []string

func (a *Audience) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*a = Audience{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*a = many
	return nil
}

// Contains reports whether id is one of the audiences.
func (a Audience) Contains(id string) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

// Claims are the ID token payload fields deckview uses.
type Claims struct {
	Subject       string   `json:"sub"`
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	Name          string   `json:"name"`
	Picture       string   `json:"picture"`
	Audience      Audience `json:"aud"`
	Issuer        string   `json:"iss"`
	ExpiresAt     int64    `json:"exp"`
	IssuedAt      int64    `json:"iat"`
}

// User is the signed-in identity kept in a session.
type User struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// ParseIDToken decodes the payload segment of a JWT.
func ParseIDToken(token string) (*Claims, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return nil, errors.New(errors.ErrCodeUnauthorized, "malformed ID token: want 3 segments, got %d", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnauthorized, err, "malformed ID token payload")
	}

	var c Claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnauthorized, err, "malformed ID token claims")
	}
	if c.Subject == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "ID token has no subject")
	}
	return &c, nil
}

// Expiry returns the exp claim as a time. Zero if the claim is absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(c.ExpiresAt, 0)
}

// Validate checks issuer and expiry, and the audience when clientID is set.
func (c *Claims) Validate(clientID string, now time.Time) error {
	if !googleIssuers[c.Issuer] {
		return errors.New(errors.ErrCodeUnauthorized, "unexpected token issuer %q", c.Issuer)
	}
	if clientID != "" && !c.Audience.Contains(clientID) {
		return errors.New(errors.ErrCodeUnauthorized, "token was issued for a different client")
	}
	if exp := c.Expiry(); !exp.IsZero() && !now.Before(exp) {
		return errors.New(errors.ErrCodeSessionExpired, "ID token expired at %s", exp.Format(time.RFC3339))
	}
	return nil
}

// User returns the identity carried by the claims.
func (c *Claims) User() User {
	return User{
		Subject: c.Subject,
		Email:   c.Email,
		Name:    c.Name,
		Picture: c.Picture,
	}
}
