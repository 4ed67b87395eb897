// Package session keeps the signed-in user's bearer token and cached user
// record in the local store under the "auth_token" and "user" keys.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"movieflix/internal/media"
)

const (
	TokenKey = "auth_token"
	UserKey  = "user"
)

// ErrOpaqueToken is returned by Claims when the stored token is not a JWT.
var ErrOpaqueToken = errors.New("session token is not a JWT")

// Store is the key/value persistence a session lives in.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Session reads and writes the auth state.
type Session struct {
	store Store
}

// New wraps store.
func New(store Store) *Session {
	return &Session{store: store}
}

// Token returns the stored bearer token, or "" when signed out.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, _, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

// SetToken stores token. Empty tokens are ignored so a failed login cannot
// wipe a working session.
func (s *Session) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// User returns the cached user record. ok is false when none is stored.
func (s *Session) User(ctx context.Context) (user media.User, ok bool, err error) {
	raw, found, err := s.store.Get(ctx, UserKey)
	if err != nil {
		return media.User{}, false, fmt.Errorf("read user: %w", err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return media.User{}, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return media.User{}, false, fmt.Errorf("decode user: %w", err)
	}
	return user, true, nil
}

// Save stores the token and the user returned by a successful login. Signing
// in as a different account wipes the local store first, so neither the old
// user record nor its cached entries survive. A login reply without a user
// drops the cached record. Empty tokens are ignored.
func (s *Session) Save(ctx context.Context, token string, user media.User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	same, err := s.sameAccount(ctx, token, user)
	if err != nil {
		return err
	}
	if !same {
		if err := s.Clear(ctx); err != nil {
			return err
		}
	}
	if err := s.SetToken(ctx, token); err != nil {
		return err
	}
	if user == (media.User{}) {
		if err := s.store.Remove(ctx, UserKey); err != nil {
			return fmt.Errorf("drop user: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(ctx, UserKey, string(data)); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// Clear signs out and forgets everything kept locally, cached entries
// included.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// sameAccount reports whether token and user belong to the account that is
// already signed in. An unreadable cached user counts as a different account.
func (s *Session) sameAccount(ctx context.Context, token string, user media.User) (bool, error) {
	current, err := s.Token(ctx)
	if err != nil || current == "" {
		return false, err
	}
	cached, _, err := s.User(ctx)
	if err != nil {
		return false, nil
	}
	previous := accountKey(current, cached)
	return previous != "" && previous == accountKey(token, user), nil
}

// accountKey identifies an account by user ID, token subject, or email, in
// that order.
func accountKey(token string, user media.User) string {
	if id := strings.TrimSpace(user.ID); id != "" {
		return id
	}
	claims, _ := ParseClaims(token)
	if claims != nil && claims.Subject != "" {
		return claims.Subject
	}
	if email := strings.TrimSpace(user.Email); email != "" {
		return strings.ToLower(email)
	}
	if claims != nil {
		return strings.ToLower(claims.Email)
	}
	return ""
}

// Claims describes what the stored token says about itself. The signature is
// not checked; the backend remains the authority.
type Claims struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry is at or before now. Tokens
// without an expiry never expire locally.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Claims decodes the stored token. It returns (nil, nil) when signed out and
// ErrOpaqueToken when the token is not a JWT.
func (s *Session) Claims(ctx context.Context) (*Claims, error) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return nil, err
	}
	return ParseClaims(token)
}

// ParseClaims decodes a JWT without verifying its signature.
func ParseClaims(token string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpaqueToken, err)
	}

	claims := &Claims{}
	if sub, err := mapClaims.GetSubject(); err == nil && sub != "" {
		claims.Subject = sub
	} else if id, ok := mapClaims["id"].(string); ok {
		claims.Subject = id
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time.UTC()
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time.UTC()
	}
	return claims, nil
}

// Status summarizes the session for display.
type Status struct {
	SignedIn bool
	User     media.User
	Claims   *Claims
	Expired  bool
}

// Describe collects the session status as of now.
func (s *Session) Describe(ctx context.Context, now time.Time) (Status, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return Status{}, err
	}
	if token == "" {
		return Status{}, nil
	}
	status := Status{SignedIn: true}
	if user, ok, err := s.User(ctx); err != nil {
		return Status{}, err
	} else if ok {
		status.User = user
	}
	if claims, err := ParseClaims(token); err == nil {
		status.Claims = claims
		status.Expired = claims.Expired(now)
	}
	return status, nil
}
