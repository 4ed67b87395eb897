package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"

	"movieflix/internal/localstore"
	"movieflix/internal/media"
	"movieflix/internal/session"
	"movieflix/internal/testsupport"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	s, _ := newSessionWithStore(t)
	return s
}

func newSessionWithStore(t *testing.T) (*session.Session, *localstore.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	return session.New(store), store
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestSaveAndClear(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	user := media.User{ID: "u1", Email: "ana@example.com", Name: "Ana"}

	if err := s.Save(ctx, "tok-1", user); err != nil {
		t.Fatalf("Save: %v", err)
	}
	token, err := s.Token(ctx)
	if err != nil || token != "tok-1" {
		t.Fatalf("Token = %q, %v", token, err)
	}
	got, ok, err := s.User(ctx)
	if err != nil || !ok {
		t.Fatalf("User: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(user, got); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if token, _ := s.Token(ctx); token != "" {
		t.Fatalf("expected token cleared, got %q", token)
	}
	if _, ok, _ := s.User(ctx); ok {
		t.Fatal("expected user cleared")
	}
}

func TestSaveWithoutUserDropsCachedUser(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	if err := s.Save(ctx, "tok-a", media.User{ID: "a", Email: "alice@example.com", Name: "Alice"}); err != nil {
		t.Fatalf("Save alice: %v", err)
	}
	if err := s.Save(ctx, "tok-b", media.User{}); err != nil {
		t.Fatalf("Save token only: %v", err)
	}
	if token, _ := s.Token(ctx); token != "tok-b" {
		t.Fatalf("Token = %q, want tok-b", token)
	}
	if user, ok, err := s.User(ctx); err != nil || ok {
		t.Fatalf("expected no cached user, got %+v ok=%v err=%v", user, ok, err)
	}
	status, err := s.Describe(ctx, time.Now())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if status.User.Name == "Alice" {
		t.Fatal("previous account still reported")
	}
}

func TestSaveKeepsSnapshotForSameAccount(t *testing.T) {
	s, store := newSessionWithStore(t)
	ctx := context.Background()
	alice := media.User{ID: "a", Email: "alice@example.com", Name: "Alice"}
	if err := s.Save(ctx, "tok-a1", alice); err != nil {
		t.Fatalf("Save: %v", err)
	}
	testsupport.SeedSnapshot(t, store, []media.Entry{{ID: "alice-1", Title: "Alice private", Type: media.TypeMovie}})

	if err := s.Save(ctx, "tok-a2", alice); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if snapshot, err := store.LoadSnapshot(ctx); err != nil || len(snapshot.Entries) != 1 {
		t.Fatalf("expected snapshot kept for the same account, got %+v err=%v", snapshot.Entries, err)
	}
}

func TestSaveForOtherAccountWipesLocalState(t *testing.T) {
	s, store := newSessionWithStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, "tok-a", media.User{ID: "a", Email: "alice@example.com", Name: "Alice"}); err != nil {
		t.Fatalf("Save alice: %v", err)
	}
	testsupport.SeedSnapshot(t, store, []media.Entry{{ID: "alice-1", Title: "Alice private", Type: media.TypeMovie}})

	bobToken := signedToken(t, jwt.MapClaims{"sub": "b", "email": "bob@example.com"})
	if err := s.Save(ctx, bobToken, media.User{}); err != nil {
		t.Fatalf("Save bob: %v", err)
	}
	snapshot, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !snapshot.Empty() {
		t.Fatalf("previous account's entries survived: %+v", snapshot.Entries)
	}
	if _, ok, _ := s.User(ctx); ok {
		t.Fatal("previous account's user survived")
	}
}

func TestClearDropsSnapshot(t *testing.T) {
	s, store := newSessionWithStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, "tok", media.User{ID: "a"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	testsupport.SeedSnapshot(t, store, []media.Entry{{ID: "1", Title: "Up", Type: media.TypeMovie}})
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if snapshot, _ := store.LoadSnapshot(ctx); !snapshot.Empty() {
		t.Fatal("expected snapshot cleared with the session")
	}
}

func TestSetTokenIgnoresEmpty(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	if err := s.SetToken(ctx, "keep"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := s.SetToken(ctx, "   "); err != nil {
		t.Fatalf("SetToken empty: %v", err)
	}
	if err := s.Save(ctx, "", media.User{}); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	if token, _ := s.Token(ctx); token != "keep" {
		t.Fatalf("empty token overwrote session: %q", token)
	}
}

func TestClaimsFromJWT(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	if claims, err := s.Claims(ctx); claims != nil || err != nil {
		t.Fatalf("signed-out Claims = %+v, %v", claims, err)
	}

	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{"id": "u1", "email": "ana@example.com", "exp": exp.Unix()})
	if err := s.SetToken(ctx, token); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	claims, err := s.Claims(ctx)
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if claims.Subject != "u1" || claims.Email != "ana@example.com" || !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Expired(exp.Add(-time.Second)) {
		t.Fatal("token should be valid before expiry")
	}
	if !claims.Expired(exp) {
		t.Fatal("token should be expired at its expiry")
	}
}

func TestClaimsRejectsOpaqueToken(t *testing.T) {
	if _, err := session.ParseClaims("not-a-jwt"); !errors.Is(err, session.ErrOpaqueToken) {
		t.Fatalf("expected ErrOpaqueToken, got %v", err)
	}
	if (session.Claims{}).Expired(time.Now()) {
		t.Fatal("claims without expiry should never expire")
	}
}

func TestDescribe(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	status, err := s.Describe(ctx, now)
	if err != nil || status.SignedIn {
		t.Fatalf("expected signed out, got %+v %v", status, err)
	}

	token := signedToken(t, jwt.MapClaims{"sub": "u2", "exp": now.Add(-time.Hour).Unix()})
	if err := s.Save(ctx, token, media.User{Email: "bo@example.com"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	status, err = s.Describe(ctx, now)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !status.SignedIn || !status.Expired || status.User.Email != "bo@example.com" || status.Claims.Subject != "u2" {
		t.Fatalf("unexpected status %+v", status)
	}

	if err := s.SetToken(ctx, "opaque"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	status, err = s.Describe(ctx, now)
	if err != nil || !status.SignedIn || status.Claims != nil || status.Expired {
		t.Fatalf("opaque token status %+v %v", status, err)
	}
}
