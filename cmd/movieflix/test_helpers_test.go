package main

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pelletier/go-toml/v2"

	"movieflix/internal/config"
	"movieflix/internal/media"
	"movieflix/internal/mockdata"
	"movieflix/internal/testsupport"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "secret"
)

// fakeBackend is an in-memory MovieFlix API.
type fakeBackend struct {
	t *testing.T

	mu           sync.Mutex
	entries      []media.Entry
	nextID       int
	token        string
	contentTypes []string
	calls        int
}

func newFakeBackend(t *testing.T, entries []media.Entry) *fakeBackend {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": testEmail,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return &fakeBackend{t: t, entries: entries, nextID: 1000, token: token}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.login)
	mux.HandleFunc("POST /api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		b.respond(w, http.StatusCreated, map[string]any{})
	})
	mux.HandleFunc("GET /api/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "good-token" {
			b.respond(w, http.StatusBadRequest, map[string]string{"message": "Invalid or expired token"})
			return
		}
		b.respond(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("POST /api/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		b.respond(w, http.StatusOK, map[string]string{"message": "OTP sent to your email"})
	})
	mux.HandleFunc("POST /api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OTP string `json:"otp"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.OTP != "123456" {
			b.respond(w, http.StatusBadRequest, map[string]string{})
			return
		}
		b.respond(w, http.StatusOK, map[string]string{})
	})
	mux.HandleFunc("POST /api/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		b.respond(w, http.StatusOK, map[string]string{"message": "Password updated"})
	})
	mux.HandleFunc("GET /api/entries", b.authorized(b.listEntries))
	mux.HandleFunc("POST /api/entries", b.authorized(b.createEntry))
	mux.HandleFunc("PUT /api/entries/{id}", b.authorized(b.updateEntry))
	mux.HandleFunc("DELETE /api/entries/{id}", b.authorized(b.deleteEntry))
	return mux
}

func (b *fakeBackend) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		b.t.Errorf("encode response: %v", err)
	}
}

func (b *fakeBackend) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls++
		b.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			b.respond(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized: please log in"})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		b.respond(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
		return
	}
	if body.Email != testEmail || body.Password != testPassword {
		b.respond(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	b.respond(w, http.StatusOK, map[string]any{
		"token": b.token,
		"user":  map[string]string{"id": "user-1", "email": testEmail, "name": "Ada"},
	})
}

func (b *fakeBackend) listEntries(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.respond(w, http.StatusOK, b.entries)
}

func (b *fakeBackend) readDraft(r *http.Request) (media.Draft, string, error) {
	var draft media.Draft
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	b.mu.Lock()
	b.contentTypes = append(b.contentTypes, mediaType)
	b.mu.Unlock()
	if mediaType != "multipart/form-data" {
		return draft, "", json.NewDecoder(r.Body).Decode(&draft)
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		return draft, "", err
	}
	if err := json.Unmarshal([]byte(r.FormValue("data")), &draft); err != nil {
		return draft, "", err
	}
	_, header, err := r.FormFile("poster")
	if err != nil {
		return draft, "", err
	}
	return draft, header.Filename, nil
}

func entryFromDraft(id string, d media.Draft, upload string) media.Entry {
	e := media.Entry{
		ID:          id,
		Title:       d.Title,
		Type:        d.Type,
		Director:    d.Director,
		Budget:      d.Budget,
		Location:    d.Location,
		Duration:    d.Duration,
		Poster:      d.PosterURL,
		Description: d.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if d.Year != 0 {
		e.Year = fmt.Sprint(d.Year)
	}
	if upload != "" {
		e.Poster = "/uploads/" + upload
	}
	return e
}

func (b *fakeBackend) createEntry(w http.ResponseWriter, r *http.Request) {
	draft, upload, err := b.readDraft(r)
	if err != nil {
		b.respond(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	b.mu.Lock()
	b.nextID++
	entry := entryFromDraft(fmt.Sprintf("entry-%d", b.nextID), draft, upload)
	b.entries = append([]media.Entry{entry}, b.entries...)
	b.mu.Unlock()
	b.respond(w, http.StatusCreated, entry)
}

func (b *fakeBackend) updateEntry(w http.ResponseWriter, r *http.Request) {
	draft, upload, err := b.readDraft(r)
	if err != nil {
		b.respond(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	id := r.PathValue("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.entries {
		if e.ID == id {
			updated := entryFromDraft(id, draft, upload)
			updated.CreatedAt = e.CreatedAt
			if upload == "" && updated.Poster == "" {
				updated.Poster = e.Poster
			}
			b.entries[i] = updated
			b.respond(w, http.StatusOK, updated)
			return
		}
	}
	b.respond(w, http.StatusNotFound, map[string]string{"message": "Entry not found"})
}

func (b *fakeBackend) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.entries {
		if e.ID == id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	b.respond(w, http.StatusNotFound, map[string]string{"message": "Entry not found"})
}

func (b *fakeBackend) entry(id string) (media.Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entries {
		if e.ID == id {
			return e, true
		}
	}
	return media.Entry{}, false
}

func (b *fakeBackend) lastContentType() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.contentTypes) == 0 {
		return ""
	}
	return b.contentTypes[len(b.contentTypes)-1]
}

type cliTestEnv struct {
	cfg        *config.Config
	backend    *fakeBackend
	configPath string
	baseDir    string
}

func seedEntries() []media.Entry {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return mockdata.GenerateAt(20, now, rand.New(rand.NewPCG(1, 2)))
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	for _, key := range []string{"MOVIEFLIX_API_BASE_URL", "VITE_API_BASE_URL", "REACT_APP_API_BASE_URL", "NO_COLOR"} {
		t.Setenv(key, "")
	}

	backend := newFakeBackend(t, seedEntries())
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(srv.URL+"/api"))
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, backend: backend, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, env, "", args...)
	if err != nil {
		t.Fatalf("%s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

func login(t *testing.T, env *cliTestEnv) {
	t.Helper()
	out := mustRunCLI(t, env, "login", "--email", testEmail, "--password", testPassword)
	requireContains(t, out, "Signed in as Ada.")
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n---\n%s", needle, haystack)
	}
}
