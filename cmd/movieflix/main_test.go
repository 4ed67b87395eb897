package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"movieflix/internal/catalog"
	"movieflix/internal/media"
	"movieflix/internal/services"
	"movieflix/internal/testsupport"
)

func TestLoginWhoamiLogout(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "whoami")
	requireContains(t, out, "Not signed in")

	login(t, env)

	out = mustRunCLI(t, env, "whoami")
	requireContains(t, out, "Ada")
	requireContains(t, out, testEmail)
	requireContains(t, out, "Token expires:")

	out = mustRunCLI(t, env, "whoami", "--json")
	var who whoamiOutput
	if err := json.Unmarshal([]byte(out), &who); err != nil {
		t.Fatalf("decode whoami json: %v\n%s", err, out)
	}
	if !who.SignedIn || who.ID != "user-1" || who.ExpiresAt == nil || who.Expired {
		t.Fatalf("unexpected whoami output: %+v", who)
	}

	requireContains(t, mustRunCLI(t, env, "logout"), "Signed out.")
	requireContains(t, mustRunCLI(t, env, "whoami"), "Not signed in")
}

func TestLoginPromptsForMissingValues(t *testing.T) {
	env := setupCLITestEnv(t)
	out, stderr, err := runCLI(t, env, testEmail+"\n"+testPassword+"\n", "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	requireContains(t, out, "Signed in as Ada.")
	requireContains(t, stderr, "Email: ")
	requireContains(t, stderr, "Password: ")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "", "login", "--email", testEmail, "--password", "wrong")
	if err == nil {
		t.Fatal("expected login failure")
	}
	if err.Error() != "Invalid credentials" {
		t.Fatalf("expected backend message, got %q", err)
	}
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected unauthorized marker, got %v", err)
	}
	requireContains(t, mustRunCLI(t, env, "whoami"), "Not signed in")
}

func TestEntriesListRequiresSession(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "", "entries", "list")
	if err == nil {
		t.Fatal("expected list to fail without a session")
	}
	requireContains(t, err.Error(), "Unauthorized: please log in")
	if hint := services.Hint(err); !strings.Contains(hint, "movieflix login") {
		t.Fatalf("expected login hint, got %q", hint)
	}
}

func TestEntriesListFiltersAndPages(t *testing.T) {
	env := setupCLITestEnv(t)
	login(t, env)

	out := mustRunCLI(t, env, "entries", "list")
	requireContains(t, out, "Page 1 of 2 (20 entries)")

	out = mustRunCLI(t, env, "entries", "list", "--page", "2", "--json")
	var page listPage
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode list json: %v", err)
	}
	if page.Page != 2 || page.Pages != 2 || page.Total != 20 || len(page.Entries) != 5 {
		t.Fatalf("unexpected page: page=%d pages=%d total=%d len=%d", page.Page, page.Pages, page.Total, len(page.Entries))
	}

	out = mustRunCLI(t, env, "entries", "list", "--type", "tv", "--all", "--json")
	page = listPage{}
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode list json: %v", err)
	}
	if page.Total != 10 {
		t.Fatalf("expected 10 tv entries, got %d", page.Total)
	}
	for _, e := range page.Entries {
		if e.Type != media.TypeTVShow {
			t.Fatalf("unexpected %s in tv filter", e.Type)
		}
	}

	out = mustRunCLI(t, env, "entries", "list", "--search", "NOLAN")
	requireContains(t, out, "Inception")
	requireContains(t, out, "Page 1 of 1 (3 entries)")

	out = mustRunCLI(t, env, "entries", "list", "--search", "no such thing")
	requireContains(t, out, "No entries found matching your filters")

	if _, _, err := runCLI(t, env, "", "entries", "list", "--type", "anime"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
}

func TestEntriesListOfflineUsesSnapshot(t *testing.T) {
	env := setupCLITestEnv(t)
	login(t, env)

	if _, _, err := runCLI(t, env, "", "entries", "list", "--offline"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected missing snapshot error, got %v", err)
	}
	mustRunCLI(t, env, "entries", "list")

	calls := env.backend.calls
	out := mustRunCLI(t, env, "entries", "list", "--offline", "--all")
	requireContains(t, out, "20 entries")
	if env.backend.calls != calls {
		t.Fatal("offline listing contacted the backend")
	}
}

func TestEntriesAddEditShowDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	login(t, env)

	out := mustRunCLI(t, env, "entries", "add",
		"--title", "  Arrival ", "--type", "movie", "--director", "Denis Villeneuve",
		"--year", "2016", "--location", "Montreal")
	requireContains(t, out, catalog.AddedMessage("Arrival"))
	requireContains(t, out, "ID: entry-1001")
	if got := env.backend.lastContentType(); got != "application/json" {
		t.Fatalf("expected JSON create without a poster, got %q", got)
	}

	posterPath := testsupport.WritePoster(t, env.baseDir, "dune.png")
	out = mustRunCLI(t, env, "entries", "add", "--title", "Dune", "--type", "tv", "--poster", posterPath)
	requireContains(t, out, catalog.AddedMessage("Dune"))
	if got := env.backend.lastContentType(); got != "multipart/form-data" {
		t.Fatalf("expected multipart create with a poster, got %q", got)
	}
	dune, ok := env.backend.entry("entry-1002")
	if !ok || dune.Poster != "/uploads/dune.png" || dune.Type != media.TypeTVShow {
		t.Fatalf("unexpected stored entry: %+v", dune)
	}

	out = mustRunCLI(t, env, "entries", "edit", "entry-1001", "--year", "2017")
	requireContains(t, out, catalog.UpdatedMessage("Arrival"))
	arrival, _ := env.backend.entry("entry-1001")
	if arrival.Year != "2017" || arrival.Director != "Denis Villeneuve" || arrival.Location != "Montreal" {
		t.Fatalf("edit should only change the year: %+v", arrival)
	}

	mustRunCLI(t, env, "entries", "edit", "entry-1002", "--location", "Jordan")
	dune, _ = env.backend.entry("entry-1002")
	if dune.Poster != "/uploads/dune.png" || dune.Location != "Jordan" {
		t.Fatalf("edit should keep the uploaded poster: %+v", dune)
	}

	out = mustRunCLI(t, env, "entries", "show", "entry-1002")
	requireContains(t, out, "TV Show")
	requireContains(t, out, "/uploads/dune.png")

	out, _, err := runCLI(t, env, "n\n", "entries", "delete", "entry-1001")
	if err != nil {
		t.Fatalf("delete prompt: %v", err)
	}
	requireContains(t, out, "Deletion cancelled.")
	if _, ok := env.backend.entry("entry-1001"); !ok {
		t.Fatal("cancelled delete removed the entry")
	}

	out = mustRunCLI(t, env, "entries", "delete", "entry-1001", "--yes")
	requireContains(t, out, catalog.DeletedMessage("Arrival"))
	if _, ok := env.backend.entry("entry-1001"); ok {
		t.Fatal("entry still present after delete")
	}
}

func TestEntriesAddRejectsInvalidDraft(t *testing.T) {
	env := setupCLITestEnv(t)
	login(t, env)

	_, _, err := runCLI(t, env, "", "entries", "add", "--title", "Metropolis", "--year", "1200")
	if err == nil {
		t.Fatal("expected validation error")
	}
	requireContains(t, err.Error(), "year")
	if got := env.backend.lastContentType(); got != "" {
		t.Fatalf("invalid draft reached the backend (%s)", got)
	}
}

func TestEntriesShowUnknownID(t *testing.T) {
	env := setupCLITestEnv(t)
	login(t, env)
	_, _, err := runCLI(t, env, "", "entries", "show", "missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSignupAndVerify(t *testing.T) {
	env := setupCLITestEnv(t)
	login(t, env)

	out, _, err := runCLI(t, env, "Grace\ngrace@example.com\nhunter2\n", "signup")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	requireContains(t, out, "Please check your email for a verification link")
	requireContains(t, mustRunCLI(t, env, "whoami"), "Not signed in")

	requireContains(t, mustRunCLI(t, env, "verify"), "nothing to do")
	requireContains(t, mustRunCLI(t, env, "verify", "http://localhost:5173/verify?token=good-token&x=1"), "Your email has been verified!")

	_, _, err = runCLI(t, env, "", "verify", "bad-token")
	if err == nil || err.Error() != "Invalid or expired token" {
		t.Fatalf("expected backend verify message, got %v", err)
	}
}

func TestPasswordRecoveryFlow(t *testing.T) {
	env := setupCLITestEnv(t)

	requireContains(t, mustRunCLI(t, env, "password", "forgot", "--email", testEmail), "OTP sent to your email")
	requireContains(t, mustRunCLI(t, env, "password", "verify-otp", "--email", testEmail, "--otp", "123456"), "You can now reset your password.")

	_, _, err := runCLI(t, env, "", "password", "verify-otp", "--email", testEmail, "--otp", "000000")
	if err == nil || err.Error() != "OTP expired or incorrect." {
		t.Fatalf("expected fallback OTP message, got %v", err)
	}

	out, _, err := runCLI(t, env, "n3w-pass\nn3w-pass\n", "password", "reset", "--email", testEmail)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	requireContains(t, out, "Password updated")
}

func TestPasswordResetMismatch(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "", "password", "reset", "--email", testEmail,
		"--new-password", "one", "--confirm-password", "two")
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	requireContains(t, err.Error(), passwordMismatch)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestDemoCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "demo", "--count", "3", "--json")
	var entries []media.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode demo json: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 demo entries, got %d", len(entries))
	}

	out = mustRunCLI(t, env, "demo")
	requireContains(t, out, "Page 1 of 4 (50 sample entries)")

	if _, _, err := runCLI(t, env, "", "demo", "--browse"); err == nil {
		t.Fatal("expected demo --browse to refuse a non-terminal")
	}
}

func TestBrowseRequiresTerminal(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "", "browse", "--demo")
	if err == nil || !strings.Contains(err.Error(), "interactive terminal") {
		t.Fatalf("expected terminal error, got %v", err)
	}
	if _, _, err := runCLI(t, env, "", "browse", "--view", "carousel"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected view validation error, got %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "status")
	requireContains(t, out, "== MovieFlix ==")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "Backend:")
	requireContains(t, out, "[WARN] not signed in")
	requireContains(t, out, "none yet")
	requireContains(t, out, "0 keys)")

	login(t, env)
	mustRunCLI(t, env, "entries", "list")
	out = mustRunCLI(t, env, "status")
	requireContains(t, out, "Ada (expires in")
	requireContains(t, out, "schema 002_entry_snapshot, 2 keys)")
	requireContains(t, out, "20 (saved")
}

func TestAPIURLFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "", "--api-url", "ftp://nowhere", "status")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "config", "validate")
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.API.BaseURL)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out = mustRunCLI(t, env, "config", "init", "--path", target)
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	mustRunCLI(t, env, "config", "init", "--path", target, "--overwrite")
}

func TestVerifyForgetsCachedEntries(t *testing.T) {
	env := setupCLITestEnv(t)
	login(t, env)
	mustRunCLI(t, env, "entries", "list")
	requireContains(t, mustRunCLI(t, env, "status"), "20 (saved")

	mustRunCLI(t, env, "verify", "good-token")

	if _, _, err := runCLI(t, env, "", "entries", "list", "--offline"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected no cached entries after verification, got %v", err)
	}
	out := mustRunCLI(t, env, "status")
	requireContains(t, out, "none yet")
	requireContains(t, out, "not signed in")
}

func TestLogoutForgetsCachedEntries(t *testing.T) {
	env := setupCLITestEnv(t)
	login(t, env)
	mustRunCLI(t, env, "entries", "list")
	mustRunCLI(t, env, "logout")

	if _, _, err := runCLI(t, env, "", "entries", "list", "--offline"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected no cached entries after logout, got %v", err)
	}
}
