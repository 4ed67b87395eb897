package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"movieflix/internal/session"
)

const (
	backendCheckName = "Backend"
	sessionCheckName = "Session"
)

// CheckBackend verifies that the API answers HTTP at all. Any status below 500
// passes, since the request is unauthenticated and a 401 still proves the
// server is up.
func CheckBackend(ctx context.Context, baseURL string, timeout time.Duration) Result {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: backendCheckName, Detail: "missing url"}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/entries", nil)
	if err != nil {
		return Result{Name: backendCheckName, Detail: fmt.Sprintf("%s (error: %v)", base, err)}
	}
	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return Result{Name: backendCheckName, Detail: fmt.Sprintf("%s (%s)", base, summarizeNetError(err))}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Result{Name: backendCheckName, Detail: fmt.Sprintf("%s (server error %d)", base, resp.StatusCode)}
	}
	return Result{Name: backendCheckName, Passed: true, Detail: fmt.Sprintf("%s (reachable, %d)", base, resp.StatusCode)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSession reports whether a usable token is stored.
func CheckSession(status session.Status, now time.Time) Result {
	if !status.SignedIn {
		return Result{Name: sessionCheckName, Detail: "not signed in"}
	}
	who := status.User.DisplayName()
	if who == "" && status.Claims != nil {
		who = status.Claims.Email
	}
	if who == "" {
		who = "unknown user"
	}
	if status.Expired {
		return Result{Name: sessionCheckName, Detail: fmt.Sprintf("%s (token expired %s)", who, status.Claims.ExpiresAt.Format(time.RFC3339))}
	}
	if status.Claims != nil && !status.Claims.ExpiresAt.IsZero() {
		left := status.Claims.ExpiresAt.Sub(now).Round(time.Minute)
		return Result{Name: sessionCheckName, Passed: true, Detail: fmt.Sprintf("%s (expires in %s)", who, left)}
	}
	return Result{Name: sessionCheckName, Passed: true, Detail: who}
}

func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "unreachable: " + opErr.Err.Error()
	}
	return err.Error()
}
