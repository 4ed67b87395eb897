package preflight

import (
	"context"
	"time"

	"movieflix/internal/config"
	"movieflix/internal/session"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// RunAll executes every check for cfg. A nil sess skips the session check.
func RunAll(ctx context.Context, cfg *config.Config, sess *session.Session) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckBackend(ctx, cfg.API.BaseURL, cfg.APITimeout()),
	}
	if sess != nil {
		status, err := sess.Describe(ctx, time.Now())
		if err != nil {
			results = append(results, Result{Name: sessionCheckName, Detail: "unreadable: " + err.Error()})
		} else {
			results = append(results, CheckSession(status, time.Now()))
		}
	}
	return results
}
