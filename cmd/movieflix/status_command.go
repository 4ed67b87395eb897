package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"movieflix/internal/preflight"
	"movieflix/internal/textutil"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the backend, local state, and session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				lines := renderSectionHeader("MovieFlix", colorize)
				configDetail := ctx.configPath
				if !ctx.configSeen {
					configDetail += " (not found, using defaults)"
				}
				lines = append(lines, renderStatusLine("Config", statusInfo, configDetail, colorize))
				lines = append(lines, checkLines(preflight.RunAll(reqCtx, rt.cfg, rt.session), colorize)...)

				if version, err := rt.store.SchemaVersion(reqCtx); err == nil {
					detail := fmt.Sprintf("%s (schema %s", rt.store.Path(), version)
					if keys, err := rt.store.Keys(reqCtx); err == nil {
						detail += fmt.Sprintf(", %d %s", len(keys), textutil.Ternary(len(keys) == 1, "key", "keys"))
					}
					lines = append(lines, renderStatusLine("Local store", statusInfo, detail+")", colorize))
				}
				snapshot, err := rt.store.LoadSnapshot(reqCtx)
				switch {
				case err != nil:
					lines = append(lines, renderStatusLine("Cached entries", statusError, err.Error(), colorize))
				case snapshot.Empty():
					lines = append(lines, renderStatusLine("Cached entries", statusInfo, "none yet", colorize))
				default:
					age := time.Since(snapshot.SavedAt).Round(time.Second)
					lines = append(lines, renderStatusLine("Cached entries", statusInfo,
						fmt.Sprintf("%d (saved %s ago)", len(snapshot.Entries), age), colorize))
				}

				fmt.Fprintln(out, strings.Join(lines, "\n"))
				return nil
			})
		},
	}
}
