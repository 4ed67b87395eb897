package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"movieflix/internal/catalog"
	"movieflix/internal/dashboard"
	"movieflix/internal/mockdata"
)

func newDemoCommand(ctx *commandContext) *cobra.Command {
	var count, page int
	var asJSON, browse bool

	cmd := &cobra.Command{
		Use:         "demo",
		Short:       "Show generated sample entries without a backend",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			entries := mockdata.Generate(count)
			if asJSON {
				return writeJSON(cmd, entries)
			}
			if browse {
				if !isTerminal(cmd.OutOrStdout()) {
					return fmt.Errorf("demo --browse needs an interactive terminal")
				}
				opts := dashboard.Options{Backend: dashboard.NewMemoryBackend(entries)}
				if cfg := ctx.configValue(); cfg != nil {
					opts.PageSize = cfg.Dashboard.PageSize
					opts.View, _ = dashboard.ParseView(cfg.Dashboard.View)
					opts.Logger = quietLogger(ctx.loggerValue())
				}
				return runDashboard(cmd, opts)
			}

			pageSize := catalog.DefaultPageSize
			pages := catalog.PageCount(len(entries), pageSize)
			window := catalog.Window(entries, page, pageSize)
			out := cmd.OutOrStdout()
			if len(window) == 0 {
				fmt.Fprintln(out, catalog.EmptyMessage(catalog.Query{}))
				return nil
			}
			fmt.Fprintln(out, renderEntryTable(window))
			fmt.Fprintf(out, "Page %d of %d (%d sample entries)\n", max(page, 1), pages, len(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", mockdata.DefaultCount, "Number of entries to generate")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output every generated entry as JSON")
	cmd.Flags().BoolVar(&browse, "browse", false, "Open the generated entries in the dashboard")
	return cmd
}
