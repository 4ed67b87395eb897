package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"movieflix/internal/config"
	"movieflix/internal/dashboard"
	"movieflix/internal/logging"
	"movieflix/internal/mockdata"
	"movieflix/internal/preflight"
	"movieflix/internal/services"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	var viewFlag string
	var demo bool
	var count int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive collection dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			view, err := resolveView(cmd, cfg, viewFlag)
			if err != nil {
				return err
			}
			if !isTerminal(cmd.OutOrStdout()) {
				return errors.New("browse needs an interactive terminal; use `movieflix entries list` instead")
			}
			if demo {
				return runDashboard(cmd, dashboard.Options{
					Backend:  dashboard.NewMemoryBackend(mockdata.Generate(count)),
					Logger:   quietLogger(ctx.loggerValue()),
					PageSize: cfg.Dashboard.PageSize,
					View:     view,
				})
			}
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				for _, r := range preflight.Failed(preflight.RunAll(reqCtx, rt.cfg, rt.session)) {
					fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine(r.Name, statusWarn, r.Detail, shouldColorize(cmd.ErrOrStderr())))
				}
				snapshot, err := rt.store.LoadSnapshot(reqCtx)
				if err != nil {
					rt.logger.Warn("snapshot load failed", logging.Args(logging.Error(err))...)
				}
				return runDashboard(cmd, dashboard.Options{
					Backend:  rt.client,
					Cache:    rt.store,
					Logger:   quietLogger(rt.logger),
					Initial:  snapshot.Entries,
					PageSize: rt.cfg.Dashboard.PageSize,
					View:     view,
					Timeout:  rt.cfg.APITimeout(),
				})
			})
		},
	}

	cmd.Flags().StringVar(&viewFlag, "view", "", "Initial layout: table or grid (defaults to dashboard.view)")
	cmd.Flags().BoolVar(&demo, "demo", false, "Browse generated sample data instead of the backend")
	cmd.Flags().IntVar(&count, "count", mockdata.DefaultCount, "Number of sample entries with --demo")
	return cmd
}

func resolveView(cmd *cobra.Command, cfg *config.Config, flagValue string) (dashboard.View, error) {
	raw := cfg.Dashboard.View
	if cmd.Flags().Changed("view") {
		raw = flagValue
	}
	view, ok := dashboard.ParseView(raw)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "cli", "browse", fmt.Sprintf("unknown view %q; use table or grid", raw), nil)
	}
	return view, nil
}

// quietLogger keeps warnings from drawing over the alternate screen; errors
// still reach the log.
func quietLogger(logger *slog.Logger) *slog.Logger {
	return logging.WithLevelOverride(logger, slog.LevelError)
}

func runDashboard(cmd *cobra.Command, opts dashboard.Options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(
		dashboard.New(opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
