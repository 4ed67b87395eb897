package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"movieflix/internal/catalog"
	"movieflix/internal/media"
	"movieflix/internal/poster"
	"movieflix/internal/services"
	"movieflix/internal/services/movieflix"
	"movieflix/internal/textutil"
)

func newEntriesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"entry"},
		Short:   "List and manage collection entries",
	}

	cmd.AddCommand(newEntriesListCommand(ctx))
	cmd.AddCommand(newEntriesShowCommand(ctx))
	cmd.AddCommand(newEntriesAddCommand(ctx))
	cmd.AddCommand(newEntriesEditCommand(ctx))
	cmd.AddCommand(newEntriesDeleteCommand(ctx))
	return cmd
}

type listPage struct {
	Page    int           `json:"page"`
	Pages   int           `json:"pages"`
	Total   int           `json:"total"`
	Entries []media.Entry `json:"entries"`
}

func newEntriesListCommand(ctx *commandContext) *cobra.Command {
	var search, typeFilter string
	var page int
	var all, asJSON, offline bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, filtered and paged like the dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typeFilter = strings.ToLower(strings.TrimSpace(typeFilter))
			if !slices.Contains(catalog.TypeFilters, typeFilter) {
				return services.Wrap(services.ErrValidation, "cli", "list", fmt.Sprintf("--type must be one of %s", strings.Join(catalog.TypeFilters, ", ")), nil)
			}
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				entries, err := loadEntries(reqCtx, rt, offline)
				if err != nil {
					return err
				}
				query := catalog.Query{Search: search, Type: typeFilter}
				filtered := catalog.Filter(entries, query)

				pageSize := rt.cfg.Dashboard.PageSize
				result := listPage{Page: 1, Pages: 1, Total: len(filtered), Entries: filtered}
				if !all {
					result.Page = max(page, 1)
					result.Pages = catalog.PageCount(len(filtered), pageSize)
					result.Entries = catalog.Window(filtered, result.Page, pageSize)
				}

				if asJSON {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				if len(filtered) == 0 {
					fmt.Fprintln(out, catalog.EmptyMessage(query))
					return nil
				}
				if len(result.Entries) == 0 {
					fmt.Fprintf(out, "Page %d is past the end (%d pages).\n", result.Page, result.Pages)
					return nil
				}
				fmt.Fprintln(out, renderEntryTable(result.Entries))
				if all {
					fmt.Fprintf(out, "%d %s\n", result.Total, textutil.Ternary(result.Total == 1, "entry", "entries"))
				} else {
					fmt.Fprintf(out, "Page %d of %d (%d entries)\n", result.Page, result.Pages, result.Total)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Match title, director, or location")
	cmd.Flags().StringVarP(&typeFilter, "type", "t", catalog.TypeAll, "Type filter: all, movie, or tv")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().BoolVar(&all, "all", false, "Show every matching entry instead of one page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use the locally cached list instead of the backend")
	return cmd
}

// loadEntries fetches the list and refreshes the local snapshot. With offline
// set, the snapshot is used without contacting the backend.
func loadEntries(ctx context.Context, rt *runtime, offline bool) ([]media.Entry, error) {
	if offline {
		snapshot, err := rt.store.LoadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		if snapshot.Empty() {
			return nil, services.Wrap(services.ErrNotFound, "cli", "list", "no cached entries; run without --offline first", nil)
		}
		return snapshot.Entries, nil
	}
	entries, err := rt.client.ListEntries(ctx)
	if err != nil {
		return nil, userError(err, catalog.RefreshFailed)
	}
	if err := rt.store.SaveSnapshot(ctx, entries); err != nil {
		rt.logger.Warn("snapshot save failed", "error", err)
	}
	return entries, nil
}

func findEntry(ctx context.Context, rt *runtime, id string) (media.Entry, error) {
	entries, err := loadEntries(ctx, rt, false)
	if err != nil {
		return media.Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return media.Entry{}, services.Wrap(services.ErrNotFound, "cli", "find entry", fmt.Sprintf("no entry with id %q", id), nil)
}

func renderEntryTable(entries []media.Entry) string {
	columns := []columnSpec{
		{header: "ID", maxWidth: 24},
		{header: "Title", maxWidth: 32},
		{header: "Type"},
		{header: "Year", right: true},
		{header: "Director", maxWidth: 22},
		{header: "Location", maxWidth: 18},
		{header: "Duration", maxWidth: 12},
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, e.Title, e.Type.Label(), e.Year, e.Director, e.Location, e.Duration})
	}
	return renderTable(columns, rows)
}

func newEntriesShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				entry, err := findEntry(reqCtx, rt, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, entry)
				}
				fmt.Fprint(cmd.OutOrStdout(), renderEntryDetail(entry))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderEntryDetail(e media.Entry) string {
	posterValue := e.Poster
	if poster.IsPlaceholder(posterValue) {
		posterValue = ""
	}
	created := ""
	if !e.CreatedAt.IsZero() {
		created = e.CreatedAt.Local().Format("2006-01-02 15:04")
	}
	return renderKeyValues([][2]string{
		{"ID", e.ID},
		{"Title", e.Title},
		{"Type", e.Type.Label()},
		{"Director", e.Director},
		{"Year", e.Year},
		{"Location", e.Location},
		{"Duration", e.Duration},
		{"Budget", e.Budget},
		{"Poster", posterValue},
		{"Description", e.Description},
		{"Added", created},
	})
}

// entryFlags are shared by add and edit. Edit only applies flags the user
// actually passed.
type entryFlags struct {
	title       string
	typ         string
	director    string
	budget      string
	location    string
	duration    string
	year        int
	poster      string
	description string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.title, "title", "", "Title")
	flags.StringVar(&f.typ, "type", "", "MOVIE or TV_SHOW (movie, tv, series also accepted)")
	flags.StringVar(&f.director, "director", "", "Director")
	flags.StringVar(&f.budget, "budget", "", "Budget, e.g. $160M")
	flags.StringVar(&f.location, "location", "", "Filming location")
	flags.StringVar(&f.duration, "duration", "", "Duration, e.g. 148 min or 5 seasons")
	flags.IntVar(&f.year, "year", 0, "Release year")
	flags.StringVar(&f.poster, "poster", "", "Poster image file to upload, or an http(s) URL")
	flags.StringVar(&f.description, "description", "", "Description")
}

// apply copies flags onto draft. onlyChanged limits it to flags set on the
// command line.
func (f *entryFlags) apply(cmd *cobra.Command, draft *media.Draft, onlyChanged bool) error {
	set := func(name string) bool { return !onlyChanged || cmd.Flags().Changed(name) }
	if set("title") {
		draft.Title = f.title
	}
	if set("type") && strings.TrimSpace(f.typ) != "" {
		parsed, ok := media.ParseType(f.typ)
		if !ok {
			return services.Wrap(services.ErrValidation, "cli", "entry", fmt.Sprintf("unknown type %q; use MOVIE or TV_SHOW", f.typ), nil)
		}
		draft.Type = parsed
	}
	if set("director") {
		draft.Director = f.director
	}
	if set("budget") {
		draft.Budget = f.budget
	}
	if set("location") {
		draft.Location = f.location
	}
	if set("duration") {
		draft.Duration = f.duration
	}
	if set("year") {
		draft.Year = f.year
	}
	if set("description") {
		draft.Description = f.description
	}
	return nil
}

// posterInput splits --poster into a remote URL for the draft or a file to
// upload.
func (f *entryFlags) posterInput(draft *media.Draft) (*movieflix.Upload, error) {
	value := strings.TrimSpace(f.poster)
	switch {
	case value == "":
		return nil, nil
	case strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://"):
		draft.PosterURL = value
		return nil, nil
	default:
		return movieflix.OpenUpload(value)
	}
}

func newEntriesAddCommand(ctx *commandContext) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a movie or TV show",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if flags.title, err = newPrompter(cmd).ask("Title", flags.title); err != nil {
				return err
			}
			var draft media.Draft
			if err := flags.apply(cmd, &draft, false); err != nil {
				return err
			}
			upload, err := flags.posterInput(&draft)
			if err != nil {
				return err
			}
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				created, err := rt.client.CreateEntry(reqCtx, draft, upload)
				if err != nil {
					return userError(err, catalog.AddFailed)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, catalog.AddedMessage(titleOf(created, draft)))
				if created != nil && created.ID != "" {
					fmt.Fprintf(out, "ID: %s\n", created.ID)
				}
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newEntriesEditCommand(ctx *commandContext) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing entry",
		Long:  "Only the flags you pass are changed; every other field keeps its current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				current, err := findEntry(reqCtx, rt, id)
				if err != nil {
					return err
				}
				draft := media.DraftFromEntry(current)
				if poster.IsUpload(draft.PosterURL, rt.cfg.API.BaseURL) {
					draft.PosterURL = ""
				}
				if err := flags.apply(cmd, &draft, true); err != nil {
					return err
				}
				upload, err := flags.posterInput(&draft)
				if err != nil {
					return err
				}
				updated, err := rt.client.UpdateEntry(reqCtx, id, draft, upload)
				if err != nil {
					return userError(err, catalog.UpdateFailed)
				}
				fmt.Fprintln(cmd.OutOrStdout(), catalog.UpdatedMessage(titleOf(updated, draft)))
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newEntriesDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				entry, err := findEntry(reqCtx, rt, id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !yes {
					ok, err := newPrompter(cmd).confirm(catalog.DeletePrompt(entry.Title))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, "Deletion cancelled.")
						return nil
					}
				}
				if err := rt.client.DeleteEntry(reqCtx, id); err != nil {
					return userError(err, catalog.DeleteFailed)
				}
				fmt.Fprintln(out, catalog.DeletedMessage(entry.Title))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

func titleOf(entry *media.Entry, draft media.Draft) string {
	if entry != nil && entry.Title != "" {
		return entry.Title
	}
	return draft.Title
}
