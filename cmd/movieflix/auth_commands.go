package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"movieflix/internal/services"
	"movieflix/internal/session"
)

func newAuthCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newLoginCommand(ctx),
		newSignupCommand(ctx),
		newVerifyCommand(ctx),
		newLogoutCommand(ctx),
		newWhoamiCommand(ctx),
	}
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if email, err = p.ask("Email", email); err != nil {
				return err
			}
			if password, err = p.secret("Password", password); err != nil {
				return err
			}
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				result, err := rt.client.Login(reqCtx, email, password)
				if err != nil {
					return userError(err, "Login failed. Please check your credentials.")
				}
				if result.Token == "" {
					message := strings.TrimSpace(result.Message)
					if message == "" {
						message = "Login failed. Please check your credentials."
					}
					return services.Wrap(services.ErrUnauthorized, "cli", "login", message, nil)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", displayUser(result.User.DisplayName(), email))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newSignupCommand(ctx *commandContext) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if name, err = p.ask("Name", name); err != nil {
				return err
			}
			if email, err = p.ask("Email", email); err != nil {
				return err
			}
			if password, err = p.secret("Password", password); err != nil {
				return err
			}
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				result, err := rt.client.Signup(reqCtx, name, email, password)
				if err != nil {
					return userError(err, "Signup failed. Please try again later.")
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, result.Message)
				fmt.Fprintln(out, "Then run `movieflix verify <token>` with the token from the email, or open the link.")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [token]",
		Short: "Verify an account with the token from the verification email",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = extractToken(args[0])
			}
			out := cmd.OutOrStdout()
			if token == "" {
				fmt.Fprintln(out, "No verification token provided; nothing to do.")
				return nil
			}
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				result, err := rt.client.Verify(reqCtx, token)
				if err != nil {
					return userError(err, "Verification failed or token expired.")
				}
				fmt.Fprintln(out, result.Message)
				return nil
			})
		},
	}
}

// extractToken accepts either the bare token or the full link from the email.
func extractToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "token="); i >= 0 {
		raw = raw[i+len("token="):]
		if j := strings.IndexAny(raw, "&#"); j >= 0 {
			raw = raw[:j]
		}
	}
	return raw
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session and cached entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				if err := rt.session.Clear(reqCtx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return nil
			})
		},
	}
}

type whoamiOutput struct {
	SignedIn  bool       `json:"signedIn"`
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired"`
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				status, err := rt.session.Describe(reqCtx, time.Now())
				if err != nil {
					return err
				}
				view := whoamiFrom(status)
				if asJSON {
					return writeJSON(cmd, view)
				}
				out := cmd.OutOrStdout()
				if !view.SignedIn {
					fmt.Fprintln(out, "Not signed in. Run `movieflix login`.")
					return nil
				}
				fmt.Fprint(out, renderKeyValues([][2]string{
					{"Name", view.Name},
					{"Email", view.Email},
					{"User ID", view.ID},
					{"Token expires", formatExpiry(view.ExpiresAt)},
				}))
				if view.Expired {
					fmt.Fprintln(out, "Your session has expired; run `movieflix login` again.")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func whoamiFrom(status session.Status) whoamiOutput {
	out := whoamiOutput{
		SignedIn: status.SignedIn,
		ID:       status.User.ID,
		Name:     status.User.Name,
		Email:    status.User.Email,
		Expired:  status.Expired,
	}
	if c := status.Claims; c != nil {
		if out.ID == "" {
			out.ID = c.Subject
		}
		if out.Email == "" {
			out.Email = c.Email
		}
		if !c.ExpiresAt.IsZero() {
			expires := c.ExpiresAt
			out.ExpiresAt = &expires
		}
	}
	return out
}

func formatExpiry(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	return t.Local().Format("2006-01-02 15:04 MST")
}

func displayUser(name, fallback string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return fallback
}
