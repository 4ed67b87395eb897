package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"movieflix/internal/services"
)

const passwordMismatch = "New and confirm passwords do not match."

func newPasswordCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover a forgotten password",
		Long: "Password recovery runs in three steps: `forgot` emails a one-time code,\n" +
			"`verify-otp` checks the code, and `reset` sets the new password.",
	}

	cmd.AddCommand(newPasswordForgotCommand(ctx))
	cmd.AddCommand(newPasswordVerifyOTPCommand(ctx))
	cmd.AddCommand(newPasswordResetCommand(ctx))
	return cmd
}

func newPasswordForgotCommand(ctx *commandContext) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot",
		Short: "Email a one-time code for resetting the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = newPrompter(cmd).ask("Email", email); err != nil {
				return err
			}
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				message, err := rt.client.ForgotPassword(reqCtx, email)
				if err != nil {
					return userError(err, "Failed to send OTP. Try again.")
				}
				fmt.Fprintln(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	return cmd
}

func newPasswordVerifyOTPCommand(ctx *commandContext) *cobra.Command {
	var email, otp string

	cmd := &cobra.Command{
		Use:   "verify-otp",
		Short: "Check the one-time code from the recovery email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if email, err = p.ask("Email", email); err != nil {
				return err
			}
			if otp, err = p.ask("Code", otp); err != nil {
				return err
			}
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				message, err := rt.client.VerifyOTP(reqCtx, email, otp)
				if err != nil {
					return userError(err, "OTP expired or incorrect.")
				}
				fmt.Fprintln(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVar(&otp, "otp", "", "One-time code from the email")
	return cmd
}

func newPasswordResetCommand(ctx *commandContext) *cobra.Command {
	var email, newPassword, confirmPassword string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password after the code was verified",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if email, err = p.ask("Email", email); err != nil {
				return err
			}
			if newPassword, err = p.secret("New password", newPassword); err != nil {
				return err
			}
			if confirmPassword, err = p.secret("Confirm password", confirmPassword); err != nil {
				return err
			}
			if newPassword != confirmPassword {
				return services.Wrap(services.ErrValidation, "cli", "reset password", passwordMismatch, nil)
			}
			return ctx.withRuntime(cmd, func(reqCtx context.Context, rt *runtime) error {
				message, err := rt.client.ResetPassword(reqCtx, email, newPassword)
				if err != nil {
					return userError(err, "Please try again.")
				}
				fmt.Fprintln(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password (prompted when omitted)")
	cmd.Flags().StringVar(&confirmPassword, "confirm-password", "", "Repeat the new password (prompted when omitted)")
	return cmd
}
