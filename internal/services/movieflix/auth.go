package movieflix

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"movieflix/internal/logging"
	"movieflix/internal/media"
	"movieflix/internal/services"
)

// AuthResult is the backend's reply to login and signup.
type AuthResult struct {
	Token   string     `json:"token"`
	User    media.User `json:"user"`
	Message string     `json:"message"`
}

// VerifyResult is the backend's reply to an email verification.
type VerifyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type messageResult struct {
	Message string `json:"message"`
}

const (
	signupNotice        = "Account created! Please check your email for a verification link before logging in."
	verifiedNotice      = "Your email has been verified! Please log in to continue."
	otpSentNotice       = "Check your email for the verification code."
	otpVerifiedNotice   = "You can now reset your password."
	passwordResetNotice = "You can now login with your new password."
)

// Login authenticates with email and password. A returned token is stored in
// the session together with the user record.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, services.Wrap(services.ErrValidation, component, "login", "email and password are required", nil)
	}
	req, err := jsonRequest("login", http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password},
		"Login failed. Please check your credentials.")
	if err != nil {
		return nil, err
	}
	var result AuthResult
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}
	if result.Token != "" {
		if err := c.session.Save(ctx, result.Token, result.User); err != nil {
			return nil, services.Wrap(services.ErrTransient, component, "login", "store session", err)
		}
		c.logger.Info("signed in", logging.String("user", result.User.DisplayName()))
	}
	return &result, nil
}

// Signup creates an account. Any existing session is cleared first; the new
// account cannot log in until its email is verified.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, services.Wrap(services.ErrValidation, component, "signup", "name, email, and password are required", nil)
	}
	if err := c.session.Clear(ctx); err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "signup", "clear session", err)
	}
	req, err := jsonRequest("signup", http.MethodPost, "/auth/signup",
		map[string]string{"name": name, "email": email, "password": password},
		"Signup failed. Please try again later.")
	if err != nil {
		return nil, err
	}
	var result AuthResult
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Message) == "" {
		result.Message = signupNotice
	}
	return &result, nil
}

// Verify confirms an account with the token from the verification email. An
// empty token is a no-op and returns nil. A successful verification clears the
// session so the user logs in again.
func (c *Client) Verify(ctx context.Context, token string) (*VerifyResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	req, err := jsonRequest("verify", http.MethodGet, "/auth/verify?token="+url.QueryEscape(token), nil,
		"Verification failed or token expired.")
	if err != nil {
		return nil, err
	}
	var result VerifyResult
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		message := strings.TrimSpace(result.Message)
		if message == "" {
			message = "Verification failed or invalid token."
		}
		return &result, services.Wrap(services.ErrValidation, component, "verify", message, nil)
	}
	if err := c.session.Clear(ctx); err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "verify", "clear session", err)
	}
	if strings.TrimSpace(result.Message) == "" {
		result.Message = verifiedNotice
	}
	return &result, nil
}

// ForgotPassword asks the backend to email a one-time code.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", services.Wrap(services.ErrValidation, component, "forgot password", "email is required", nil)
	}
	return c.postMessage(ctx, "forgot password", "/auth/forgot-password",
		map[string]string{"email": email},
		"Failed to send OTP. Try again.", otpSentNotice)
}

// VerifyOTP checks the one-time code sent by ForgotPassword.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	email = strings.TrimSpace(email)
	otp = strings.TrimSpace(otp)
	if email == "" || otp == "" {
		return "", services.Wrap(services.ErrValidation, component, "verify otp", "email and code are required", nil)
	}
	return c.postMessage(ctx, "verify otp", "/auth/verify-otp",
		map[string]string{"email": email, "otp": otp},
		"OTP expired or incorrect.", otpVerifiedNotice)
}

// ResetPassword sets a new password after the code was verified.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return "", services.Wrap(services.ErrValidation, component, "reset password", "email and new password are required", nil)
	}
	return c.postMessage(ctx, "reset password", "/auth/reset-password",
		map[string]string{"email": email, "newPassword": newPassword},
		"Please try again.", passwordResetNotice)
}

func (c *Client) postMessage(ctx context.Context, operation, path string, payload any, fallback, notice string) (string, error) {
	req, err := jsonRequest(operation, http.MethodPost, path, payload, fallback)
	if err != nil {
		return "", err
	}
	var result messageResult
	if err := c.do(ctx, req, &result); err != nil {
		return "", err
	}
	if message := strings.TrimSpace(result.Message); message != "" {
		return message, nil
	}
	return notice, nil
}
