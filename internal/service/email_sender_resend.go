package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/resendlabs/resend-go"
)

// ResendEmailSender delivers verification and reset mail through the
// Resend API. Links point at the web front end, which forwards the token
// to the matching auth endpoint.
type ResendEmailSender struct {
	client     *resend.Client
	from       string
	appBaseURL string
	verifyPath string
	resetPath  string
}

func NewResendEmailSender(apiKey string, from string, appBaseURL string) *ResendEmailSender {
	return &ResendEmailSender{
		client:     resend.NewClient(apiKey),
		from:       from,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		verifyPath: "/verify-email",
		resetPath:  "/reset-password",
	}
}

func (s *ResendEmailSender) SendVerificationEmail(ctx context.Context, email string, name string, token string) error {
	link := s.buildURL(s.verifyPath, token)
	return s.send(ctx, email,
		"Verify your email",
		fmt.Sprintf("<p>Hi %s,</p><p>Welcome to Bookshelf! Click to verify your email:</p><p><a href=\"%s\">Verify Email</a></p>", name, link),
		fmt.Sprintf("Hi %s, verify your email: %s", name, link),
	)
}

func (s *ResendEmailSender) SendPasswordResetEmail(ctx context.Context, email string, name string, token string) error {
	link := s.buildURL(s.resetPath, token)
	return s.send(ctx, email,
		"Reset your password",
		fmt.Sprintf("<p>Hi %s,</p><p>Click to reset your password:</p><p><a href=\"%s\">Reset Password</a></p><p>If you did not ask for this, you can ignore this email.</p>", name, link),
		fmt.Sprintf("Hi %s, reset your password: %s", name, link),
	)
}

func (s *ResendEmailSender) buildURL(path string, token string) string {
	return fmt.Sprintf("%s%s?token=%s", s.appBaseURL, path, token)
}

func (s *ResendEmailSender) send(_ context.Context, to string, subject string, html string, text string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	}
	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
