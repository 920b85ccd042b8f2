package service

import (
	"context"
	"fmt"

	"charterbook/internal/config"
)

// Email is one outgoing message with plain text and HTML alternatives.
type Email struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// NewMailer builds the mail transport named by MAIL_PROVIDER. It returns nil
// for "none".
func NewMailer(ctx context.Context, cfg *config.Config) (Mailer, error) {
	switch cfg.MailProvider {
	case config.MailProviderGmail:
		if cfg.GmailClientID == "" || cfg.GmailClientSecret == "" || cfg.GmailRefreshToken == "" || cfg.GmailUser == "" {
			return nil, fmt.Errorf("gmail: GMAIL_CLIENT_ID, GMAIL_CLIENT_SECRET, GMAIL_REFRESH_TOKEN and GMAIL_USER are required")
		}
		m, err := NewGmailMailer(ctx, GmailCredentials{
			ClientID:     cfg.GmailClientID,
			ClientSecret: cfg.GmailClientSecret,
			RefreshToken: cfg.GmailRefreshToken,
		}, cfg.GmailUser, cfg.BusinessName)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.MailProviderSendGrid:
		if cfg.SendGridAPIKey == "" || cfg.SendGridFromEmail == "" {
			return nil, fmt.Errorf("sendgrid: SENDGRID_API_KEY and SENDGRID_FROM_EMAIL are required")
		}
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.BusinessName), nil
	case config.MailProviderNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
}

// NewSMSSender returns nil unless Twilio is fully configured.
func NewSMSSender(cfg *config.Config) SMSSender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
		return nil
	}
	return NewTwilioSMS(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
}
