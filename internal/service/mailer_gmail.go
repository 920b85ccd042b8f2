package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type GmailCredentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// GmailMailer sends through the Gmail API as the account owning the refresh
// token.
type GmailMailer struct {
	svc  *gmail.Service
	from mail.Address
}

func NewGmailMailer(ctx context.Context, creds GmailCredentials, fromEmail, fromName string) (*GmailMailer, error) {
	ts := refreshTokenSource(ctx, creds, google.Endpoint)
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}
	return &GmailMailer{svc: svc, from: mail.Address{Name: fromName, Address: fromEmail}}, nil
}

// refreshTokenSource exchanges the refresh token on demand. Refreshes outlive
// ctx so sends still draining at shutdown can authenticate.
func refreshTokenSource(ctx context.Context, creds GmailCredentials, endpoint oauth2.Endpoint) oauth2.TokenSource {
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}
	return conf.TokenSource(context.WithoutCancel(ctx), &oauth2.Token{RefreshToken: creds.RefreshToken})
}

func (m *GmailMailer) Send(ctx context.Context, msg Email) error {
	raw, err := buildMIMEMessage(m.from, msg)
	if err != nil {
		return err
	}
	_, err = m.svc.Users.Messages.
		Send("me", &gmail.Message{Raw: base64.RawURLEncoding.EncodeToString(raw)}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("gmail send to %s: %w", msg.To, err)
	}
	return nil
}

// buildMIMEMessage renders msg as multipart/alternative with a plain text
// part followed by the HTML part.
func buildMIMEMessage(from mail.Address, msg Email) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, part := range []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, fmt.Errorf("mime part: %w", err)
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("mime part: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("mime close: %w", err)
	}

	to := mail.Address{Name: msg.ToName, Address: msg.To}
	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", from.String())
	fmt.Fprintf(&out, "To: %s\r\n", to.String())
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: %s\r\n\r\n",
		mime.FormatMediaType("multipart/alternative", map[string]string{"boundary": mw.Boundary()}))
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
