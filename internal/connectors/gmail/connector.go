package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"ketf/internal"
	"ketf/internal/config"
	"ketf/internal/connectors"
)

// Connector sends reports through the Gmail API as the authorised user.
type Connector struct {
	service *gmail.Service
}

func NewConnector(ctx context.Context, cfg config.Config) (*Connector, error) {
	if err := cfg.Require("GOOGLE_CLIENT_ID", cfg.GoogleClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("GOOGLE_REFRESH_TOKEN", cfg.GoogleRefreshToken); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes:       []string{gmail.GmailSendScope},
	}

	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken})
	svc, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &Connector{service: svc}, nil
}

func (c *Connector) Deliver(ctx context.Context, env internal.Envelope) error {
	raw, err := connectors.BuildMessage(env)
	if err != nil {
		return err
	}
	// Gmail reads Bcc from the raw headers; BuildMessage leaves them out.
	raw = withBCCHeader(raw, env.BCC)

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	if _, err := c.service.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

func withBCCHeader(raw []byte, bcc []internal.Address) []byte {
	if len(bcc) == 0 {
		return raw
	}
	emails := make([]string, 0, len(bcc))
	for _, a := range bcc {
		emails = append(emails, a.Email)
	}
	return append([]byte("Bcc: "+strings.Join(emails, ", ")+"\r\n"), raw...)
}
