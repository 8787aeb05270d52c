package smtp

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"ketf/internal"
	"ketf/internal/config"
	"ketf/internal/connectors"
)

// Archiver keeps a copy of a sent message, usually in an IMAP Sent folder.
type Archiver interface {
	Archive(ctx context.Context, raw []byte) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Sender struct {
	addr     string
	auth     smtp.Auth
	archiver Archiver
	log      *zap.Logger
	send     sendFunc
}

// NewSender returns a relay sender. archiver may be nil.
func NewSender(cfg config.Config, archiver Archiver, log *zap.Logger) (*Sender, error) {
	if err := cfg.Require("SMTP_HOST", cfg.SMTPHost); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &Sender{
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth:     auth,
		archiver: archiver,
		log:      log,
		send:     smtp.SendMail,
	}, nil
}

func (s *Sender) Deliver(ctx context.Context, env internal.Envelope) error {
	recipients := env.Recipients()
	if len(recipients) == 0 {
		return errors.New("no recipients")
	}
	raw, err := connectors.BuildMessage(env)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.send(s.addr, s.auth, env.From.Email, recipients, raw); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	// The message is already out; a failed copy only gets logged.
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, raw); err != nil {
			s.log.Warn("failed to archive sent report", zap.Error(err))
		}
	}
	return nil
}
