package imap

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"

	"ketf/internal/config"
)

// Archiver appends sent reports to a mailbox so they show up in the
// sender's Sent folder when mail goes out over plain SMTP.
type Archiver struct {
	host     string
	port     int
	secure   bool
	user     string
	password string
	mailbox  string
}

func NewArchiver(cfg config.Config) (*Archiver, error) {
	if err := cfg.Require("IMAP_HOST", cfg.IMAPHost); err != nil {
		return nil, err
	}
	if err := cfg.Require("IMAP_USER", cfg.IMAPUser); err != nil {
		return nil, err
	}
	if err := cfg.Require("IMAP_PASSWORD", cfg.IMAPPassword); err != nil {
		return nil, err
	}

	mailbox := cfg.IMAPSentMailbox
	if mailbox == "" {
		mailbox = "Sent"
	}
	return &Archiver{
		host:     cfg.IMAPHost,
		port:     cfg.IMAPPort,
		secure:   cfg.IMAPSecure,
		user:     cfg.IMAPUser,
		password: cfg.IMAPPassword,
		mailbox:  mailbox,
	}, nil
}

func (a *Archiver) Mailbox() string { return a.mailbox }

func (a *Archiver) Archive(ctx context.Context, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", a.host, a.port)
	var client *imapclient.Client
	var err error
	if a.secure {
		client, err = imapclient.DialTLS(addr, &tls.Config{ServerName: a.host})
	} else {
		client, err = imapclient.Dial(addr)
	}
	if err != nil {
		return err
	}
	defer client.Logout()

	if err := client.Login(a.user, a.password); err != nil {
		return err
	}

	flags := []string{imap.SeenFlag}
	if err := client.Append(a.mailbox, flags, time.Now(), bytes.NewBuffer(raw)); err != nil {
		return fmt.Errorf("append to %s: %w", a.mailbox, err)
	}
	return nil
}
