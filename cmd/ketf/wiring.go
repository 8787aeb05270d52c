package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"ketf/internal"
	"ketf/internal/config"
	"ketf/internal/connectors"
	"ketf/internal/connectors/file"
	gmailconnector "ketf/internal/connectors/gmail"
	imapconnector "ketf/internal/connectors/imap"
	sheetsconnector "ketf/internal/connectors/sheets"
	smtpconnector "ketf/internal/connectors/smtp"
	"ketf/internal/connectors/web"
	"ketf/internal/pipeline"
	"ketf/internal/prompt"
	"ketf/internal/render"
)

// applyInput lets --source and --input override the configured source. A
// file input without --source picks the kind from its extension.
func applyInput(cfg *config.Config, source, input string) {
	if input = strings.TrimSpace(input); input != "" {
		if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
			cfg.SourceURL = input
			if source == "" {
				source = internal.SourceWeb
			}
		} else {
			cfg.SourcePath = input
			if source == "" {
				source = kindFromExt(input)
			}
		}
	}
	if source = strings.ToLower(strings.TrimSpace(source)); source != "" {
		cfg.SourceKind = source
	}
}

func kindFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return internal.SourceCSV
	case ".html", ".htm":
		return internal.SourceHTML
	case ".xlsx", ".xlsm":
		return internal.SourceXLSX
	default:
		return ""
	}
}

func makeSource(ctx context.Context, cfg config.Config) (connectors.RowSource, error) {
	switch cfg.SourceKind {
	case internal.SourceXLSX:
		return file.NewXLSXSource(cfg.SourcePath, cfg.SourceSheet), nil
	case internal.SourceCSV:
		return file.NewCSVSource(cfg.SourcePath), nil
	case internal.SourceHTML:
		return file.NewHTMLTableSource(cfg.SourcePath), nil
	case internal.SourceSheets:
		return sheetsconnector.NewConnector(ctx, cfg)
	case internal.SourceWeb:
		return web.NewClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported source: %s", cfg.SourceKind)
	}
}

func makeSender(ctx context.Context, cfg config.Config, log *zap.Logger) (connectors.Sender, error) {
	switch cfg.DeliveryProvider {
	case "outbox", "":
		return connectors.NewOutboxSender(filepath.Join(cfg.OutputDir, "outbox")), nil
	case "gmail":
		if err := cfg.Require("ADMIN_EMAIL", cfg.AdminEmail); err != nil {
			return nil, err
		}
		return gmailconnector.NewConnector(ctx, cfg)
	case "smtp":
		if err := cfg.Require("ADMIN_EMAIL", cfg.AdminEmail); err != nil {
			return nil, err
		}
		if err := cfg.Require("MAIL_FROM", cfg.MailFrom); err != nil {
			return nil, err
		}
		var archiver smtpconnector.Archiver
		if strings.TrimSpace(cfg.IMAPHost) != "" {
			a, err := imapconnector.NewArchiver(cfg)
			if err != nil {
				return nil, err
			}
			archiver = a
		}
		return smtpconnector.NewSender(cfg, archiver, log)
	default:
		return nil, fmt.Errorf("unsupported delivery provider: %s", cfg.DeliveryProvider)
	}
}

func makeRenderers(cfg config.Config) ([]pipeline.DocumentSink, error) {
	switch cfg.ReportFormat {
	case "pdf", "":
		return []pipeline.DocumentSink{render.NewPDF()}, nil
	case "xlsx":
		return []pipeline.DocumentSink{render.NewWorkbook()}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", cfg.ReportFormat)
	}
}

func makePrompt(cfg config.Config, funds string) pipeline.FundsPrompt {
	if strings.TrimSpace(funds) != "" {
		return prompt.Static{Value: funds}
	}
	if strings.TrimSpace(cfg.FundsTotal) != "" {
		return prompt.Static{Value: cfg.FundsTotal}
	}
	return prompt.NewTerminal(os.Stdin, os.Stderr)
}

// buildDependencies wires everything except delivery and the run store.
func buildDependencies(ctx context.Context, cfg config.Config, funds string, log *zap.Logger) (pipeline.Dependencies, error) {
	src, err := makeSource(ctx, cfg)
	if err != nil {
		return pipeline.Dependencies{}, err
	}
	renderers, err := makeRenderers(cfg)
	if err != nil {
		return pipeline.Dependencies{}, err
	}

	deps := pipeline.Dependencies{
		SourceName: cfg.SourceKind,
		Source:     src,
		Prompt:     makePrompt(cfg, funds),
		Renderers:  renderers,
		Recipients: recipients(cfg),
		Logger:     log,
	}
	if cfg.AttachWorkbook {
		deps.Workbook = render.NewWorkbook()
	}
	return deps, nil
}

func recipients(cfg config.Config) pipeline.Recipients {
	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return pipeline.Recipients{
		From:    internal.Address{Name: "KETF", Email: from},
		To:      connectors.Addresses(cfg.AdminEmail),
		CC:      connectors.Addresses(cfg.CCEmails...),
		BCC:     connectors.Addresses(cfg.BCCEmails...),
		Subject: cfg.MailSubject,
	}
}
