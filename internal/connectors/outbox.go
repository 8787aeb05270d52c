package connectors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ketf/internal"
)

// OutboxSender writes each message as an .eml file instead of sending it.
type OutboxSender struct {
	dir      string
	LastPath string
}

func NewOutboxSender(dir string) *OutboxSender {
	return &OutboxSender{dir: dir}
}

func (s *OutboxSender) Deliver(_ context.Context, env internal.Envelope) error {
	raw, err := BuildMessage(env)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("%s_%s.eml", time.Now().UTC().Format("20060102T150405.000"), sanitizeSubject(env.Subject))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return err
	}
	s.LastPath = path
	return nil
}

func sanitizeSubject(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_", "\"", "_")
	out := repl.Replace(strings.TrimSpace(input))
	if out == "" {
		out = "report"
	}
	if len(out) > 80 {
		out = out[:80]
	}
	return out
}
