package connectors

import (
	"bytes"
	"fmt"

	"github.com/jhillyerd/enmime"

	"ketf/internal"
)

// BuildMessage encodes env as a MIME message with a plain-text body and one
// part per attachment. Bcc addresses are not written to the headers.
func BuildMessage(env internal.Envelope) ([]byte, error) {
	b := enmime.Builder().
		From(env.From.Name, env.From.Email).
		Subject(env.Subject).
		Text([]byte(env.Body))
	for _, a := range env.To {
		b = b.To(a.Name, a.Email)
	}
	for _, a := range env.CC {
		b = b.CC(a.Name, a.Email)
	}
	for _, a := range env.BCC {
		b = b.BCC(a.Name, a.Email)
	}
	for _, att := range env.Attachments {
		b = b.AddAttachment(att.Content, att.ContentType, att.FileName)
	}

	part, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}
	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return buf.Bytes(), nil
}

// Addresses turns configured address strings into envelope addresses.
func Addresses(emails ...string) []internal.Address {
	out := make([]internal.Address, 0, len(emails))
	for _, e := range emails {
		if e != "" {
			out = append(out, internal.Address{Email: e})
		}
	}
	return out
}
