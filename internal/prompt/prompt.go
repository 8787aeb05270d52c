package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ketf/internal"
)

const question = "Enter total funds available (Ksh), or press Enter to cancel: "

// Terminal asks for the funds total on an interactive stream.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// AskTotalFunds returns internal.ErrCancelled for an empty answer, "cancel",
// "q", end of input or a cancelled context.
func (t *Terminal) AskTotalFunds(ctx context.Context) (string, error) {
	if _, err := fmt.Fprint(t.out, question); err != nil {
		return "", err
	}

	type answer struct {
		line string
		err  error
	}
	done := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(t.in).ReadString('\n')
		done <- answer{line: line, err: err}
	}()

	var a answer
	select {
	case <-ctx.Done():
		return "", internal.ErrCancelled
	case a = <-done:
	}

	if a.err != nil && !errors.Is(a.err, io.EOF) {
		return "", a.err
	}
	line := strings.TrimSpace(a.line)
	switch strings.ToLower(line) {
	case "", "cancel", "q":
		return "", internal.ErrCancelled
	}
	return line, nil
}

// Static answers with a preconfigured value, for flags and unattended runs.
type Static struct {
	Value string
}

func (s Static) AskTotalFunds(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", internal.ErrCancelled
	}
	return s.Value, nil
}
