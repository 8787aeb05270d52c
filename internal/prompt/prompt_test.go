package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ketf/internal"
)

func TestTerminalAskTotalFunds(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "number", input: "50000\n", want: "50000"},
		{name: "formatted", input: "  Ksh 1,000,000 \r\n", want: "Ksh 1,000,000"},
		{name: "no newline", input: "7500", want: "7500"},
		{name: "non numeric passes through", input: "lots\n", want: "lots"},
		{name: "empty", input: "\n", wantErr: internal.ErrCancelled},
		{name: "cancel word", input: "Cancel\n", wantErr: internal.ErrCancelled},
		{name: "q", input: "q\n", wantErr: internal.ErrCancelled},
		{name: "eof", input: "", wantErr: internal.ErrCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewTerminal(strings.NewReader(tc.input), &out).AskTotalFunds(context.Background())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Contains(t, out.String(), "total funds")
		})
	}
}

func TestTerminalCancelledContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTerminal(pr, io.Discard).AskTotalFunds(ctx)
	assert.ErrorIs(t, err, internal.ErrCancelled)
}

func TestStatic(t *testing.T) {
	got, err := Static{Value: "1200"}.AskTotalFunds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1200", got)
}
