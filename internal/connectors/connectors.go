package connectors

import (
	"context"

	"ketf/internal"
)

// RowSource reads the submitted applications as a grid, headers first.
type RowSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

// Sender delivers one finished report envelope.
type Sender interface {
	Deliver(ctx context.Context, env internal.Envelope) error
}
