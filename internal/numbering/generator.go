package numbering

import (
	"context"
	"errors"

	documentdomain "github.com/smallfirm/facture/internal/document/domain"
)

// ErrGenerationTimeout means the external provider never delivered the
// rendered document within the polling budget. Nothing was committed:
// the document stays DRAFT and no counter moved.
var ErrGenerationTimeout = errors.New("generation_timeout")

type FinalizeResult struct {
	Number string
	PDF    []byte
}

// DocumentGenerator is the numbering/rendering capability consumed by
// the lock flow. Implementations are chosen once at construction.
type DocumentGenerator interface {
	// DraftNumber is the placeholder shown while DRAFT. Empty when the
	// backend defers numbering to finalize.
	DraftNumber(ctx context.Context) (string, error)
	// Preview renders a non-committing PDF; counters are not touched.
	Preview(ctx context.Context, snap documentdomain.Snapshot) ([]byte, error)
	// Finalize commits: it increments the persistent counter exactly
	// once and returns the final number with the rendered bytes.
	Finalize(ctx context.Context, snap documentdomain.Snapshot) (FinalizeResult, error)
}

// Generators bundles the backend for each document kind. Quotations
// always use the local backend; invoices follow configuration.
type Generators struct {
	Invoice   DocumentGenerator
	Quotation DocumentGenerator
}
