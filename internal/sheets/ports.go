package sheets

import (
	"context"

	"bonnetje/internal/core"
)

// SummaryWriter is the port for exporting monthly summaries to an external
// sheet after each refresh.
type SummaryWriter interface {
	// WriteSummaries replaces the exported rows with the given summaries.
	WriteSummaries(ctx context.Context, summaries []core.MonthlySummary) error
}
