package ports

import (
	"context"
)

// SheetSource supplies raw CSV text for a published spreadsheet tab. The
// returned text is fed verbatim into the tabular decoder; fetch failure is
// the caller-visible error path, decode never fails.
type SheetSource interface {
	// FetchCSV retrieves the published CSV export for (sheetID, gid)
	FetchCSV(ctx context.Context, sheetID string, gid int) (string, error)
}
