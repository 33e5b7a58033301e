package app

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"clientportal/domain/daterange"
	"clientportal/domain/tabular"
	apperrors "clientportal/internal/errors"
	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

// ResultsQuery describes one service-results request
type ResultsQuery struct {
	OrgID  uuid.UUID
	Module models.ModuleKey

	// Quick takes precedence over From/To when set.
	Quick   daterange.Key
	From    string // YYYY-MM-DD
	To      string // YYYY-MM-DD
	DateKey string // Defaults to the first header containing "date"
}

// ResultsService runs the fetch -> decode -> filter pipeline over an org's
// published sheet
type ResultsService struct {
	grants       ports.ModuleGrantRepository
	integrations ports.IntegrationRepository
	source       ports.SheetSource
	clock        ports.Clock
}

// NewResultsService creates a results service
func NewResultsService(grants ports.ModuleGrantRepository, integrations ports.IntegrationRepository, source ports.SheetSource, clock ports.Clock) *ResultsService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &ResultsService{
		grants:       grants,
		integrations: integrations,
		source:       source,
		clock:        clock,
	}
}

// Load fetches the module's sheet tab, decodes it, and applies the requested
// date range. The returned range is zero when no filter was active.
func (s *ResultsService) Load(ctx context.Context, q ResultsQuery) (tabular.Sheet, daterange.Range, error) {
	if !q.Module.IsValid() {
		return tabular.Sheet{}, daterange.Range{}, apperrors.ValidationError("unknown module key")
	}

	grant, err := s.grants.GetGrant(ctx, q.OrgID, q.Module)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tabular.Sheet{}, daterange.Range{}, apperrors.Forbidden("module not granted to this organization")
		}
		return tabular.Sheet{}, daterange.Range{}, apperrors.Wrap(err, "failed to load module grant")
	}
	if !grant.Enabled {
		return tabular.Sheet{}, daterange.Range{}, apperrors.Forbidden("module disabled for this organization")
	}

	integ, err := s.integrations.GetIntegrationForOrg(ctx, q.OrgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tabular.Sheet{}, daterange.Range{}, apperrors.NotFound("sheet integration")
		}
		return tabular.Sheet{}, daterange.Range{}, apperrors.Wrap(err, "failed to load integration")
	}

	gid, ok := integ.GidMap[q.Module]
	if !ok {
		return tabular.Sheet{}, daterange.Range{}, apperrors.NotFound("sheet tab for module")
	}

	text, err := s.source.FetchCSV(ctx, integ.SheetID, gid)
	if err != nil {
		return tabular.Sheet{}, daterange.Range{}, err
	}
	sheet := tabular.DecodeSheet(text)

	r := s.resolveRange(q)
	if r.IsZero() {
		return sheet, r, nil
	}

	dateKey := q.DateKey
	if dateKey == "" {
		dateKey = guessDateKey(sheet.Headers)
	}
	if dateKey == "" {
		// No date-bearing column to filter on; return everything.
		return sheet, daterange.Range{}, nil
	}

	sheet.Rows = tabular.FilterByDate(sheet.Rows, dateKey, r, nil)
	return sheet, r, nil
}

// resolveRange turns the query's quick key or custom bounds into a Range.
// Unresolvable input means "no filter", never an error.
func (s *ResultsService) resolveRange(q ResultsQuery) daterange.Range {
	if q.Quick != "" {
		if r, ok := daterange.QuickRange(q.Quick, s.clock.Now()); ok {
			return r
		}
		return daterange.Range{}
	}
	if r, ok := daterange.ClampRange(q.From, q.To); ok {
		return r
	}
	return daterange.Range{}
}

// guessDateKey picks the first header whose name contains "date"
func guessDateKey(headers []string) string {
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h), "date") {
			return h
		}
	}
	return ""
}

// ColumnSummary holds basic statistics for one numeric column
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes per-column statistics over the sheet's numeric cells.
// Columns without any numeric value are omitted.
func Summarize(sheet tabular.Sheet) []ColumnSummary {
	summaries := make([]ColumnSummary, 0, len(sheet.Headers))
	for _, header := range sheet.Headers {
		var values stats.Float64Data
		for _, row := range sheet.Rows {
			cell := strings.TrimSpace(row[header])
			if cell == "" {
				continue
			}
			if v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64); err == nil {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		min, _ := stats.Min(values)
		max, _ := stats.Max(values)
		summaries = append(summaries, ColumnSummary{
			Column: header,
			Count:  len(values),
			Mean:   mean,
			Median: median,
			Min:    min,
			Max:    max,
		})
	}
	return summaries
}
