package ui

import (
	"fmt"
	"net/http"

	"clientportal/adapters/excel"
	"clientportal/app"
	"clientportal/domain/daterange"
	"clientportal/domain/tabular"
	"clientportal/internal/errors"
	"clientportal/models"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
)

func (s *Server) handleOrgModules(w http.ResponseWriter, r *http.Request) {
	grants, err := s.deps.Grants.ListGrants(r.Context(), currentOrgID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	enabled := make([]models.ModuleKey, 0, len(grants))
	for _, g := range grants {
		if g.Enabled {
			enabled = append(enabled, g.ModuleKey)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"modules": enabled})
}

// handleOrgSupport renders the org's support notes from markdown
func (s *Server) handleOrgSupport(w http.ResponseWriter, r *http.Request) {
	org, err := s.deps.Orgs.GetOrgByID(r.Context(), currentOrgID(r))
	if err != nil {
		writeError(w, errors.NotFound("organization"))
		return
	}

	html := markdown.ToHTML([]byte(org.SupportNotes), nil, nil)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"markdown": org.SupportNotes,
		"html":     string(html),
	})
}

// resultsQuery builds the service query from URL parts and query string
func resultsQuery(r *http.Request) app.ResultsQuery {
	q := r.URL.Query()
	return app.ResultsQuery{
		OrgID:   currentOrgID(r),
		Module:  models.ModuleKey(chi.URLParam(r, "moduleKey")),
		Quick:   daterange.Key(q.Get("range")),
		From:    q.Get("from"),
		To:      q.Get("to"),
		DateKey: q.Get("dateKey"),
	}
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	query := resultsQuery(r)
	sheet, rng, err := s.results.Load(r.Context(), query)
	if err != nil {
		// Fetch failures surface as an empty result with a message so the
		// client can render "no results" alongside the error.
		if errors.GetCode(err) == errors.CodeSheetFetch {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"headers": []string{},
				"rows":    []tabular.Row{},
				"error":   "failed to load results",
			})
			return
		}
		writeError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		filename := fmt.Sprintf("%s-results.csv", query.Module)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		_, _ = w.Write([]byte(tabular.EncodeSheet(sheet)))
	case "xlsx":
		book, err := excel.WriteWorkbook(string(query.Module), sheet)
		if err != nil {
			writeError(w, err)
			return
		}
		filename := fmt.Sprintf("%s-results.xlsx", query.Module)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		_, _ = w.Write(book)
	default:
		resp := map[string]interface{}{
			"headers": sheet.Headers,
			"rows":    sheet.Rows,
		}
		if !rng.IsZero() {
			resp["range"] = rng
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleResultsSummary(w http.ResponseWriter, r *http.Request) {
	sheet, rng, err := s.results.Load(r.Context(), resultsQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]interface{}{
		"columns":   app.Summarize(sheet),
		"row_count": len(sheet.Rows),
	}
	if !rng.IsZero() {
		resp["range"] = rng
	}
	writeJSON(w, http.StatusOK, resp)
}
