package web

import (
	"net/http"
	"slices"

	"github.com/JonMunkholm/ToolSpend/internal/core"
	"github.com/JonMunkholm/ToolSpend/internal/logging"
	"github.com/JonMunkholm/ToolSpend/internal/web/templates"
)

// dashboardView assembles the page model for the current request.
func (s *Server) dashboardView(r *http.Request) templates.DashboardView {
	currency := core.ParseCurrency(r.URL.Query().Get("currency"))
	if r.Method == http.MethodPost {
		currency = core.ParseCurrency(r.FormValue("currency"))
	}

	query, err := parseRecordQuery(r)
	if err != nil {
		query = core.DefaultRecordQuery()
	}

	d := s.service.Dashboard()
	return templates.DashboardView{
		Dashboard:   d,
		Tools:       core.QueryRecords(d.Records, query),
		Query:       query,
		Currency:    currency,
		Money:       func(usd float64) string { return s.rates.Format(usd, currency) },
		LinkedSheet: s.service.LinkedSheet(),
		People:      s.people(d.Records),
	}
}

// people lists the person filter options: the configured names, or the
// distinct assignees of an open set in first-appearance order.
func (s *Server) people(records []core.ToolRecord) []string {
	if members := s.service.Options().People.Members(); len(members) > 0 {
		return members
	}
	var out []string
	for _, r := range records {
		if !slices.Contains(out, r.AssignedPerson) {
			out = append(out, r.AssignedPerson)
		}
	}
	return out
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, v templates.DashboardView, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.DashboardPage(v).Render(r.Context(), w); err != nil {
		// Headers are already sent
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleDashboard renders the dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, s.dashboardView(r), http.StatusOK)
}

// renderImportOutcome shows the dashboard after a form import with the
// result or error banner on top.
func (s *Server) renderImportOutcome(w http.ResponseWriter, r *http.Request, result *core.ImportResult, err error) {
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		logger := logging.FromContext(r.Context())
		logArgs := []any{"path", r.URL.Path, "status", status, "error", err.Error()}
		if status >= http.StatusInternalServerError {
			logger.Error("import failed", logArgs...)
		} else {
			logger.Warn("import failed", logArgs...)
		}
	}

	if isHTMX(r) {
		if err != nil && result == nil {
			renderErrorPartial(w, r, core.MapError(err), status)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		templates.ImportResult(result).Render(r.Context(), w)
		return
	}

	v := s.dashboardView(r)
	v.Result = result
	if err != nil && result == nil {
		msg := core.MapError(err)
		v.Error = &msg
	}
	s.renderDashboard(w, r, v, status)
}

// handleImportForm handles the upload form on the dashboard.
func (s *Server) handleImportForm(w http.ResponseWriter, r *http.Request) {
	result, err := s.importUpload(w, r)
	s.renderImportOutcome(w, r, result, err)
}

// handleImportSheetForm handles the Google Sheet form on the dashboard.
func (s *Server) handleImportSheetForm(w http.ResponseWriter, r *http.Request) {
	result, err := s.importSheet(r)
	s.renderImportOutcome(w, r, result, err)
}

// handleRefreshForm handles the refresh button for a linked sheet.
func (s *Server) handleRefreshForm(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Refresh(WithRequestMetadata(r.Context(), r))
	s.renderImportOutcome(w, r, result, err)
}
