package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/ToolSpend/internal/core"
)

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseRecordQuery reads the tool table's search, filter and sort parameters.
func parseRecordQuery(r *http.Request) (core.RecordQuery, error) {
	q := r.URL.Query()
	query := core.DefaultRecordQuery()
	query.Search = q.Get("q")
	query.Person = strings.TrimSpace(q.Get("person"))

	switch c := strings.TrimSpace(q.Get("category")); {
	case c == "":
	case strings.EqualFold(c, string(core.CategoryNeed)):
		query.Category = core.CategoryNeed
	case strings.EqualFold(c, string(core.CategoryWant)):
		query.Category = core.CategoryWant
	default:
		return query, fmt.Errorf("unknown category %q", c)
	}

	field, err := core.ParseSortField(q.Get("sort"))
	if err != nil {
		return query, err
	}
	query.Sort = field

	switch strings.ToLower(q.Get("dir")) {
	case "":
	case "asc":
		query.Desc = false
	case "desc":
		query.Desc = true
	default:
		return query, fmt.Errorf("unknown sort direction %q", q.Get("dir"))
	}
	return query, nil
}

// roundRecords rounds money fields for presentation.
func roundRecords(records []core.ToolRecord) []core.ToolRecord {
	out := make([]core.ToolRecord, len(records))
	for i, r := range records {
		r.MonthlyCost = core.RoundMoney(r.MonthlyCost)
		r.ActualYearlyCost = core.RoundMoney(r.ActualYearlyCost)
		out[i] = r
	}
	return out
}

// ToolsResponse is the filtered tool table.
type ToolsResponse struct {
	Tools []core.ToolRecord `json:"tools"`
	Count int               `json:"count"`
	Total int               `json:"total"`
}

// handleTools returns the current tools, filtered and sorted.
func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	query, err := parseRecordQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Message: err.Error(), Code: "REQ001"})
		return
	}

	all := s.service.Records()
	tools := core.QueryRecords(all, query)
	writeJSON(w, http.StatusOK, ToolsResponse{
		Tools: roundRecords(tools),
		Count: len(tools),
		Total: len(all),
	})
}

// DashboardResponse is the dashboard in one display currency.
type DashboardResponse struct {
	Currency    core.Currency    `json:"currency"`
	INRPerUSD   float64          `json:"inrPerUsd"`
	Snapshot    *core.Snapshot   `json:"snapshot,omitempty"`
	KPIs        core.KPIs        `json:"kpis"`
	Charts      core.ChartGroups `json:"charts"`
	Alerts      []core.Alert     `json:"alerts"`
	LinkedSheet string           `json:"linkedSheet,omitempty"`
}

// handleDashboardData returns KPIs, chart groups and alerts. Money is
// converted to ?currency= and rounded; records are served by /api/tools.
func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	currency := core.ParseCurrency(r.URL.Query().Get("currency"))
	d := s.service.Dashboard()

	var snap *core.Snapshot
	if d.Snapshot != nil {
		summary := *d.Snapshot
		summary.Records = nil
		snap = &summary
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		Currency:    currency,
		INRPerUSD:   s.rates.INRPerUSD(),
		Snapshot:    snap,
		KPIs:        convertKPIs(d.KPIs, s.rates, currency).Rounded(),
		Charts:      convertCharts(d.Charts, s.rates, currency).Rounded(),
		Alerts:      d.Alerts,
		LinkedSheet: s.service.LinkedSheet(),
	})
}

func convertKPIs(k core.KPIs, rates *core.ExchangeRates, c core.Currency) core.KPIs {
	k.TotalMonthly = rates.Convert(k.TotalMonthly, c)
	k.TotalYearly = rates.Convert(k.TotalYearly, c)
	return k
}

func convertCharts(g core.ChartGroups, rates *core.ExchangeRates, c core.Currency) core.ChartGroups {
	out := core.ChartGroups{
		CostByTool:   make([]core.ToolCost, len(g.CostByTool)),
		CostByPerson: make([]core.PersonCost, len(g.CostByPerson)),
		NeedVsWant:   make([]core.CategoryBucket, len(g.NeedVsWant)),
	}
	for i, t := range g.CostByTool {
		t.Cost = rates.Convert(t.Cost, c)
		out.CostByTool[i] = t
	}
	for i, p := range g.CostByPerson {
		p.Cost = rates.Convert(p.Cost, c)
		out.CostByPerson[i] = p
	}
	for i, b := range g.NeedVsWant {
		b.Cost = rates.Convert(b.Cost, c)
		out.NeedVsWant[i] = b
	}
	return out
}

// handleExport downloads the current tools as csv, json or xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := core.ParseExportFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Message: err.Error(), Code: "REQ002"})
		return
	}

	// Render fully before writing so a failure can still be reported
	var buf bytes.Buffer
	if err := core.Export(&buf, format, s.service.Records()); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	filename := core.ExportFileName(core.DefaultExportName, format, time.Now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// handleImportHistory lists recent imports, newest first.
func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", s.cfg.Database.HistoryLimit)
	history, err := s.service.History(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if history == nil {
		history = []core.ImportSummary{}
	}
	writeJSON(w, http.StatusOK, history)
}

// handleRawImport downloads the original bytes of an import.
func (s *Server) handleRawImport(w http.ResponseWriter, r *http.Request) {
	summary, raw, err := s.service.RawFile(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	filename := summary.FileName
	if filename == "" {
		filename = summary.ImportID + ".csv"
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	w.Write(raw)
}

// StatusResponse reports import capacity and display settings.
type StatusResponse struct {
	Imports       core.ImportLimiterStatus `json:"imports"`
	CurrentImport string                   `json:"currentImport,omitempty"`
	LinkedSheet   string                   `json:"linkedSheet,omitempty"`
	INRPerUSD     float64                  `json:"inrPerUsd"`
	RateUpdatedAt *time.Time               `json:"rateUpdatedAt,omitempty"`
}

// handleStatus returns the current state of the import limiter.
// Used for monitoring and to check if the system can accept more imports.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Imports:     s.service.LimiterStatus(),
		LinkedSheet: s.service.LinkedSheet(),
		INRPerUSD:   s.rates.INRPerUSD(),
	}
	if snap := s.service.Current(); snap != nil {
		resp.CurrentImport = snap.ImportID
	}
	if t := s.rates.UpdatedAt(); !t.IsZero() {
		resp.RateUpdatedAt = &t
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
