package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"praktijk/internal/core"
	"praktijk/internal/metrics"
	"praktijk/internal/signals"
)

type dashboardResponse struct {
	Month    string `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month := core.MonthBucket(time.Now().UTC())
	d, err := s.repo.Dashboard(r.Context(), tenantID(r), month)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		Month:    month.Format("2006-01"),
		Income:   d.Income.FormatEuros(),
		Expenses: d.Expenses.FormatEuros(),
		Net:      d.Net.FormatEuros(),
	})
}

type monthRowResponse struct {
	Month    int    `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	year := queryYear(r)
	rows, err := s.repo.MonthOverview(r.Context(), tenantID(r), year)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	resp := make([]monthRowResponse, 0, 12)
	for _, row := range core.FillMissingMonths(rows) {
		resp = append(resp, monthRowResponse{
			Month:    row.Month,
			Income:   row.Income.FormatEuros(),
			Expenses: row.Expenses.FormatEuros(),
			Net:      row.Net.FormatEuros(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSignals serves the reimbursement signals for the current calendar
// year. Evaluations are cached per tenant per day and invalidated whenever a
// write could change the outcome.
func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	now := time.Now().UTC()

	if cached, ok := s.signalCache.Get(tenant, now); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := s.signals.Evaluate(r.Context(), tenant, now)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if result == nil {
		result = []signals.Signal{}
	}
	metrics.ObserveSignalEvaluation(len(result))
	s.signalCache.Set(tenant, now, result)
	writeJSON(w, http.StatusOK, result)
}

// invalidateSignals drops the tenant's cached evaluation after a write that
// can change which signals fire.
func (s *Server) invalidateSignals(r *http.Request) {
	s.signalCache.Invalidate(tenantID(r), time.Now().UTC())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	year := queryYear(r)

	// Buffer the workbook so storage errors can still produce a JSON error
	// response instead of a truncated file.
	var buf bytes.Buffer
	if err := s.exporter.WriteYear(r.Context(), &buf, tenantID(r), year); err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="boekhouding-%d.xlsx"`, year))
	_, _ = w.Write(buf.Bytes())
}
