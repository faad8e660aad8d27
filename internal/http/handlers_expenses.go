package http

import (
	"net/http"

	"praktijk/internal/core"
)

type expenseRequest struct {
	Date          string `json:"date"`
	Description   string `json:"description"`
	CategoryID    *int64 `json:"category_id"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
}

type expenseResponse struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	CategoryID    *int64 `json:"category_id"`
	CategoryName  string `json:"category_name,omitempty"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		Date:          e.Date.Format("2006-01-02"),
		Description:   e.Description,
		CategoryID:    e.CategoryID,
		CategoryName:  e.CategoryName,
		Amount:        e.Amount.FormatEuros(),
		PaymentMethod: e.PaymentMethod,
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.repo.ListExpenses(r.Context(), tenantID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	resp := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp = append(resp, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := parseRequestDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e := core.Expense{
		Date:          date,
		Description:   sanitizeInput(req.Description),
		CategoryID:    req.CategoryID,
		Amount:        core.Money{Cents: cents},
		PaymentMethod: sanitizeInput(req.PaymentMethod),
	}

	created, err := s.booking.CreateExpense(r.Context(), tenantID(r), e)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}
