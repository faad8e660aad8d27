package http

import (
	"net/http"
	"time"

	"praktijk/internal/core"
)

type clientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	StartDate string `json:"start_date"`
	FundID    *int64 `json:"fund_id"`
	Exception bool   `json:"exception"`
}

type clientResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	FundID    *int64 `json:"fund_id"`
	FundName  string `json:"fund_name,omitempty"`
	Exception bool   `json:"exception"`
}

func toClientResponse(c core.Client) clientResponse {
	resp := clientResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		FundID:    c.FundID,
		FundName:  c.FundName,
		Exception: c.Exception,
	}
	if !c.StartDate.IsZero() {
		resp.StartDate = c.StartDate.Format("2006-01-02")
	}
	return resp
}

func parseClient(r *http.Request) (core.Client, error) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		return core.Client{}, err
	}

	c := core.Client{
		FirstName: sanitizeInput(req.FirstName),
		LastName:  sanitizeInput(req.LastName),
		Email:     sanitizeInput(req.Email),
		Phone:     sanitizeInput(req.Phone),
		FundID:    req.FundID,
		Exception: req.Exception,
	}
	if req.StartDate != "" {
		d, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return core.Client{}, core.ErrInvalidDate
		}
		c.StartDate = d
	}
	return c, c.Validate()
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.repo.ListClients(r.Context(), tenantID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	resp := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		resp = append(resp, toClientResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	c, err := parseClient(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.repo.CreateClient(r.Context(), tenantID(r), c)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	c.ID = id
	s.invalidateSignals(r)
	writeJSON(w, http.StatusCreated, toClientResponse(c))
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := parseClient(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.ID = id

	if err := s.repo.UpdateClient(r.Context(), tenantID(r), c); err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateSignals(r)
	writeJSON(w, http.StatusOK, toClientResponse(c))
}
