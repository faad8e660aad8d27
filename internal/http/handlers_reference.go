package http

import (
	"net/http"

	"praktijk/internal/core"
)

type consultTypeRequest struct {
	Name string `json:"name"`
	// Price is a decimal string ("60" or "60,00"); empty means no fixed price.
	Price string `json:"price"`
}

type consultTypeResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price *string `json:"price"`
}

func toConsultTypeResponse(ct core.ConsultType) consultTypeResponse {
	resp := consultTypeResponse{ID: ct.ID, Name: ct.Name}
	if ct.Price != nil {
		p := ct.Price.FormatEuros()
		resp.Price = &p
	}
	return resp
}

func parseConsultType(r *http.Request) (core.ConsultType, error) {
	var req consultTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		return core.ConsultType{}, err
	}

	ct := core.ConsultType{Name: sanitizeInput(req.Name)}
	if req.Price != "" {
		cents, err := core.ParseDecimalToCents(req.Price)
		if err != nil {
			return core.ConsultType{}, err
		}
		ct.Price = &core.Money{Cents: cents}
	}
	return ct, ct.Validate()
}

func (s *Server) handleListConsultTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.repo.ListConsultTypes(r.Context(), tenantID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	resp := make([]consultTypeResponse, 0, len(types))
	for _, ct := range types {
		resp = append(resp, toConsultTypeResponse(ct))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateConsultType(w http.ResponseWriter, r *http.Request) {
	ct, err := parseConsultType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.repo.CreateConsultType(r.Context(), tenantID(r), ct)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	ct.ID = id
	writeJSON(w, http.StatusCreated, toConsultTypeResponse(ct))
}

func (s *Server) handleUpdateConsultType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ct, err := parseConsultType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ct.ID = id

	if err := s.repo.UpdateConsultType(r.Context(), tenantID(r), ct); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConsultTypeResponse(ct))
}

type fundRequest struct {
	Name               string `json:"name"`
	MaxSessionsPerYear *int64 `json:"max_sessions_per_year"`
	Note               string `json:"note"`
}

type fundResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	MaxSessionsPerYear *int64 `json:"max_sessions_per_year"`
	Note               string `json:"note,omitempty"`
}

func toFundResponse(f core.Fund) fundResponse {
	return fundResponse{
		ID:                 f.ID,
		Name:               f.Name,
		MaxSessionsPerYear: f.MaxSessionsPerYear,
		Note:               f.Note,
	}
}

func parseFund(r *http.Request) (core.Fund, error) {
	var req fundRequest
	if err := decodeJSON(r, &req); err != nil {
		return core.Fund{}, err
	}
	f := core.Fund{
		Name:               sanitizeInput(req.Name),
		MaxSessionsPerYear: req.MaxSessionsPerYear,
		Note:               sanitizeInput(req.Note),
	}
	return f, f.Validate()
}

func (s *Server) handleListFunds(w http.ResponseWriter, r *http.Request) {
	funds, err := s.repo.ListFunds(r.Context(), tenantID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	resp := make([]fundResponse, 0, len(funds))
	for _, f := range funds {
		resp = append(resp, toFundResponse(f))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateFund(w http.ResponseWriter, r *http.Request) {
	f, err := parseFund(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.repo.CreateFund(r.Context(), tenantID(r), f)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	f.ID = id
	s.invalidateSignals(r)
	writeJSON(w, http.StatusCreated, toFundResponse(f))
}

func (s *Server) handleUpdateFund(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := parseFund(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f.ID = id

	if err := s.repo.UpdateFund(r.Context(), tenantID(r), f); err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateSignals(r)
	writeJSON(w, http.StatusOK, toFundResponse(f))
}

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.repo.ListCategories(r.Context(), tenantID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, categoryResponse{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := core.Category{Name: sanitizeInput(req.Name)}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.repo.CreateCategory(r.Context(), tenantID(r), c)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryResponse{ID: id, Name: c.Name})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := core.Category{ID: id, Name: sanitizeInput(req.Name)}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.UpdateCategory(r.Context(), tenantID(r), c); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryResponse{ID: id, Name: c.Name})
}
