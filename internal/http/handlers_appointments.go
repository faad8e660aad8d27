package http

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"praktijk/internal/core"
	"praktijk/internal/files"
)

// maxUploadBytes bounds the whole multipart request, document included.
const maxUploadBytes = 12 << 20

type appointmentResponse struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	ClientID     int64  `json:"client_id"`
	ClientName   string `json:"client_name,omitempty"`
	TypeID       int64  `json:"type_id"`
	TypeName     string `json:"type_name,omitempty"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
	Total        string `json:"total"`
	Reimbursable bool   `json:"reimbursable"`
	Note         string `json:"note,omitempty"`
	HasDocument  bool   `json:"has_document"`
}

func toAppointmentResponse(a core.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:           a.ID,
		Date:         a.Date.Format("2006-01-02"),
		ClientID:     a.ClientID,
		ClientName:   a.ClientName,
		TypeID:       a.TypeID,
		TypeName:     a.TypeName,
		Quantity:     a.Quantity,
		Price:        a.Price.FormatEuros(),
		Total:        a.Total.FormatEuros(),
		Reimbursable: a.Reimbursable,
		Note:         a.Note,
		HasDocument:  a.Document != "",
	}
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.repo.ListAppointments(r.Context(), tenantID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	resp := make([]appointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		resp = append(resp, toAppointmentResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateAppointment accepts a multipart form so an invoice or
// prescription PDF can ride along with the booking fields.
func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	a, err := parseAppointmentForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, _, err := r.FormFile("document")
	if err == nil {
		defer doc.Close()
		name, err := s.docs.Save(doc)
		if err != nil {
			switch {
			case errors.Is(err, files.ErrNotPDF):
				writeError(w, http.StatusBadRequest, "document must be a PDF")
			case errors.Is(err, files.ErrTooLarge):
				writeError(w, http.StatusRequestEntityTooLarge, "document too large")
			default:
				writeStoreError(w, err)
			}
			return
		}
		a.Document = name
	} else if !errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "invalid document upload")
		return
	}

	created, err := s.booking.CreateAppointment(r.Context(), tenantID(r), a)
	if err != nil {
		if a.Document != "" {
			_ = s.docs.Remove(a.Document)
		}
		writeStoreError(w, err)
		return
	}

	s.invalidateSignals(r)
	writeJSON(w, http.StatusCreated, toAppointmentResponse(created))
}

func parseAppointmentForm(r *http.Request) (core.Appointment, error) {
	date, err := parseRequestDate(r.FormValue("datum"))
	if err != nil {
		return core.Appointment{}, err
	}

	clientID, err := strconv.ParseInt(r.FormValue("klant_id"), 10, 64)
	if err != nil {
		return core.Appointment{}, core.ErrMissingClient
	}
	typeID, err := strconv.ParseInt(r.FormValue("type_id"), 10, 64)
	if err != nil {
		return core.Appointment{}, core.ErrMissingType
	}

	a := core.Appointment{
		Date:         date,
		ClientID:     clientID,
		TypeID:       typeID,
		Quantity:     1,
		Reimbursable: r.FormValue("terugbetaalbaar") == "true",
		Note:         sanitizeInput(r.FormValue("opmerking")),
	}

	if v := r.FormValue("aantal"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return core.Appointment{}, core.ErrInvalidQuantity
		}
		a.Quantity = n
	}

	// An explicit price overrides the consultation type's fixed price.
	if v := r.FormValue("prijs"); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			return core.Appointment{}, err
		}
		a.Price = core.Money{Cents: cents}
	}

	return a, nil
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := s.repo.GetAppointment(r.Context(), tenantID(r), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if a.Document == "" {
		writeError(w, http.StatusNotFound, "appointment has no document")
		return
	}

	f, err := s.docs.Open(a.Document)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, files.ErrInvalidName) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeStoreError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="document.pdf"`)
	_, _ = io.Copy(w, f)
}
