package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"praktijk/internal/auth"
	"praktijk/internal/storage"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// handleRegister creates a practitioner account and seeds its reference data.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.ToLower(sanitizeInput(req.Username))
	if len(req.Username) < 3 {
		writeError(w, http.StatusBadRequest, "username must be at least 3 characters")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	ctx := r.Context()
	id, err := s.repo.CreateTenant(ctx, req.Username, hash)
	if err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		writeStoreError(w, err)
		return
	}

	if err := s.repo.SeedTenantDefaults(ctx, id); err != nil {
		// The account exists; log and continue rather than fail registration.
		slog.ErrorContext(ctx, "Failed to seed tenant defaults", "tenant_id", id, "error", err)
	}

	token, err := s.auth.Issue(id, req.Username)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, Username: req.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.ToLower(sanitizeInput(req.Username))

	tenant, err := s.repo.GetTenantByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeStoreError(w, err)
		return
	}

	if err := auth.CheckPassword(tenant.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.auth.Issue(tenant.ID, tenant.Username)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token, Username: tenant.Username})
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":    true,
		"username": claims.Username,
	})
}
