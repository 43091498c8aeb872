package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/domain"
)

type registerProfileRequest struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

type profileResponse struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func toProfileResponse(p *domain.IdentityProfile) profileResponse {
	return profileResponse{
		IdentityID: p.IdentityID,
		Email:      p.Email,
		Role:       string(p.Role),
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

// RegisterProfile resolves an identity's role. Identity and email default
// to the authenticated caller.
func (h *Handler) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	var req registerProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	if caller, ok := domain.IdentityFromContext(r.Context()); ok {
		if req.IdentityID == "" {
			req.IdentityID = caller.ID
		}
		if req.Email == "" {
			req.Email = caller.Email
		}
	}

	profile, err := h.Profiles.Register(r.Context(), req.IdentityID, req.Email, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	h.Logger.Info("profile registered", "identity", profile.IdentityID, "role", profile.Role)
	writeJSON(w, http.StatusCreated, toProfileResponse(profile))
}

// GetProfile returns a single profile or 404.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Profiles.Get(r.Context(), chi.URLParam(r, "identityID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}
