package api

import (
	"encoding/json"
	"net/http"
	"time"

	"rollcall/internal/domain"
)

type evidenceURLRequest struct {
	ContentType string `json:"content_type"`
}

type evidenceURLResponse struct {
	UploadURL   string `json:"upload_url"`
	EvidenceRef string `json:"evidence_ref"`
	ExpiresAt   string `json:"expires_at"`
}

// CreateEvidenceURL issues a presigned upload URL for attendance photo
// evidence. The object is keyed under the authenticated caller's identity.
func (h *Handler) CreateEvidenceURL(w http.ResponseWriter, r *http.Request) {
	if h.Evidence == nil {
		writeError(w, domain.ErrUnavailable(nil, "evidence storage is not configured"))
		return
	}

	caller, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrValidation("no authenticated identity"))
		return
	}

	var req evidenceURLRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.ErrValidation("invalid request body: %v", err))
			return
		}
	}

	ticket, err := h.Evidence.CreateUploadTicket(r.Context(), caller.ID, req.ContentType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, evidenceURLResponse{
		UploadURL:   ticket.UploadURL,
		EvidenceRef: ticket.EvidenceRef,
		ExpiresAt:   ticket.ExpiresAt.Format(time.RFC3339),
	})
}
