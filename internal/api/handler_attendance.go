package api

import (
	"encoding/json"
	"net/http"
	"time"

	"rollcall/internal/domain"
)

type markAttendanceRequest struct {
	IdentityID  string  `json:"identity_id"`
	EvidenceRef *string `json:"evidence_ref,omitempty"`
}

type attendanceRecordResponse struct {
	RecordID    string  `json:"record_id"`
	IdentityID  string  `json:"identity_id"`
	OccurredAt  string  `json:"occurred_at"`
	EvidenceRef *string `json:"evidence_ref,omitempty"`
	Email       *string `json:"email,omitempty"`
	Role        *string `json:"role,omitempty"`
}

// MarkAttendance appends one attendance record. The identity defaults to
// the authenticated caller; a request body may name another identity for
// faculty-driven marking.
func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.ErrValidation("invalid request body: %v", err))
			return
		}
	}
	if req.IdentityID == "" {
		if caller, ok := domain.IdentityFromContext(r.Context()); ok {
			req.IdentityID = caller.ID
		}
	}

	rec, err := h.Ledger.Mark(r.Context(), req.IdentityID, req.EvidenceRef)
	if err != nil {
		writeError(w, err)
		return
	}

	h.Logger.Info("attendance marked", "record_id", rec.RecordID, "identity", rec.IdentityID)
	writeJSON(w, http.StatusCreated, attendanceRecordResponse{
		RecordID:    rec.RecordID,
		IdentityID:  rec.IdentityID,
		OccurredAt:  rec.OccurredAt.Format(time.RFC3339Nano),
		EvidenceRef: rec.EvidenceRef,
	})
}

// ListAttendance returns records newest first, optionally filtered to one
// calendar day via ?date=YYYY-MM-DD.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	records, err := h.Report.List(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]attendanceRecordResponse, 0, len(records))
	for _, rec := range records {
		item := attendanceRecordResponse{
			RecordID:    rec.RecordID,
			IdentityID:  rec.IdentityID,
			OccurredAt:  rec.OccurredAt.Format(time.RFC3339Nano),
			EvidenceRef: rec.EvidenceRef,
			Email:       rec.Email,
		}
		if rec.Role != nil {
			role := string(*rec.Role)
			item.Role = &role
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}
