package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/service"
)

// Handler serves the versioned JSON API. Evidence may be nil when S3
// storage is not configured; the evidence route then answers 503.
type Handler struct {
	Ledger   *service.LedgerService
	Report   *service.ReportService
	Profiles *service.ProfileService
	Evidence *service.EvidenceService
	Logger   *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(ledger *service.LedgerService, report *service.ReportService, profiles *service.ProfileService, evidence *service.EvidenceService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Ledger:   ledger,
		Report:   report,
		Profiles: profiles,
		Evidence: evidence,
		Logger:   logger,
	}
}

// Routes mounts all API endpoints on a fresh router. Authentication is the
// caller's concern; these routes assume an identity is already in context.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/attendance", h.MarkAttendance)
	r.Get("/attendance", h.ListAttendance)
	r.Post("/profiles", h.RegisterProfile)
	r.Get("/profiles/{identityID}", h.GetProfile)

	r.Post("/attendance/evidence-url", h.CreateEvidenceURL)

	return r
}
