// Package ui serves the server-rendered attendance dashboard.
package ui

import (
	"context"
	"net/http"

	gomponents "maragu.dev/gomponents"

	"rollcall/internal/config"
	"rollcall/internal/domain"
	"rollcall/internal/service"
)

type Handler struct {
	Ledger     *service.LedgerService
	Report     *service.ReportService
	Profiles   *service.ProfileService
	Evidence   *service.EvidenceService
	Auth       config.AuthConfig
	Production bool
}

func NewHandler(
	ledger *service.LedgerService,
	report *service.ReportService,
	profiles *service.ProfileService,
	evidence *service.EvidenceService,
	auth config.AuthConfig,
	production bool,
) *Handler {
	return &Handler{
		Ledger:     ledger,
		Report:     report,
		Profiles:   profiles,
		Evidence:   evidence,
		Auth:       auth,
		Production: production,
	}
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func identityFromContext(ctx context.Context) domain.ContextIdentity {
	id, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return domain.ContextIdentity{ID: "unknown"}
	}
	return id
}
