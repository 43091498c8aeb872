// Package app provides application-level wiring for the rollcall server.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"rollcall/internal/config"
	"rollcall/internal/db/repository"
	"rollcall/internal/service"
)

// Deps holds the external dependencies that main() must provide:
// database handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers the handlers need. Evidence is nil
// when S3 is not configured.
type Services struct {
	Ledger   *service.LedgerService
	Report   *service.ReportService
	Profiles *service.ProfileService
	Evidence *service.EvidenceService
	Digest   *service.DigestScheduler
}

// App holds the fully-wired application.
type App struct {
	Services Services
}

// New wires repositories and services from the provided deps.
func New(deps Deps) (*App, error) {
	cfg := deps.Cfg

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// Write-pool repos for appends/upserts, read-pool for queries.
	records := repository.NewAttendanceRepo(deps.WriteDB, cfg.OrgID)
	profiles := repository.NewProfileRepo(deps.WriteDB, cfg.OrgID)
	audit := repository.NewAuditRepo(deps.WriteDB, cfg.OrgID)
	recordsRead := repository.NewAttendanceRepo(deps.ReadDB, cfg.OrgID)

	report := service.NewReportService(recordsRead, loc)

	services := Services{
		Ledger:   service.NewLedgerService(records, audit, time.Now),
		Report:   report,
		Profiles: service.NewProfileService(profiles, audit),
		Digest:   service.NewDigestScheduler(recordsRead, report, audit, deps.Logger, time.Now),
	}

	if cfg.HasS3Config() {
		evidence, err := service.NewEvidenceService(cfg, time.Now)
		if err != nil {
			return nil, fmt.Errorf("evidence service: %w", err)
		}
		services.Evidence = evidence
		deps.Logger.Info("evidence presigning enabled", "bucket", cfg.S3BucketName())
	}

	return &App{Services: services}, nil
}
