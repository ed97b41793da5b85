package ui

import (
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/export"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/format"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/logger"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/prefs"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/service"
)

// Services bundles what screens need from the rest of the program.
type Services struct {
	Backend       service.Backend
	PageSize      int
	Lookup        *service.Lookup
	Prefs         *prefs.Store
	Logs          *logger.LogBuffer
	Exporter      *export.Exporter
	ExportDir     string
	Links         format.Links
	Social        []format.SocialLink
	DefaultFilter domain.FilterCriteria
	Logger        *zap.Logger
}

// NewServices wires the services over backend with default settings. Callers
// override the exported fields they configure.
func NewServices(backend service.Backend, logger *zap.Logger) *Services {
	return &Services{
		Backend:       backend,
		PageSize:      50,
		Lookup:        service.NewLookup(backend, logger),
		Exporter:      export.NewExporter(logger),
		ExportDir:     "exports",
		Links:         format.DefaultLinks(),
		Social:        format.DefaultSocialLinks(),
		DefaultFilter: domain.DefaultFilter(),
		Logger:        logger,
	}
}

// NewDashboard creates a dashboard service with a pager of its own, so every
// list screen paginates independently.
func (s *Services) NewDashboard() *service.Dashboard {
	return service.NewDashboard(s.Backend, s.PageSize, s.Logger)
}

// GuideSeen reports the persisted guide flag; without a store the guide shows.
func (s *Services) GuideSeen() bool {
	return s.Prefs != nil && s.Prefs.GuideSeen()
}

// MarkGuideSeen persists the guide flag. Failures are logged only.
func (s *Services) MarkGuideSeen() {
	if s.Prefs == nil {
		return
	}
	if err := s.Prefs.MarkGuideSeen(); err != nil {
		s.Logger.Warn("Failed to persist guide state", zap.Error(err))
	}
}
