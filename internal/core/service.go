package core

import (
	"context"
	"log/slog"

	"github.com/JonMunkholm/crewboard/internal/datatable"
	"github.com/JonMunkholm/crewboard/internal/logging"
)

// DefaultMaxPageSize caps requested page sizes when the service is built
// without a limit.
const DefaultMaxPageSize = 200

// Service answers table parameter snapshots from Postgres.
type Service struct {
	db          DBTX
	maxPageSize int
}

// NewService creates a new Service. maxPageSize <= 0 uses DefaultMaxPageSize.
func NewService(db DBTX, maxPageSize int) *Service {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	return &Service{db: db, maxPageSize: maxPageSize}
}

// Screens returns information about all registered screens.
func (s *Service) Screens() []ScreenInfo {
	return Screens()
}

// Screen returns the definition for key or an ErrUnknownScreen error.
func (s *Service) Screen(key string) (ScreenDefinition, error) {
	return Lookup(key)
}

// normalize bounds a snapshot to values the service can serve.
func (s *Service) normalize(p datatable.Params) datatable.Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = datatable.DefaultPageSize
	}
	if p.PageSize > s.maxPageSize {
		p.PageSize = s.maxPageSize
	}
	return p
}

func (s *Service) logger(ctx context.Context, def ScreenDefinition) *slog.Logger {
	return logging.WithFields(ctx, "component", "core", "screen", def.Info.Key)
}
