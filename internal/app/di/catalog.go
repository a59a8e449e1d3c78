package di

import (
	"log/slog"

	"gorm.io/gorm"

	catalogadapters "tick_backend/internal/feature/catalog/adapters"
	catalogusecase "tick_backend/internal/feature/catalog/usecase"
	"tick_backend/internal/platform/config"
)

// NewCatalog builds the security catalog from the configured files and, optionally, the securities table.
// File sources come first so that their names take precedence.
func NewCatalog(cfg *config.Config, gdb *gorm.DB, logger *slog.Logger) *catalogusecase.CatalogUsecase {
	sources := make([]catalogusecase.SecuritySource, 0, len(cfg.Catalog.Files)+1)
	for _, f := range cfg.Catalog.Files {
		sources = append(sources, catalogadapters.NewFileCatalog(f))
	}
	if cfg.Catalog.UseDatabase && gdb != nil {
		sources = append(sources, catalogadapters.NewSecurityRepository(gdb))
	}
	return catalogusecase.NewCatalogUsecase(logger, sources...)
}
