// Package usecase merges the configured security catalogs into one ingestion list.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"tick_backend/internal/feature/catalog/domain/entity"
)

// SecuritySource abstracts one catalog: a JSON file or the securities table.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SecuritySource interface {
	Name() string
	List(ctx context.Context) ([]entity.Security, error)
}

// CatalogUsecase provides the merged, validated catalog.
type CatalogUsecase struct {
	sources []SecuritySource
	logger  *slog.Logger
}

// NewCatalogUsecase creates a CatalogUsecase reading the sources in order.
func NewCatalogUsecase(logger *slog.Logger, sources ...SecuritySource) *CatalogUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogUsecase{sources: sources, logger: logger}
}

// ListSecurities returns every valid security of all sources, first occurrence first.
// Invalid identifiers are skipped with a warning. A source that cannot be read fails the call.
func (u *CatalogUsecase) ListSecurities(ctx context.Context) ([]entity.Security, error) {
	index := make(map[string]int)
	var out []entity.Security

	for _, src := range u.sources {
		secs, err := src.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", src.Name(), err)
		}
		skipped := 0
		for _, s := range secs {
			isin, err := entity.NormalizeISIN(s.ISIN)
			if err != nil {
				u.logger.Warn("skipping invalid catalog entry", "source", src.Name(), "isin", s.ISIN, "error", err)
				skipped++
				continue
			}
			if i, ok := index[isin]; ok {
				// 名前のない先勝ちエントリは後続のカタログの名前で補完する
				if out[i].Name == "" {
					out[i].Name = s.Name
				}
				continue
			}
			index[isin] = len(out)
			out = append(out, entity.Security{ISIN: isin, Name: s.Name})
		}
		u.logger.Debug("catalog loaded", "source", src.Name(), "entries", len(secs), "skipped", skipped)
	}
	return out, nil
}

// ISINs returns the identifiers of secs in order.
func ISINs(secs []entity.Security) []string {
	out := make([]string, 0, len(secs))
	for _, s := range secs {
		out = append(out, s.ISIN)
	}
	return out
}
