package ports

import (
	"context"

	"github.com/samirrijal/heritagepass/internal/core/domain"
)

// ReferenceRepository persists the static geography tables.
type ReferenceRepository interface {
	Load(ctx context.Context) (domain.ReferenceData, error)
	Save(ctx context.Context, ref domain.ReferenceData) error
}
