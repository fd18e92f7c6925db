package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mapleship/regions-backend/internal/domain"
)

type Repositories struct {
	RegionDocuments RegionDocuments
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		RegionDocuments: newRegionDocumentRepository(db),
	}
}

// RegionDocuments persists the region map as one document row. This backs
// the reference implementation of the remote store contract.
type RegionDocuments interface {
	Get(ctx context.Context) (domain.RegionMap, error)
	Replace(ctx context.Context, regions domain.RegionMap) error
	PutRegion(ctx context.Context, id string, region *domain.Region) error
	DeleteRegion(ctx context.Context, id string) error
}
