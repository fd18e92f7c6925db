package service

import (
	"context"

	"github.com/mapleship/regions-backend/internal/area"
	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/internal/notifier"
	"github.com/mapleship/regions-backend/internal/store"
	syncengine "github.com/mapleship/regions-backend/internal/sync"
)

type Services struct {
	Regions      Regions
	Pricing      Pricing
	DeliveryArea DeliveryArea
	Sync         Sync
}

type Deps struct {
	Store    *store.Store
	Engine   *syncengine.Engine
	Notifier *notifier.Notifier
}

func NewServices(deps Deps) *Services {
	return &Services{
		Regions:      newRegionService(deps.Store),
		Pricing:      newPricingService(deps.Store),
		DeliveryArea: newDeliveryAreaService(deps.Store),
		Sync:         newSyncService(deps.Engine),
	}
}

type Regions interface {
	GetAll(ctx context.Context) (domain.RegionMap, error)
	Get(ctx context.Context, id string) (*domain.Region, error)
	Save(ctx context.Context, id string, region *domain.Region) error
	SaveWithVersion(ctx context.Context, id string, region *domain.Region, baseVersion int64) error
	SetPostalCodes(ctx context.Context, id string, codes []string) error
	Delete(ctx context.Context, id string) error
	Validate(region *domain.Region) domain.ValidationResult
	Stats(ctx context.Context, id string) (store.RegionStats, error)
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) error
	Version() int64
}

type Pricing interface {
	CalculatePrice(ctx context.Context, regionID string, weight float64) (float64, bool, error)
	CopyTable(ctx context.Context, srcID string, dstID string) error
	AdjustPrices(ctx context.Context, regionID string, percent float64, rangeIDs []string) error
}

type DeliveryArea interface {
	Stats(ctx context.Context) (area.Stats, error)
	FilterFeatures(ctx context.Context, collection domain.FeatureCollection, regionIDs []string) (area.FilterResult, error)
	RegionOf(ctx context.Context, code string) (string, bool, error)
	BatchCheck(ctx context.Context, codes []string) (area.BatchResult, error)
	UnassignedCodes(ctx context.Context, collection domain.FeatureCollection) ([]string, error)
}

type Sync interface {
	Status() syncengine.StatusInfo
	ForceSync(ctx context.Context) error
}
