package commerce

import (
	"context"
	"fmt"

	"shop-chatbot-be/internal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

const regionKey = "default_region_id"

type RegionLister interface {
	ListRegions(ctx context.Context) ([]Region, error)
}

// RegionCache remembers the default region id so product calls return
// region prices. The value never expires; call Invalidate after region changes.
type RegionCache struct {
	lister RegionLister
	cache  *gocache.Cache
	logger logger.ILogger
}

func NewRegionCache(lister RegionLister, log logger.ILogger) *RegionCache {
	return &RegionCache{
		lister: lister,
		cache:  gocache.New(gocache.NoExpiration, 0),
		logger: log,
	}
}

// RegionID returns the first region of the platform. An empty id with a nil
// error means the platform has no regions; prices are then omitted.
func (r *RegionCache) RegionID(ctx context.Context) (string, error) {
	if v, ok := r.cache.Get(regionKey); ok {
		return v.(string), nil
	}

	regions, err := r.lister.ListRegions(ctx)
	if err != nil {
		return "", fmt.Errorf("list regions: %w", err)
	}
	if len(regions) == 0 {
		r.logger.Warn("RegionCache", "Platform has no regions", nil)
		return "", nil
	}

	id := regions[0].ID
	r.cache.Set(regionKey, id, gocache.NoExpiration)
	r.logger.Info("RegionCache", "Default region cached", map[string]interface{}{
		"region_id": id,
		"currency":  regions[0].CurrencyCode,
	})
	return id, nil
}

func (r *RegionCache) Invalidate() {
	r.cache.Delete(regionKey)
}
