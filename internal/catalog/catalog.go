// Package catalog serves the read-only crop reference data: crops, their
// tolerance bands and their ordered growth stage rules.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"garden-care-backend/internal/metrics"
	"garden-care-backend/internal/model"
	"garden-care-backend/internal/store"
)

const (
	allCropsKey = "crops"
	cacheLabel  = "catalog"
)

// SeedResult reports what Seed inserted.
type SeedResult struct {
	CreatedCrops  int `json:"created_crops"`
	CreatedStages int `json:"created_stages"`
}

// Catalog memoizes crop lookups. Crops never change at runtime, so entries
// only expire to bound memory.
type Catalog struct {
	store  store.Store
	cache  *cache.Cache
	logger zerolog.Logger
}

// New creates a catalog backed by st.
func New(st store.Store, ttl time.Duration, logger zerolog.Logger) *Catalog {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Catalog{
		store:  st,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Seed validates and inserts the builtin crops that are not present yet.
func (c *Catalog) Seed(ctx context.Context) (SeedResult, error) {
	return c.SeedCrops(ctx, Builtin())
}

// SeedCrops validates and inserts crops that are not present yet, by name.
func (c *Catalog) SeedCrops(ctx context.Context, crops []model.Crop) (SeedResult, error) {
	for i := range crops {
		if err := Validate(&crops[i]); err != nil {
			return SeedResult{}, err
		}
	}

	created, err := c.store.SeedCrops(ctx, crops)
	if err != nil {
		return SeedResult{}, err
	}

	// Rows that were skipped keep a zero id.
	res := SeedResult{CreatedCrops: created}
	for _, crop := range crops {
		if crop.ID == 0 {
			continue
		}
		res.CreatedStages += len(crop.Stages)
	}
	c.Invalidate()
	c.logger.Info().Int("crops", res.CreatedCrops).Int("stages", res.CreatedStages).Msg("crop catalog seeded")
	return res, nil
}

// Crops returns every crop with its ordered stage rules.
func (c *Catalog) Crops(ctx context.Context) ([]model.Crop, error) {
	if v, ok := c.cache.Get(allCropsKey); ok {
		metrics.CacheHitsTotal.WithLabelValues(cacheLabel).Inc()
		return v.([]model.Crop), nil
	}
	metrics.CacheMissesTotal.WithLabelValues(cacheLabel).Inc()
	crops, err := c.store.ListCrops(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(allCropsKey, crops)
	return crops, nil
}

// Crop returns one crop with its ordered stage rules, or model.ErrNotFound.
func (c *Catalog) Crop(ctx context.Context, id int64) (*model.Crop, error) {
	key := fmt.Sprintf("crop:%d", id)
	if v, ok := c.cache.Get(key); ok {
		metrics.CacheHitsTotal.WithLabelValues(cacheLabel).Inc()
		crop := v.(model.Crop)
		return &crop, nil
	}
	metrics.CacheMissesTotal.WithLabelValues(cacheLabel).Inc()
	crop, err := c.store.GetCrop(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, *crop)
	return crop, nil
}

// StageRules returns the crop's rules ordered by sequence. A crop without
// rules yields an empty slice.
func (c *Catalog) StageRules(ctx context.Context, cropID int64) ([]model.GrowthStageRule, error) {
	crop, err := c.Crop(ctx, cropID)
	if err != nil {
		return nil, err
	}
	return crop.Stages, nil
}

// RuleFor returns the rule of the given stage, or nil when the crop has none.
func RuleFor(rules []model.GrowthStageRule, stage model.Stage) *model.GrowthStageRule {
	for i := range rules {
		if rules[i].Stage == stage {
			return &rules[i]
		}
	}
	return nil
}

// Invalidate drops every memoized entry.
func (c *Catalog) Invalidate() {
	c.cache.Flush()
}
