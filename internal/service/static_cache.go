package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

type StaticDataRepository interface {
	ListStallLayouts(ctx context.Context, limit int) ([]domain.StallLayout, error)
	ListPOIs(ctx context.Context, limit int) ([]domain.POI, error)
}

type StaticCacheConfig struct {
	Limit         int
	Retries       int
	RetryInterval time.Duration
}

// StaticCache holds stall layouts and points of interest for the life of the
// process. The first Get fetches both collections concurrently; concurrent
// first callers share that single fetch. A failed fetch degrades to empty
// lists, which are cached like any other result.
type StaticCache struct {
	repo  StaticDataRepository
	conf  StaticCacheConfig
	group singleflight.Group

	mu   sync.RWMutex
	data *domain.StaticData
}

func NewStaticCache(repo StaticDataRepository, conf StaticCacheConfig) *StaticCache {
	return &StaticCache{
		repo: repo,
		conf: conf,
	}
}

func (c *StaticCache) cached() (domain.StaticData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.data == nil {
		return domain.StaticData{}, false
	}
	return *c.data, true
}

func (c *StaticCache) Get(ctx context.Context) domain.StaticData {
	if data, ok := c.cached(); ok {
		return data
	}

	v, _, _ := c.group.Do("static", func() (interface{}, error) {
		if data, ok := c.cached(); ok {
			return data, nil
		}

		// The fetch outlives the caller that happened to trigger it.
		data := c.fetch(context.WithoutCancel(ctx))

		c.mu.Lock()
		c.data = &data
		c.mu.Unlock()

		return data, nil
	})

	return v.(domain.StaticData)
}

func (c *StaticCache) fetch(ctx context.Context) domain.StaticData {
	var layouts []domain.StallLayout
	var pois []domain.POI

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.retry(gctx, func() error {
			var err error
			layouts, err = c.repo.ListStallLayouts(gctx, c.conf.Limit)
			if err != nil {
				return fmt.Errorf("c.repo.ListStallLayouts -> %w", err)
			}
			return nil
		})
	})
	g.Go(func() error {
		return c.retry(gctx, func() error {
			var err error
			pois, err = c.repo.ListPOIs(gctx, c.conf.Limit)
			if err != nil {
				return fmt.Errorf("c.repo.ListPOIs -> %w", err)
			}
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		zap.L().Warn("static map data unavailable, serving map without stalls and points of interest", zap.Error(err))
		return domain.StaticData{
			StallLayouts: []domain.StallLayout{},
			POIs:         []domain.POI{},
		}
	}

	if layouts == nil {
		layouts = []domain.StallLayout{}
	}
	if pois == nil {
		pois = []domain.POI{}
	}

	zap.L().Info("static map data cached",
		zap.Int("stall_layouts", len(layouts)),
		zap.Int("pois", len(pois)))

	return domain.StaticData{StallLayouts: layouts, POIs: pois}
}

func (c *StaticCache) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	if c.conf.RetryInterval > 0 {
		b.InitialInterval = c.conf.RetryInterval
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.conf.Retries)), ctx)

	return backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		zap.L().Debug("retrying static map data fetch", zap.Error(err), zap.Duration("wait", wait))
	})
}
