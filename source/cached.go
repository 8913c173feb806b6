// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// DefaultCacheSize is the number of steps Cached keeps.
const DefaultCacheSize = 64

// Cached memoizes an idempotent Source. Hits and concurrent callers receive
// independent copies of the ensemble.
type Cached struct {
	inner Source
	cache *lru.Cache[int, *spectrum.Ensemble]
	group singleflight.Group
}

// NewCached wraps inner with an LRU of size entries (DefaultCacheSize if ≤ 0).
func NewCached(inner Source, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[int, *spectrum.Ensemble](size)
	if err != nil {
		return nil, fmt.Errorf("source: NewCached: %w", err)
	}

	return &Cached{inner: inner, cache: c}, nil
}

// Fetch returns the cached ensemble of step or loads it once from the inner
// source. Errors are not cached.
//
// The shared load is detached from the cancellation of whichever caller
// started it; a cancelled caller returns ctx.Err() on its own while the
// others keep waiting for the result.
func (c *Cached) Fetch(ctx context.Context, step int) (*spectrum.Ensemble, error) {
	if e, ok := c.cache.Get(step); ok {
		return e.Clone(), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.Itoa(step), func() (interface{}, error) {
		e, err := c.inner.Fetch(shared, step)
		if err != nil {
			return nil, err
		}
		c.cache.Add(step, e)

		return e, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(*spectrum.Ensemble).Clone(), nil
	}
}

// Len returns the number of cached steps.
func (c *Cached) Len() int { return c.cache.Len() }
