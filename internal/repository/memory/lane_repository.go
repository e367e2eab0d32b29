package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// LaneRepository hands out one single-slot lane per conversation so turns
// that append to the same conversation run one at a time.
type LaneRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewLaneRepository() *LaneRepository {
	// Idle lanes expire after an hour, purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &LaneRepository{
		cache: c,
	}
}

func (r *LaneRepository) lane(key string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lane chan struct{}
	if x, found := r.cache.Get(key); found {
		lane = x.(chan struct{})
	} else {
		lane = make(chan struct{}, 1)
	}
	// Touch on every use so a busy lane never expires.
	r.cache.Set(key, lane, cache.DefaultExpiration)
	return lane
}

func (r *LaneRepository) Acquire(ctx context.Context, key string) (func(), error) {
	lane := r.lane(key)
	select {
	case lane <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-lane }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
