package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/telemetry"
	log "github.com/sirupsen/logrus"
)

const cacheKeyPrefix = "ironlog"

// Cached resources. Keys are ironlog:<userID>:<resource>.
const (
	resourceExercises     = "exercises"
	resourcePlans         = "plans"
	resourceExerciseStats = "exercise-stats"
	resourceSessions      = "sessions"
	resourceProgress      = "progress"
	resourceOverview      = "overview"
)

// QueryCache is a best-effort read-through cache over domain.CacheRepository.
// A nil QueryCache, or one without a repository, always loads.
type QueryCache struct {
	repo    domain.CacheRepository
	ttl     time.Duration
	metrics *telemetry.Metrics
}

func NewQueryCache(repo domain.CacheRepository, ttl time.Duration, metrics *telemetry.Metrics) *QueryCache {
	return &QueryCache{repo: repo, ttl: ttl, metrics: metrics}
}

func cacheKey(userID string, parts ...string) string {
	return cacheKeyPrefix + ":" + userID + ":" + strings.Join(parts, ":")
}

// readThrough returns the cached value under key or loads and stores it.
// Cache failures are logged and never fail the call.
func readThrough[T any](ctx context.Context, c *QueryCache, resource, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.repo == nil {
		return load(ctx)
	}

	var cached T
	err := c.repo.Get(ctx, key, &cached)
	if err == nil {
		c.metrics.CacheLookup(ctx, resource, true)
		return cached, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		log.WithError(err).WithField("key", key).Warn("cache read failed")
	}
	c.metrics.CacheLookup(ctx, resource, false)

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := c.repo.Set(ctx, key, value, c.ttl); err != nil {
		log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
	return value, nil
}

// invalidate drops keys for a user. A part ending in "*" is a pattern.
func (c *QueryCache) invalidate(ctx context.Context, userID string, resources ...string) {
	if c == nil || c.repo == nil {
		return
	}

	var keys []string
	for _, r := range resources {
		key := cacheKey(userID, r)
		if strings.HasSuffix(r, "*") {
			if err := c.repo.DeleteByPattern(ctx, key); err != nil {
				log.WithError(err).WithField("pattern", key).Warn("cache invalidation failed")
			}
			continue
		}
		keys = append(keys, key)
	}

	if err := c.repo.Delete(ctx, keys...); err != nil {
		log.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
	}
}

// Invalidator maps each kind of write to the cached resources derived from it
type Invalidator struct {
	cache *QueryCache
}

func NewInvalidator(cache *QueryCache) *Invalidator {
	return &Invalidator{cache: cache}
}

// ExerciseChanged covers create, update and delete of an exercise. Names
// appear in day views and deletes rewrite plans, so both go too.
func (i *Invalidator) ExerciseChanged(ctx context.Context, userID, exerciseID string) {
	resources := []string{
		resourceExercises,
		resourceExerciseStats,
		resourcePlans,
		resourceSessions + ":*",
	}
	if exerciseID != "" {
		resources = append(resources, resourceProgress+":"+exerciseID)
	}
	i.cache.invalidate(ctx, userID, resources...)
}

// PlanChanged covers plan writes. Day views show plan names.
func (i *Invalidator) PlanChanged(ctx context.Context, userID string) {
	i.cache.invalidate(ctx, userID, resourcePlans, resourceSessions+":*")
}

// SessionChanged covers logging or deleting a session on date that touched
// the given exercises.
func (i *Invalidator) SessionChanged(ctx context.Context, userID, date string, exerciseIDs []string) {
	resources := []string{
		resourceSessions + ":" + date,
		resourceExerciseStats,
		resourceOverview + ":*",
	}
	seen := make(map[string]bool, len(exerciseIDs))
	for _, id := range exerciseIDs {
		if !seen[id] {
			seen[id] = true
			resources = append(resources, resourceProgress+":"+id)
		}
	}
	i.cache.invalidate(ctx, userID, resources...)
}

// SupplementChanged covers logging or deleting a supplement intake on date
func (i *Invalidator) SupplementChanged(ctx context.Context, userID, date string) {
	i.cache.invalidate(ctx, userID, resourceSessions+":"+date)
}
