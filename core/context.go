package core

import "context"

type cacheKeyCtxKey struct{}

// WithCacheKey returns a copy of ctx carrying the run's cache key. Agents
// that memoize model calls use it to scope their cache to a scenario.
func WithCacheKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, cacheKeyCtxKey{}, key)
}

// CacheKeyFromContext returns the cache key stored by WithCacheKey.
func CacheKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(cacheKeyCtxKey{}).(string)
	return key, ok
}
