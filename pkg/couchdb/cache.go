package couchdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// CacheEntry is one cached response. ETag carries the response ETag, which
// for document reads is the revision string and enables If-None-Match
// revalidation.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ETag      string    `json:"etag,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry's TTL has passed.
func (e *CacheEntry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Cache is a pluggable response-cache backend.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheOptions are common options applied to any backend.
type CacheOptions struct {
	// DefaultTTL is applied to entries stored without an explicit expiry.
	DefaultTTL time.Duration
}

// DefaultCacheOptions returns the default common cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		DefaultTTL: 5 * time.Minute,
	}
}

// MemoryCache is an in-process cache with a size cap and TTL eviction.
type MemoryCache struct {
	mu          sync.RWMutex
	entries     map[string]*CacheEntry
	maxSize     int
	stopCleanup chan struct{}
}

// NewMemoryCache creates a new in-memory cache holding at most maxSize
// entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the entry for key, or an error if it is absent or expired.
func (c *MemoryCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired() {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores an entry, evicting the entry closest to expiry when the cache
// is full.
func (c *MemoryCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOne()
	}

	c.entries[key] = entry

	return nil
}

// evictOne removes the entry with the earliest expiry. Caller holds the lock.
func (c *MemoryCache) evictOne() {
	var (
		oldestKey string
		oldestAt  time.Time
	)

	for key, entry := range c.entries {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Delete removes the entry for key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mu.Unlock()

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(_ context.Context, key string) bool {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	return ok && !entry.Expired()
}

// Cleanup removes all expired entries. It is safe to call from a background
// goroutine.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)
		}
	}
}

// StartCleanup starts a background loop that sweeps expired entries every
// interval until Close is called. Calling it again while a loop is running
// is a no-op.
func (c *MemoryCache) StartCleanup(interval time.Duration) {
	c.mu.Lock()
	if c.stopCleanup != nil {
		c.mu.Unlock()

		return
	}

	stop := make(chan struct{})
	c.stopCleanup = stop
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}

// Close stops the cleanup loop. Safe to call more than once.
func (c *MemoryCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopCleanup != nil {
		close(c.stopCleanup)
		c.stopCleanup = nil
	}
}

// CacheManager keys and stores responses in a backend on behalf of the
// caching interceptor.
type CacheManager struct {
	cache  Cache
	logger Logger
}

// NewCacheManager creates a cache manager over a backend. The logger may be
// nil.
func NewCacheManager(cache Cache, logger Logger) *CacheManager {
	return &CacheManager{cache: cache, logger: logger}
}

// GetCacheKey builds a deterministic cache key from the method, path, and
// query parameters.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	if len(params) == 0 {
		return method + ":" + path
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, key := range keys {
		pairs[i] = key + "=" + params[key]
	}

	return method + ":" + path + ":" + strings.Join(pairs, "&")
}

// Get returns the cached entry for a request, or nil when absent.
func (m *CacheManager) Get(ctx context.Context, key string) *CacheEntry {
	if m.cache == nil {
		return nil
	}

	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		return nil
	}

	return entry
}

// Set stores a response under the request's key.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) {
	if m.cache == nil {
		return
	}

	entry := &CacheEntry{
		Data:      data,
		ETag:      etag,
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := m.cache.Set(ctx, key, entry); err != nil && m.logger != nil {
		m.logger.Warn("failed to cache response", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Invalidate drops the entry for a key, used after writes.
func (m *CacheManager) Invalidate(ctx context.Context, key string) {
	if m.cache == nil {
		return
	}

	_ = m.cache.Delete(ctx, key)
}

// CachingPolicy controls what the caching interceptor stores.
type CachingPolicy struct {
	// TTL bounds how long responses are served from cache.
	TTL time.Duration

	// ExcludePrefixes lists path prefixes never cached (e.g. "/_session").
	ExcludePrefixes []string
}

// DefaultCachingPolicy caches GET responses for a short window and never
// caches session state.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		TTL:             1 * time.Minute,
		ExcludePrefixes: []string{"/_session", "/_active_tasks", "/_up"},
	}
}

func (p *CachingPolicy) cacheable(req *Request) bool {
	if req.Method != "GET" {
		return false
	}

	for _, prefix := range p.ExcludePrefixes {
		if strings.HasPrefix(req.Path, prefix) {
			return false
		}
	}

	return true
}

// CacheInterceptor returns the request/response interceptor pair that caches
// GET responses. The request interceptor attaches the cached ETag as
// If-None-Match so the server can answer 304; the response interceptor
// substitutes the cached body on a 304 and stores fresh 200 bodies.
func CacheInterceptor(manager *CacheManager, policy *CachingPolicy) (RequestInterceptor, ResponseInterceptor) {
	if policy == nil {
		policy = DefaultCachingPolicy()
	}

	requestInterceptor := func(ctx context.Context, req *Request) error {
		if !policy.cacheable(req) {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, flattenQuery(req))

		entry := manager.Get(ctx, key)
		if entry == nil || entry.ETag == "" {
			return nil
		}

		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}

		if _, ok := req.Headers["If-None-Match"]; !ok {
			req.Headers["If-None-Match"] = entry.ETag
		}

		return nil
	}

	responseInterceptor := func(ctx context.Context, req *Request, resp *Response) error {
		if !policy.cacheable(req) {
			return nil
		}

		if resp.StatusCode == 304 {
			// The server confirmed the cached copy is current; hand the
			// stored body back so callers decode a normal envelope.
			if data, ok := manager.CachedResponse(ctx, req); ok {
				resp.StatusCode = 200
				resp.Status = "200 OK"
				resp.Body = data
			}

			return nil
		}

		if resp.StatusCode != 200 || resp.Body == nil {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, flattenQuery(req))
		manager.Set(ctx, key, resp.Body, resp.Headers.Get("ETag"), policy.TTL)

		return nil
	}

	return requestInterceptor, responseInterceptor
}

// CachedResponse returns the stored body for a request that was answered
// with 304 Not Modified.
func (m *CacheManager) CachedResponse(ctx context.Context, req *Request) ([]byte, bool) {
	key := m.GetCacheKey(req.Method, req.Path, flattenQuery(req))

	entry := m.Get(ctx, key)
	if entry == nil {
		return nil, false
	}

	return entry.Data, true
}

func flattenQuery(req *Request) map[string]string {
	if len(req.Query) == 0 {
		return nil
	}

	params := make(map[string]string, len(req.Query))
	for key, values := range req.Query {
		params[key] = strings.Join(values, ",")
	}

	return params
}

// marshalEntry and unmarshalEntry are shared by serializing backends.
func marshalEntry(entry *CacheEntry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshaling cache entry: %w", err)
	}

	return data, nil
}

func unmarshalEntry(data []byte) (*CacheEntry, error) {
	var entry CacheEntry

	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling cache entry: %w", err)
	}

	return &entry, nil
}
