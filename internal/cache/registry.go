// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/wevbarker/sauron/internal/finder"
	"github.com/wevbarker/sauron/internal/logging"
	"github.com/wevbarker/sauron/internal/metrics"
	"github.com/wevbarker/sauron/pkg/types"
)

// Lookup kinds, used as key prefixes and metric labels.
const (
	KindProfile     = "profile"
	KindInstitution = "institution"
)

// Registry is a read-through cache in front of another Registry. Profile
// and institution-name lookups are served from Store when fresh; name
// search and membership listing always go to the wrapped registry.
// Store failures are logged and treated as misses.
type Registry struct {
	finder.Registry

	Store   Store
	TTL     time.Duration
	Metrics *metrics.Metrics
}

// NewRegistry wraps inner with store.
func NewRegistry(inner finder.Registry, store Store, ttl time.Duration, m *metrics.Metrics) *Registry {
	return &Registry{Registry: inner, Store: store, TTL: ttl, Metrics: m}
}

// GetAuthorProfile returns the cached profile for canonicalID or fetches
// and stores it.
func (r *Registry) GetAuthorProfile(ctx context.Context, canonicalID string) (types.AuthorProfile, error) {
	key := KindProfile + ":" + canonicalID
	if data, ok := r.get(ctx, KindProfile, key); ok {
		var p types.AuthorProfile
		if err := yaml.Unmarshal(data, &p); err == nil {
			return p, nil
		}
		logger := logging.FromContext(ctx)
		logger.Warn().Str("key", key).Msg("discarding unreadable cache entry")
	}

	p, err := r.Registry.GetAuthorProfile(ctx, canonicalID)
	if err != nil {
		return p, err
	}
	if data, err := yaml.Marshal(p); err == nil {
		r.put(ctx, key, data)
	}
	return p, nil
}

// GetInstitutionName returns the cached name for ref or fetches and
// stores it. Failed lookups are not cached.
func (r *Registry) GetInstitutionName(ctx context.Context, ref types.InstitutionRef) (string, error) {
	key := KindInstitution + ":" + string(ref)
	if data, ok := r.get(ctx, KindInstitution, key); ok && len(data) > 0 {
		return string(data), nil
	}

	name, err := r.Registry.GetInstitutionName(ctx, ref)
	if err != nil {
		return "", err
	}
	r.put(ctx, key, []byte(name))
	return name, nil
}

func (r *Registry) get(ctx context.Context, kind, key string) ([]byte, bool) {
	data, ok, err := r.Store.Get(ctx, key)
	switch {
	case err != nil:
		r.Metrics.ObserveCache(kind, "error")
		logger := logging.FromContext(ctx)
		logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	case !ok:
		r.Metrics.ObserveCache(kind, "miss")
		return nil, false
	}
	r.Metrics.ObserveCache(kind, "hit")
	return data, true
}

func (r *Registry) put(ctx context.Context, key string, data []byte) {
	if err := r.Store.Put(ctx, key, data, r.TTL); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
