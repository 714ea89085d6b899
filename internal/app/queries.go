package app

import (
	"context"
	"fmt"
	"time"

	"eiendom_showcase/internal/domain"
)

const listKey = "properties:all"

func propertyKey(id string) string { return fmt.Sprintf("property:%s", id) }

type QueryService struct {
	loader   domain.PropertyLoader
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService wires a loader behind an optional cache. A nil cache disables caching.
func NewQueryService(l domain.PropertyLoader, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{loader: l, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	var out []domain.Property
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, listKey, &out); ok {
			return out, nil
		}
	}
	ps, err := s.loader.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []domain.Property{}
	}

	// copy so callers mutating the result can't touch the loader's snapshot
	out = make([]domain.Property, len(ps))
	copy(out, ps)

	if s.cache != nil {
		_ = s.cache.Set(ctx, listKey, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *QueryService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	key := propertyKey(id)
	var p domain.Property
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &p); ok {
			return p, nil
		}
	}
	p, err := s.loader.GetByID(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	}
	return p, nil
}

// Invalidate drops the listing and the given detail entries.
func (s *QueryService) Invalidate(ctx context.Context, ids ...string) {
	invalidate(ctx, s.cache, ids...)
}

func invalidate(ctx context.Context, c domain.Cache, ids ...string) {
	if c == nil {
		return
	}
	_ = c.Del(ctx, listKey)
	for _, id := range ids {
		_ = c.Del(ctx, propertyKey(id))
	}
}
