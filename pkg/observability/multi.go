package observability

import (
	"context"
	"time"
)

// Multi fans every event out to each set in order. Nil fields are skipped.
func Multi(sets ...Set) Set {
	var (
		ah multiAllocator
		ph multiPipeline
		ch multiCache
		hh multiHTTP
	)
	for _, s := range sets {
		if s.Allocator != nil {
			ah = append(ah, s.Allocator)
		}
		if s.Pipeline != nil {
			ph = append(ph, s.Pipeline)
		}
		if s.Cache != nil {
			ch = append(ch, s.Cache)
		}
		if s.HTTP != nil {
			hh = append(hh, s.HTTP)
		}
	}
	return Set{Allocator: ah, Pipeline: ph, Cache: ch, HTTP: hh}
}

type multiAllocator []AllocatorHooks

func (m multiAllocator) OnPhaseStart(ctx context.Context, phase string) context.Context {
	for _, h := range m {
		ctx = h.OnPhaseStart(ctx, phase)
	}
	return ctx
}

func (m multiAllocator) OnPhaseComplete(ctx context.Context, phase string, d time.Duration, err error) {
	for _, h := range m {
		h.OnPhaseComplete(ctx, phase, d, err)
	}
}

func (m multiAllocator) OnLayerClosed(ctx context.Context, layer, candidates, instructions int) {
	for _, h := range m {
		h.OnLayerClosed(ctx, layer, candidates, instructions)
	}
}

type multiPipeline []PipelineHooks

func (m multiPipeline) OnAllocateStart(ctx context.Context, allocator, arch string) context.Context {
	for _, h := range m {
		ctx = h.OnAllocateStart(ctx, allocator, arch)
	}
	return ctx
}

func (m multiPipeline) OnAllocateComplete(ctx context.Context, allocator, arch string, stats AllocationStats, d time.Duration, err error) {
	for _, h := range m {
		h.OnAllocateComplete(ctx, allocator, arch, stats, d, err)
	}
}

type multiCache []CacheHooks

func (m multiCache) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m multiCache) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m multiCache) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}

type multiHTTP []HTTPHooks

func (m multiHTTP) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	for _, h := range m {
		h.OnResponse(ctx, method, route, status, d)
	}
}
