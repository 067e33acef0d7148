package frame

import (
	"image"
	"sync"
)

// MaxScratchSizes bounds the number of distinct buffer sizes the shared pool
// keeps. Sizes beyond it are allocated and left to the garbage collector.
const MaxScratchSizes = 64

// ScratchPool recycles *image.RGBA buffers used for short-lived intermediates
// such as the scaled picture of a zoom transition. Buffers taken from the pool
// hold stale pixels and must be fully overwritten before use. They are never
// wrapped into a Frame.
type ScratchPool struct {
	pools map[image.Rectangle]*sync.Pool
	limit int
	mu    sync.RWMutex
}

func NewScratchPool(limit int) *ScratchPool {
	return &ScratchPool{
		pools: make(map[image.Rectangle]*sync.Pool),
		limit: limit,
	}
}

var scratch = NewScratchPool(MaxScratchSizes)

// GetScratch returns a buffer of exactly rect from the shared pool.
func GetScratch(rect image.Rectangle) *image.RGBA {
	return scratch.Get(rect)
}

// PutScratch hands a buffer obtained from GetScratch back to the shared pool.
func PutScratch(img *image.RGBA) {
	scratch.Put(img)
}

// ScratchSizes reports how many buffer sizes the shared pool holds.
func ScratchSizes() int {
	return scratch.Sizes()
}

func (p *ScratchPool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[rect]
		if !exists && len(p.pools) >= p.limit {
			p.mu.Unlock()
			return image.NewRGBA(rect)
		}
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *ScratchPool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

// Sizes reports how many distinct buffer sizes are pooled.
func (p *ScratchPool) Sizes() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.pools)
}
