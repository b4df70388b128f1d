package preview

import (
	"container/list"
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/keagan/vibecut/internal/assets"
	"github.com/keagan/vibecut/internal/ffmpeg"
)

// maxConcurrentExtractions caps simultaneous ffmpeg frame decodes.
const maxConcurrentExtractions = 6

// cacheCapacity is the LRU frame cache size. At ~8 MB per 1080x1920
// frame this keeps the cache under half a gigabyte.
const cacheCapacity = 48

// frameQuantum snaps requested times to a grid so scrubbing nearby
// positions hits the cache.
const frameQuantum = 1.0 / 30

// FrameCache is an ffmpeg-backed element.FrameSource with an LRU cache.
// Single renderer goroutine writes; eviction is LRU; the extraction
// semaphore bounds ffmpeg child processes.
type FrameCache struct {
	exec  *ffmpeg.Executor
	index *assets.Index
	log   zerolog.Logger

	mu    sync.Mutex
	cache map[string]*list.Element
	order *list.List // front = most recent

	sem chan struct{}
}

type cacheEntry struct {
	key string
	img *image.RGBA
}

// NewFrameCache builds the preview frame source.
func NewFrameCache(exec *ffmpeg.Executor, index *assets.Index, log zerolog.Logger) *FrameCache {
	return &FrameCache{
		exec:  exec,
		index: index,
		log:   log.With().Str("component", "framecache").Logger(),
		cache: make(map[string]*list.Element),
		order: list.New(),
		sem:   make(chan struct{}, maxConcurrentExtractions),
	}
}

// Frame returns the asset's frame at source time t, or nil when the asset
// is unknown or decode fails. The renderer treats nil as "draw nothing
// this frame".
func (fc *FrameCache) Frame(assetID string, t float64, w, h int) *image.RGBA {
	a := fc.index.Get(assetID)
	if a == nil {
		return nil
	}
	return fc.fetch(a.RenderPath(), t, w, h)
}

// MaskFrame is Frame for the asset's cutout mask video.
func (fc *FrameCache) MaskFrame(assetID string, t float64, w, h int) *image.RGBA {
	a := fc.index.Get(assetID)
	if a == nil || a.MaskPath == "" {
		return nil
	}
	return fc.fetch(a.MaskPath, t, w, h)
}

func (fc *FrameCache) fetch(path string, t float64, w, h int) *image.RGBA {
	qt := math.Floor(t/frameQuantum) * frameQuantum
	key := fmt.Sprintf("%s@%.4f:%dx%d", path, qt, w, h)

	fc.mu.Lock()
	if el, ok := fc.cache[key]; ok {
		fc.order.MoveToFront(el)
		img := el.Value.(*cacheEntry).img
		fc.mu.Unlock()
		return img
	}
	fc.mu.Unlock()

	fc.sem <- struct{}{}
	img, err := fc.exec.ExtractFrame(context.Background(), path, qt, w, h)
	<-fc.sem
	if err != nil {
		fc.log.Debug().Err(err).Str("path", path).Float64("t", qt).Msg("frame decode failed")
		return nil
	}

	fc.mu.Lock()
	fc.cache[key] = fc.order.PushFront(&cacheEntry{key: key, img: img})
	for fc.order.Len() > cacheCapacity {
		last := fc.order.Back()
		fc.order.Remove(last)
		delete(fc.cache, last.Value.(*cacheEntry).key)
	}
	fc.mu.Unlock()
	return img
}
