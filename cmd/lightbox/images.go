package main

import (
	"context"
	"image"
	"log"
	"runtime"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"lightbox/internal/gallery"
)

type loadKind int

const (
	loadThumbnail loadKind = iota
	loadFull
)

// loadRequest asks a worker to decode one image
type loadRequest struct {
	kind loadKind
	path gallery.ImagePath
}

type loadResult struct {
	loadRequest
	img image.Image
	err error
}

// ImageStore decodes thumbnails and full-size images in the background and keeps
// the GPU images in two LRU caches keyed by locator.
// Requests and Collect run on the game goroutine; only decoding happens elsewhere.
type ImageStore struct {
	thumbs    *lru.Cache[string, *ebiten.Image]
	full      *lru.Cache[string, *ebiten.Image]
	thumbSize int

	fullRequests  chan loadRequest
	thumbRequests chan loadRequest
	results       chan loadResult

	pending map[string]bool // keyed by cacheKey
	ctx     context.Context
	cancel  context.CancelFunc
	group   *errgroup.Group
	mu      sync.Mutex
	stats   StoreStats
}

// StoreStats counts decode outcomes
type StoreStats struct {
	Loaded int
	Failed int
}

func newImageCache(size int) *lru.Cache[string, *ebiten.Image] {
	cache, err := lru.NewWithEvict[string, *ebiten.Image](size, func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	})
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		cache, _ = lru.NewWithEvict[string, *ebiten.Image](16, func(_ string, img *ebiten.Image) {
			if img != nil {
				img.Deallocate()
			}
		})
	}
	return cache
}

// NewImageStore creates the caches and starts the decoding workers
func NewImageStore(cacheSize, thumbCacheSize, thumbSize, workers int) *ImageStore {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	s := &ImageStore{
		thumbs:        newImageCache(thumbCacheSize),
		full:          newImageCache(cacheSize),
		thumbSize:     thumbSize,
		fullRequests:  make(chan loadRequest, 4),
		thumbRequests: make(chan loadRequest, 256),
		results:       make(chan loadResult, 256),
		pending:       make(map[string]bool),
		ctx:           gctx,
		cancel:        cancel,
		group:         g,
	}
	for i := 0; i < workers; i++ {
		g.Go(s.worker)
	}
	return s
}

// Stop cancels the workers and waits for them
func (s *ImageStore) Stop() {
	s.cancel()
	_ = s.group.Wait()
}

// Stats returns the decode counters
func (s *ImageStore) Stats() StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func cacheKey(kind loadKind, path gallery.ImagePath) string {
	if kind == loadThumbnail {
		return "thumb:" + path.Locator()
	}
	return "full:" + path.Locator()
}

// Thumbnail returns the cached thumbnail for path, queueing a load on a miss
func (s *ImageStore) Thumbnail(path gallery.ImagePath) *ebiten.Image {
	if img, ok := s.thumbs.Get(path.Locator()); ok {
		return img
	}
	s.request(s.thumbRequests, loadRequest{kind: loadThumbnail, path: path})
	return nil
}

// Full returns the cached full-size image for path, queueing a load on a miss
func (s *ImageStore) Full(path gallery.ImagePath) *ebiten.Image {
	if img, ok := s.full.Get(path.Locator()); ok {
		return img
	}
	s.request(s.fullRequests, loadRequest{kind: loadFull, path: path})
	return nil
}

func (s *ImageStore) request(ch chan loadRequest, req loadRequest) {
	key := cacheKey(req.kind, req.path)
	if s.pending[key] {
		return
	}
	select {
	case ch <- req:
		s.pending[key] = true
	default:
		// Queue is full; the next frame asks again
	}
}

// DropQueuedThumbnails forgets queued thumbnail loads, e.g. after a scroll jump
func (s *ImageStore) DropQueuedThumbnails() {
drain:
	for {
		select {
		case req := <-s.thumbRequests:
			delete(s.pending, cacheKey(req.kind, req.path))
		default:
			break drain
		}
	}
}

// Collect moves finished decodes into the caches. Call it once per Update.
func (s *ImageStore) Collect() {
	for {
		select {
		case res := <-s.results:
			s.store(res)
		default:
			return
		}
	}
}

func (s *ImageStore) store(res loadResult) {
	delete(s.pending, cacheKey(res.kind, res.path))
	cache := s.full
	if res.kind == loadThumbnail {
		cache = s.thumbs
	}

	if res.err != nil {
		log.Printf("Error: Failed to load image %s: %v", res.path.Path, res.err)
		w, h := 400, 300
		if res.kind == loadThumbnail {
			w, h = s.thumbSize, s.thumbSize
		}
		cache.Add(res.path.Locator(), CreateErrorImage(w, h, res.path.Path, res.err.Error()))
		return
	}

	cache.Add(res.path.Locator(), ebiten.NewImageFromImage(res.img))

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	debugLog("Loaded %s (thumbs: %d, full: %d, memory: %dMB)",
		res.path.Locator(), s.thumbs.Len(), s.full.Len(), mem.Alloc/1024/1024)
}

// worker decodes requests until the store stops. Full-size requests go first.
func (s *ImageStore) worker() error {
	for {
		var req loadRequest
		select {
		case req = <-s.fullRequests:
		default:
			select {
			case <-s.ctx.Done():
				return nil
			case req = <-s.fullRequests:
			case req = <-s.thumbRequests:
			}
		}

		res := loadResult{loadRequest: req}
		res.img, res.err = gallery.DecodeImage(req.path)
		if res.err == nil && req.kind == loadThumbnail {
			res.img = fitThumbnail(res.img, s.thumbSize)
		}

		s.mu.Lock()
		if res.err != nil {
			s.stats.Failed++
		} else {
			s.stats.Loaded++
		}
		s.mu.Unlock()

		select {
		case s.results <- res:
		case <-s.ctx.Done():
			return nil
		}
	}
}

// thumbnailSize returns the size of a w x h image scaled down to fit a box x box square
func thumbnailSize(w, h, box int) (int, int) {
	if w <= box && h <= box {
		return w, h
	}
	scale := calculateFitScale(w, h, box, box)
	tw, th := int(float64(w)*scale), int(float64(h)*scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th
}

func fitThumbnail(img image.Image, box int) image.Image {
	b := img.Bounds()
	w, h := thumbnailSize(b.Dx(), b.Dy(), box)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
