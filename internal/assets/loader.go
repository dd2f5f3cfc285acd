// Package assets resolves tile image references for the map renderer.
//
// A reference is looked up in the registered atlases first, then decoded from
// the asset filesystem on a worker goroutine, and finally replaced by a
// generated placeholder when no file exists. Decoded images are uploaded and
// handed to waiting callers by Pump, which must run on the game loop.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"chosenoffset.com/campaignmap/internal/log"
	"chosenoffset.com/campaignmap/internal/placeholders"
	"chosenoffset.com/campaignmap/internal/render"
	"chosenoffset.com/campaignmap/internal/world/atlas"
)

const (
	DefaultWorkers   = 4
	DefaultCacheSize = 256
)

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the filesystem image references are resolved against.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) { l.fsys = fsys }
}

// WithRoot resolves image references against a directory on disk.
func WithRoot(dir string) Option {
	return WithFS(os.DirFS(dir))
}

// WithAtlases makes atlas tiles take precedence over files.
func WithAtlases(m *atlas.Manager) Option {
	return func(l *Loader) { l.atlases = m }
}

// WithWorkers bounds the number of concurrent decodes.
func WithWorkers(n int) Option {
	return func(l *Loader) { l.workers = n }
}

// WithCacheSize sets how many uploaded images are kept.
func WithCacheSize(n int) Option {
	return func(l *Loader) { l.cacheSize = n }
}

// WithTileSize sets the edge length of generated placeholders.
func WithTileSize(size int) Option {
	return func(l *Loader) { l.tileSize = size }
}

// WithLogger sets the loader's logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Loader) { l.logger = logger }
}

type decoded struct {
	ref string
	img image.Image
}

// Loader implements mapview.ImageSource. Request and Pump must be called from
// the same goroutine.
type Loader struct {
	renderer render.Renderer
	fsys     fs.FS
	atlases  *atlas.Manager
	logger   logrus.FieldLogger

	workers   int
	cacheSize int
	tileSize  int

	cache *ristretto.Cache[string, render.Image]
	sem   *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// waiting is only touched by the loop goroutine.
	waiting map[string][]func(render.Image)

	mu    sync.Mutex
	ready []decoded
}

// NewLoader creates a loader that uploads images through renderer.
func NewLoader(renderer render.Renderer, opts ...Option) (*Loader, error) {
	l := &Loader{
		renderer:  renderer,
		fsys:      os.DirFS("."),
		logger:    log.WithField("component", "assets"),
		workers:   DefaultWorkers,
		cacheSize: DefaultCacheSize,
		tileSize:  placeholders.DefaultTileSize,
		waiting:   make(map[string][]func(render.Image)),
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.workers <= 0 {
		return nil, fmt.Errorf("invalid worker count: %d", l.workers)
	}
	if l.cacheSize <= 0 {
		return nil, fmt.Errorf("invalid cache size: %d", l.cacheSize)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, render.Image]{
		NumCounters: int64(l.cacheSize) * 10,
		MaxCost:     int64(l.cacheSize),
		BufferItems: 64,
		// Costs count images, not bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}

	l.cache = cache
	l.sem = semaphore.NewWeighted(int64(l.workers))
	l.ctx, l.cancel = context.WithCancel(context.Background())
	return l, nil
}

// Request delivers the image for ref. Cached and atlas images are delivered
// before Request returns; others are delivered by a later Pump. Concurrent
// requests for one ref share a single decode.
func (l *Loader) Request(ref string, deliver func(img render.Image)) {
	if img, ok := l.cache.Get(ref); ok {
		deliver(img)
		return
	}

	if l.atlases != nil {
		if img, ok := l.atlases.Lookup(ref); ok {
			l.store(ref, img)
			deliver(img)
			return
		}
	}

	if l.ctx.Err() != nil {
		l.logger.Debugf("Dropping request for %s: loader closed", ref)
		return
	}

	if waiters, ok := l.waiting[ref]; ok {
		l.waiting[ref] = append(waiters, deliver)
		return
	}
	l.waiting[ref] = []func(render.Image){deliver}

	l.wg.Add(1)
	go l.decode(ref)
}

func (l *Loader) decode(ref string) {
	defer l.wg.Done()

	if err := l.sem.Acquire(l.ctx, 1); err != nil {
		return
	}
	defer l.sem.Release(1)

	img, err := l.readImage(ref)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.logger.Debugf("No image file for %s, using a placeholder", ref)
		img = placeholders.Tile(ref, l.tileSize)
	case err != nil:
		l.logger.WithError(err).Warnf("Failed to decode %s, using a placeholder", ref)
		img = placeholders.Tile(ref, l.tileSize)
	}

	l.mu.Lock()
	l.ready = append(l.ready, decoded{ref: ref, img: img})
	l.mu.Unlock()
}

func (l *Loader) readImage(ref string) (image.Image, error) {
	name := path.Clean(strings.TrimPrefix(ref, "/"))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid image reference %q: %w", ref, fs.ErrNotExist)
	}

	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// Pump uploads finished decodes and runs their callbacks. It returns the
// number of references resolved.
func (l *Loader) Pump() int {
	l.mu.Lock()
	ready := l.ready
	l.ready = nil
	l.mu.Unlock()

	for _, d := range ready {
		img := l.renderer.NewImageFromImage(d.img)
		l.store(d.ref, img)

		waiters := l.waiting[d.ref]
		delete(l.waiting, d.ref)
		for _, deliver := range waiters {
			deliver(img)
		}
	}
	return len(ready)
}

// Pending returns the number of references still being decoded.
func (l *Loader) Pending() int {
	return len(l.waiting)
}

// Wait blocks until every started decode has finished. Results still need a
// Pump to be delivered.
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) store(ref string, img render.Image) {
	l.cache.Set(ref, img, 1)
	l.cache.Wait()
}

// Close stops outstanding decodes and releases the cache. Requests after
// Close are dropped.
func (l *Loader) Close() error {
	l.cancel()
	l.wg.Wait()
	l.cache.Close()
	return nil
}
