// Package mapview draws a campaign map onto a render.Context with fog of war.
//
// Each tile is drawn in one of three modes: visible tiles show their image,
// hidden tiles next to a visible tile show a partial reveal faded towards the
// visible side, and all other hidden tiles are cleared. Single-tile redraws
// cascade one level into hidden neighbours because their fade depends on the
// redrawn tile.
package mapview

import (
	"image"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/campaignmap/internal/log"
	"chosenoffset.com/campaignmap/internal/render"
	"chosenoffset.com/campaignmap/internal/world/campaign"
)

const (
	DefaultTileSize   = 50
	DefaultFadeRadius = 5
)

// ImageSource resolves tile image references. Deliver may be called before
// Request returns or later on the same goroutine as the renderer.
type ImageSource interface {
	Request(ref string, deliver func(img render.Image))
}

// Mode is how a tile was last drawn.
type Mode int

const (
	ModeCulled Mode = iota
	ModeVisible
	ModeFaded
	ModeHidden
)

func (m Mode) String() string {
	switch m {
	case ModeCulled:
		return "culled"
	case ModeVisible:
		return "visible"
	case ModeFaded:
		return "faded"
	case ModeHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTileSize sets the edge length of a tile in pixels.
func WithTileSize(size int) Option {
	return func(r *Renderer) { r.tileSize = size }
}

// WithFadeRadius sets how far inner-corner fades are nudged off the tile centre.
func WithFadeRadius(radius int) Option {
	return func(r *Renderer) { r.fadeRadius = radius }
}

// WithLogger sets the logger used for draw tracing.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// Renderer draws a campaign map onto a single drawing context. It is not safe
// for concurrent use.
type Renderer struct {
	ctx     render.Context
	gameMap *campaign.Map
	images  ImageSource
	logger  logrus.FieldLogger

	tileSize   int
	fadeRadius int

	offset   image.Point
	viewport image.Point

	// generation is bumped by every full render; paints[t] by every draw of t.
	// Deliveries carrying older values are dropped.
	generation uint64
	paints     map[*campaign.Tile]uint64
}

// NewRenderer creates a renderer for gameMap drawing into ctx.
func NewRenderer(ctx render.Context, gameMap *campaign.Map, images ImageSource, opts ...Option) *Renderer {
	r := &Renderer{
		ctx:        ctx,
		gameMap:    gameMap,
		images:     images,
		logger:     log.WithField("component", "mapview"),
		tileSize:   DefaultTileSize,
		fadeRadius: DefaultFadeRadius,
		paints:     make(map[*campaign.Tile]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetContext retargets the renderer, for instance after the surface was
// resized. Paints still in flight are dropped; call RenderFull or
// RenderCentered to repaint.
func (r *Renderer) SetContext(ctx render.Context) {
	r.ctx = ctx
	r.Invalidate()
}

// Invalidate drops every paint still waiting for its image.
func (r *Renderer) Invalidate() {
	r.generation++
}

// TileSize returns the tile edge length in pixels.
func (r *Renderer) TileSize() int { return r.tileSize }

// Offset returns the grid shift applied before projecting tiles to pixels.
func (r *Renderer) Offset() image.Point { return r.offset }

// Viewport returns how many whole tiles fit the surface, as of the last full render.
func (r *Renderer) Viewport() image.Point { return r.viewport }

// RenderFull redraws the whole map anchored at the map origin.
func (r *Renderer) RenderFull() {
	r.renderFull(image.Point{}, false)
}

// RenderCentered redraws the whole map with center near the middle of the view.
func (r *Renderer) RenderCentered(center image.Point) {
	r.renderFull(center, true)
}

func (r *Renderer) renderFull(center image.Point, centered bool) {
	w, h := r.ctx.Size()
	r.viewport = image.Pt(w/r.tileSize, h/r.tileSize)

	if centered {
		// The -1 keeps an even viewport biased towards the top-left.
		r.offset = image.Pt(
			-(center.X - (r.viewport.X/2 - 1)),
			-(center.Y - (r.viewport.Y/2 - 1)),
		)
	} else {
		r.offset = image.Point{}
	}

	r.logger.WithFields(logrus.Fields{
		"viewport": r.viewport,
		"offset":   r.offset,
	}).Debug("Rendering map")

	r.generation++
	r.ctx.Clear()
	r.gameMap.Each(func(t *campaign.Tile) {
		r.RenderTile(t, false)
	})
}

// RenderTile redraws t. With cascade set, hidden neighbours of t are redrawn
// too (without cascading further) since their fade may depend on t.
func (r *Renderer) RenderTile(t *campaign.Tile, cascade bool) Mode {
	mode := r.drawTile(t)
	if cascade {
		r.cascade(t)
	}
	return mode
}

// RenderTileAt redraws the tile at map position (x, y) with cascade.
// Positions off the map are ignored.
func (r *Renderer) RenderTileAt(x, y int) {
	if t := r.gameMap.Tile(x, y); t != nil {
		r.RenderTile(t, true)
	}
}

// RenderTileAtScreen redraws the tile under surface pixel (px, py) with cascade.
func (r *Renderer) RenderTileAtScreen(px, py int) {
	p := r.ScreenToTile(px, py)
	r.RenderTileAt(p.X, p.Y)
}

func (r *Renderer) drawTile(t *campaign.Tile) Mode {
	if !r.onScreen(t) {
		r.logger.Debugf("Not drawing tile %s: outside the view", t)
		return ModeCulled
	}

	r.logger.Debugf("Drawing tile %s visible=%t", t, t.Visible)

	switch {
	case t.Visible:
		r.drawVisible(t)
		return ModeVisible
	case r.gameMap.HasVisibleNeighbor(t):
		r.drawFaded(t)
		return ModeFaded
	default:
		r.drawHidden(t)
		return ModeHidden
	}
}

func (r *Renderer) cascade(t *campaign.Tile) {
	for _, n := range r.gameMap.Neighbors(t) {
		if n == nil || n.Visible {
			continue
		}
		r.drawTile(n)
	}
}

func (r *Renderer) onScreen(t *campaign.Tile) bool {
	cell := image.Pt(t.X(), t.Y()).Add(r.offset)
	return cell.In(image.Rectangle{Max: r.viewport})
}

// tileRect returns the surface rectangle currently covered by t.
func (r *Renderer) tileRect(t *campaign.Tile) image.Rectangle {
	origin := r.MapToScreen(t.X(), t.Y())
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(r.tileSize, r.tileSize))}
}

// beginPaint marks a new paint of t and returns a check that reports whether
// that paint is still the latest one.
func (r *Renderer) beginPaint(t *campaign.Tile) func() bool {
	r.paints[t]++
	seq, gen := r.paints[t], r.generation
	return func() bool {
		return r.paints[t] == seq && r.generation == gen
	}
}

func (r *Renderer) drawVisible(t *campaign.Tile) {
	rect := r.tileRect(t)
	current := r.beginPaint(t)

	r.images.Request(t.Image(), func(img render.Image) {
		if !current() {
			return
		}
		r.ctx.ClearRect(rect)
		r.ctx.SetCompositeMode(render.CompositeSourceOver)
		r.ctx.DrawImage(img, rect.Min.X, rect.Min.Y)
	})
}

func (r *Renderer) drawFaded(t *campaign.Tile) {
	rect := r.tileRect(t)
	current := r.beginPaint(t)
	paints := FadePaints(rect, r.gameMap.Neighbors(t).Visibility(), r.fadeRadius)

	for _, p := range paints {
		r.logger.Debugf("Fading tile %s: %s %s", t, p.Kind, p.Toward)
	}

	r.images.Request(t.Image(), func(img render.Image) {
		if !current() {
			return
		}
		r.ctx.ClearRect(rect)

		r.ctx.SetCompositeMode(render.CompositeSourceOver)
		for _, p := range paints {
			r.ctx.FillRect(rect, p.Gradient)
		}

		r.ctx.SetCompositeMode(render.CompositeSourceAtop)
		r.ctx.DrawImage(img, rect.Min.X, rect.Min.Y)
		r.ctx.SetCompositeMode(render.CompositeSourceOver)
	})
}

func (r *Renderer) drawHidden(t *campaign.Tile) {
	rect := r.tileRect(t)
	r.beginPaint(t)
	r.ctx.ClearRect(rect)
}

// MapToScreen returns the surface pixel of the top-left corner of map cell (x, y).
func (r *Renderer) MapToScreen(x, y int) image.Point {
	return image.Pt(x, y).Add(r.offset).Mul(r.tileSize)
}

// ScreenToMap returns the view cell containing surface pixel (px, py). The
// result is in view cells and does not account for the offset.
func (r *Renderer) ScreenToMap(px, py int) image.Point {
	return image.Pt(floorDiv(px, r.tileSize), floorDiv(py, r.tileSize))
}

// ScreenToTile returns the map position under surface pixel (px, py).
func (r *Renderer) ScreenToTile(px, py int) image.Point {
	return r.ScreenToMap(px, py).Sub(r.offset)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
