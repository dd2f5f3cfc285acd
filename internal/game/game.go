// Package game hosts a campaign map in the engine loop: it owns the drawing
// surface, routes clicks to the map and draws the grid overlay and HUD.
package game

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/campaignmap/internal/input"
	"chosenoffset.com/campaignmap/internal/log"
	"chosenoffset.com/campaignmap/internal/render"
	"chosenoffset.com/campaignmap/internal/render/mapview"
	"chosenoffset.com/campaignmap/internal/world/campaign"
)

const messageDuration = 3.0

// Game holds the map, its view and the UI state.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Map          *campaign.Map
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Images       ImageSource
	Clicks       *input.ClickHandler
	MapView      *mapview.Renderer
	Surface      render.Image

	// Centre of the last recentre; only used while centered is set.
	center   image.Point
	centered bool

	// UI state
	Messages []Message

	logger logrus.FieldLogger
}

// New creates a game showing m and renders it once.
func New(r render.Renderer, inputMgr render.InputManager, images ImageSource, m *campaign.Map, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "game")
	}

	g := &Game{
		ScreenWidth:  opts.Width,
		ScreenHeight: opts.Height,
		Map:          m,
		Renderer:     r,
		InputMgr:     inputMgr,
		Images:       images,
		logger:       logger,
	}

	clickOpts := []input.Option{input.WithLogger(logger)}
	if opts.Clock != nil {
		clickOpts = append(clickOpts, input.WithClock(opts.Clock))
	}
	g.Clicks = input.NewClickHandler(opts.DoubleClick, clickOpts...)
	g.Clicks.OnToggle = g.toggle
	g.Clicks.OnDoubleClick = g.recenter
	g.Clicks.OnClick = g.dummy

	viewOpts := []mapview.Option{
		mapview.WithLogger(logger),
		mapview.WithFadeRadius(opts.FadeRadius),
	}
	if opts.TileSize > 0 {
		viewOpts = append(viewOpts, mapview.WithTileSize(opts.TileSize))
	}

	g.Surface = r.NewImage(opts.Width, opts.Height)
	g.MapView = mapview.NewRenderer(r.NewContext(g.Surface), m, images, viewOpts...)
	g.MapView.RenderFull()

	logger.WithFields(logrus.Fields{
		"width":   m.Width(),
		"height":  m.Height(),
		"visible": m.VisibleCount(),
	}).Info("Map ready")
	return g
}

// Update handles game logic updates.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0
	g.updateMessages(dt)

	if g.Images != nil {
		g.Images.Pump()
	}

	if g.InputMgr.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		x, y := g.InputMgr.GetCursorPosition()
		g.Clicks.Click(input.ClickEvent{
			X:        x,
			Y:        y,
			Modified: g.InputMgr.IsKeyPressed(render.KeyAlt),
		})
	}
	g.Clicks.Update()

	if g.InputMgr.IsKeyJustPressed(render.KeyHome) {
		g.centered = false
		g.MapView.RenderFull()
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		g.Clicks.Cancel()
	}

	return nil
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.ScreenWidth = outsideWidth
	g.ScreenHeight = outsideHeight
	return outsideWidth, outsideHeight
}

// Center returns the tile the view was last centred on and whether the view
// is centred at all.
func (g *Game) Center() (image.Point, bool) { return g.center, g.centered }

// HoveredTile returns the tile under the cursor, or nil.
func (g *Game) HoveredTile() *campaign.Tile {
	x, y := g.InputMgr.GetCursorPosition()
	return g.tileAt(x, y)
}

func (g *Game) tileAt(px, py int) *campaign.Tile {
	p := g.MapView.ScreenToTile(px, py)
	return g.Map.Tile(p.X, p.Y)
}

func (g *Game) toggle(ev input.ClickEvent) {
	t := g.tileAt(ev.X, ev.Y)
	if t == nil {
		return
	}

	t.Visible = !t.Visible
	g.logger.WithFields(logrus.Fields{
		"tile":    t.String(),
		"visible": t.Visible,
	}).Info("Toggled tile")
	g.MapView.RenderTile(t, true)
}

func (g *Game) recenter(ev input.ClickEvent) {
	t := g.tileAt(ev.X, ev.Y)
	if t == nil {
		return
	}

	g.center = image.Pt(t.X(), t.Y())
	g.centered = true
	g.logger.Infof("Centering map on %s", t)
	g.MapView.RenderCentered(g.center)
}

func (g *Game) dummy(ev input.ClickEvent) {
	g.logger.WithFields(logrus.Fields{"x": ev.X, "y": ev.Y}).Info("Dummy click")
	if t := g.tileAt(ev.X, ev.Y); t != nil {
		g.ShowMessage(fmt.Sprintf("Clicked %s", t))
	}
}

// redraw repaints the whole map keeping the current centre.
func (g *Game) redraw() {
	if g.centered {
		g.MapView.RenderCentered(g.center)
		return
	}
	g.MapView.RenderFull()
}

// resize replaces the surface with one of the given size and repaints it.
func (g *Game) resize(w, h int) {
	old := g.Surface
	g.Surface = g.Renderer.NewImage(w, h)
	g.MapView.SetContext(g.Renderer.NewContext(g.Surface))
	g.redraw()
	if old != nil {
		old.Dispose()
	}
	g.logger.Debugf("Resized surface to %dx%d", w, h)
}

// Dispose releases the surface. Images delivered afterwards are not drawn.
func (g *Game) Dispose() {
	g.MapView.Invalidate()
	if g.Surface != nil {
		g.Surface.Dispose()
		g.Surface = nil
	}
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: messageDuration,
		MaxTime:  messageDuration,
	})
}
