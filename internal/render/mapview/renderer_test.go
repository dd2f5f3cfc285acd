package mapview

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/campaignmap/internal/render"
	"chosenoffset.com/campaignmap/internal/world/campaign"
)

func newTestMap(t *testing.T, width, height int) *campaign.Map {
	t.Helper()
	m, err := campaign.Generate(width, height, "bg", tileRef, true)
	require.NoError(t, err)
	return m
}

func newTestRenderer(t *testing.T, m *campaign.Map, surface int, src ImageSource, opts ...Option) (*Renderer, *recordingContext) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	ctx := newRecordingContext(surface, surface)
	opts = append([]Option{WithLogger(logger)}, opts...)
	return NewRenderer(ctx, m, src, opts...), ctx
}

func TestMapToScreenAndBack(t *testing.T) {
	m := newTestMap(t, 10, 10)

	for _, size := range []int{1, 16, 50, 64} {
		r, _ := newTestRenderer(t, m, 1000, &syncSource{size: size}, WithTileSize(size))
		for _, center := range []image.Point{{0, 0}, {3, 7}, {9, 9}} {
			r.RenderCentered(center)
			for x := -2; x < 12; x++ {
				for y := -2; y < 12; y++ {
					px := r.MapToScreen(x, y)
					require.Equal(t, image.Pt(x, y).Add(r.Offset()), r.ScreenToMap(px.X, px.Y))
					require.Equal(t, image.Pt(x, y), r.ScreenToTile(px.X, px.Y))
					require.Equal(t, image.Pt(x, y), r.ScreenToTile(px.X+size-1, px.Y+size-1))
				}
			}
		}
	}
}

func TestScreenToMapFloorsNegatives(t *testing.T) {
	r, _ := newTestRenderer(t, newTestMap(t, 2, 2), 100, &syncSource{size: 50})

	require.Equal(t, image.Pt(-1, -1), r.ScreenToMap(-1, -1))
	require.Equal(t, image.Pt(-1, 0), r.ScreenToMap(-50, 49))
	require.Equal(t, image.Pt(-2, 1), r.ScreenToMap(-51, 50))
}

func TestRenderFullResetsOffset(t *testing.T) {
	r, _ := newTestRenderer(t, newTestMap(t, 10, 10), 300, &syncSource{size: 50})

	r.RenderCentered(image.Pt(7, 8))
	require.NotEqual(t, image.Point{}, r.Offset())

	r.RenderFull()
	require.Equal(t, image.Point{}, r.Offset())
	require.Equal(t, image.Pt(6, 6), r.Viewport())
}

func TestRenderCenteredOffset(t *testing.T) {
	tests := []struct {
		name     string
		surface  int
		center   image.Point
		viewport image.Point
		offset   image.Point
	}{
		{"even viewport", 300, image.Pt(5, 5), image.Pt(6, 6), image.Pt(-3, -3)},
		{"odd viewport", 250, image.Pt(5, 5), image.Pt(5, 5), image.Pt(-4, -4)},
		{"origin", 300, image.Pt(0, 0), image.Pt(6, 6), image.Pt(2, 2)},
		{"partial tiles ignored", 320, image.Pt(9, 2), image.Pt(6, 6), image.Pt(-7, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRenderer(t, newTestMap(t, 10, 10), tt.surface, &syncSource{size: 50})
			r.RenderCentered(tt.center)

			require.Equal(t, tt.viewport, r.Viewport())
			require.Equal(t, tt.offset, r.Offset())

			cell := tt.center.Add(r.Offset())
			require.Equal(t, image.Pt(tt.viewport.X/2-1, tt.viewport.Y/2-1), cell)
		})
	}
}

func TestRenderFullClearsThenDrawsOnScreenTiles(t *testing.T) {
	src := &syncSource{size: 50}
	r, ctx := newTestRenderer(t, newTestMap(t, 10, 10), 300, src)

	r.RenderFull()

	require.Equal(t, "clear", ctx.ops[0].Name)
	require.Len(t, ctx.draws(), 36)
	require.Len(t, src.requests, 36)
	for _, o := range ctx.ops {
		if o.Name == "drawImage" {
			require.Equal(t, render.CompositeSourceOver, o.Composite)
		}
	}
}

func TestRenderFullCullsOutsideViewport(t *testing.T) {
	// 5x5 tiles of 50px fit a 250px surface.
	src := &syncSource{size: 50}
	r, ctx := newTestRenderer(t, newTestMap(t, 10, 10), 250, src)

	r.RenderCentered(image.Pt(5, 5))
	require.Equal(t, image.Pt(5, 5), r.Viewport())

	draws := ctx.draws()
	require.Len(t, draws, 25)
	for _, p := range draws {
		require.True(t, p.In(image.Rect(0, 0, 250, 250)), "draw at %v is off the surface", p)
	}

	off := r.Offset()
	m := r.gameMap
	m.Each(func(tile *campaign.Tile) {
		cell := image.Pt(tile.X(), tile.Y()).Add(off)
		inside := cell.X >= 0 && cell.X < 5 && cell.Y >= 0 && cell.Y < 5
		ctx.reset()
		mode := r.RenderTile(tile, false)
		if inside {
			require.Equal(t, ModeVisible, mode)
		} else {
			require.Equal(t, ModeCulled, mode)
			require.Empty(t, ctx.ops)
		}
	})
}

func TestRenderFullCullsWithLargerTiles(t *testing.T) {
	src := &syncSource{size: 60}
	r, ctx := newTestRenderer(t, newTestMap(t, 10, 10), 300, src, WithTileSize(60))

	r.RenderFull()
	require.Equal(t, image.Pt(5, 5), r.Viewport())
	require.Len(t, ctx.draws(), 25)
}

func TestHiddenTileAmongVisibleFadesWithoutCascade(t *testing.T) {
	src := &syncSource{size: 50}
	m := newTestMap(t, 10, 10)
	r, ctx := newTestRenderer(t, m, 500, src)
	r.RenderFull()

	tile := m.Tile(5, 5)
	tile.Visible = false
	ctx.reset()
	src.requests = nil

	mode := r.RenderTile(tile, true)
	require.Equal(t, ModeFaded, mode)

	want := []op{
		{Name: "clearRect", Rect: image.Rect(250, 250, 300, 300)},
	}
	for i := 0; i < 8; i++ {
		want = append(want, op{Name: "fillRect", Rect: image.Rect(250, 250, 300, 300), Composite: render.CompositeSourceOver})
	}
	want = append(want, op{
		Name:      "drawImage",
		Rect:      image.Rect(250, 250, 300, 300),
		Image:     tileRef(5, 5),
		Composite: render.CompositeSourceAtop,
	})

	if diff := cmp.Diff(want, ctx.ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{tileRef(5, 5)}, src.requests)
	require.Equal(t, render.CompositeSourceOver, ctx.CompositeMode(), "composite mode restored")
}

func TestCascadeRedrawsHiddenNeighbors(t *testing.T) {
	src := &syncSource{size: 50}
	m := newTestMap(t, 10, 10)
	r, ctx := newTestRenderer(t, m, 500, src)
	r.RenderFull()

	m.Tile(5, 5).Visible = false
	m.Tile(5, 6).Visible = false
	ctx.reset()
	src.requests = nil

	r.RenderTile(m.Tile(5, 5), true)

	require.Equal(t, []string{tileRef(5, 5), tileRef(5, 6)}, src.requests)
	require.Equal(t, []image.Point{{250, 250}, {250, 300}}, ctx.draws())
}

func TestCascadeSkipsVisibleNeighbors(t *testing.T) {
	src := &syncSource{size: 50}
	m := newTestMap(t, 10, 10)
	r, _ := newTestRenderer(t, m, 500, src)
	r.RenderFull()

	// Turning a tile visible again redraws only its hidden neighbours.
	for _, p := range []image.Point{{4, 4}, {6, 4}, {5, 6}} {
		m.Tile(p.X, p.Y).Visible = false
	}
	tile := m.Tile(5, 5)
	src.requests = nil

	require.Equal(t, ModeVisible, r.RenderTile(tile, true))
	require.ElementsMatch(t, []string{tileRef(5, 5), tileRef(4, 4), tileRef(6, 4), tileRef(5, 6)}, src.requests)
}

func TestCascadeIsOneLevelDeep(t *testing.T) {
	src := &syncSource{size: 50}
	m := newTestMap(t, 10, 3)
	r, _ := newTestRenderer(t, m, 500, src)
	r.RenderFull()

	// A run of hidden tiles in the middle row, each touching visible rows.
	for x := 3; x <= 6; x++ {
		m.Tile(x, 1).Visible = false
	}
	src.requests = nil

	r.RenderTile(m.Tile(4, 1), true)
	require.Equal(t, []string{tileRef(4, 1), tileRef(5, 1), tileRef(3, 1)}, src.requests)
	require.NotContains(t, src.requests, tileRef(6, 1))
}

func TestCascadeDisabled(t *testing.T) {
	src := &syncSource{size: 50}
	m := newTestMap(t, 10, 10)
	r, _ := newTestRenderer(t, m, 500, src)
	r.RenderFull()

	m.Tile(5, 5).Visible = false
	m.Tile(5, 6).Visible = false
	src.requests = nil

	r.RenderTile(m.Tile(5, 5), false)
	require.Equal(t, []string{tileRef(5, 5)}, src.requests)
}

func TestIsolatedHiddenTileIsCleared(t *testing.T) {
	src := &syncSource{size: 50}
	m, err := campaign.Generate(3, 3, "bg", tileRef, false)
	require.NoError(t, err)
	r, ctx := newTestRenderer(t, m, 150, src)

	r.RenderFull()

	require.Empty(t, src.requests)
	require.Equal(t, 9, ctx.count("clearRect"))
	require.Equal(t, ModeHidden, r.RenderTile(m.Tile(1, 1), true))
}

func TestDeferredDeliveryPaintsCapturedRect(t *testing.T) {
	src := &deferredSource{size: 50}
	m := newTestMap(t, 10, 10)
	r, ctx := newTestRenderer(t, m, 500, src)

	r.RenderFull()
	require.Empty(t, ctx.draws())

	src.flush()
	require.Len(t, ctx.draws(), 100)
	require.Contains(t, ctx.draws(), image.Pt(450, 450))
}

func TestStaleDeliveriesAreDropped(t *testing.T) {
	src := &deferredSource{size: 50}
	m := newTestMap(t, 10, 10)
	r, ctx := newTestRenderer(t, m, 100, src)

	r.RenderFull()
	r.RenderCentered(image.Pt(5, 5))
	src.flush()

	// Only the second render's 2x2 window is painted, at its own positions.
	require.ElementsMatch(t, []image.Point{{0, 0}, {50, 0}, {0, 50}, {50, 50}}, ctx.draws())
	for _, o := range ctx.ops {
		if o.Name == "drawImage" {
			p := r.ScreenToTile(o.Rect.Min.X, o.Rect.Min.Y)
			require.Equal(t, tileRef(p.X, p.Y), o.Image)
		}
	}
}

func TestHidingBeforeDeliveryDropsPaint(t *testing.T) {
	src := &deferredSource{size: 50}
	m := newTestMap(t, 1, 1)
	r, ctx := newTestRenderer(t, m, 50, src)

	r.RenderFull()
	m.Tile(0, 0).Visible = false
	r.RenderTile(m.Tile(0, 0), true)
	src.flush()

	require.Empty(t, ctx.draws())
}

func TestSetContextDropsInFlightPaints(t *testing.T) {
	src := &deferredSource{size: 50}
	m := newTestMap(t, 4, 4)
	r, oldCtx := newTestRenderer(t, m, 100, src)

	r.RenderFull()
	newCtx := newRecordingContext(200, 200)
	r.SetContext(newCtx)
	src.flush()

	require.Empty(t, oldCtx.draws())
	require.Empty(t, newCtx.draws())

	r.RenderFull()
	src.flush()
	require.Equal(t, image.Pt(4, 4), r.Viewport())
	require.Len(t, newCtx.draws(), 16)
	require.Empty(t, oldCtx.draws())
}

func TestInvalidateDropsInFlightPaints(t *testing.T) {
	src := &deferredSource{size: 50}
	m := newTestMap(t, 2, 2)
	r, ctx := newTestRenderer(t, m, 100, src)

	r.RenderFull()
	r.Invalidate()
	src.flush()
	require.Empty(t, ctx.draws())

	r.RenderFull()
	src.flush()
	require.Len(t, ctx.draws(), 4)
}

func TestRenderTileAtScreenUsesOffset(t *testing.T) {
	src := &syncSource{size: 50}
	m := newTestMap(t, 10, 10)
	r, _ := newTestRenderer(t, m, 300, src)
	r.RenderCentered(image.Pt(5, 5))
	src.requests = nil

	r.RenderTileAtScreen(10, 60)
	require.Equal(t, []string{tileRef(3, 4)}, src.requests)

	src.requests = nil
	r.RenderTileAt(-1, 4)
	r.RenderTileAt(10, 10)
	require.Empty(t, src.requests)
}

func TestModeString(t *testing.T) {
	require.Equal(t, "faded", ModeFaded.String())
	require.Equal(t, "unknown", Mode(9).String())
}
