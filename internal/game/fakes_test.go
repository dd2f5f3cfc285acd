package game

import (
	"image"
	"image/color"
	"time"

	"chosenoffset.com/campaignmap/internal/render"
)

type fakeImage struct {
	ref      string
	w, h     int
	disposed bool
}

func (i *fakeImage) Bounds() image.Rectangle                 { return image.Rect(0, 0, i.w, i.h) }
func (i *fakeImage) Size() (int, int)                        { return i.w, i.h }
func (i *fakeImage) SubImage(r image.Rectangle) render.Image { return &fakeImage{w: r.Dx(), h: r.Dy()} }
func (i *fakeImage) Fill(clr color.Color)                    {}
func (i *fakeImage) Dispose()                                { i.disposed = true }
func (i *fakeImage) DrawImage(src render.Image, x, y int)    {}

type fakeContext struct {
	target    *fakeImage
	mode      render.CompositeMode
	draws     []image.Point
	fills     int
	gradients []render.Gradient
	clears    int
}

func (c *fakeContext) Size() (int, int)                           { return c.target.Size() }
func (c *fakeContext) Clear()                                     { c.clears++ }
func (c *fakeContext) ClearRect(r image.Rectangle)                {}
func (c *fakeContext) SetCompositeMode(mode render.CompositeMode) { c.mode = mode }
func (c *fakeContext) CompositeMode() render.CompositeMode        { return c.mode }
func (c *fakeContext) DrawImage(img render.Image, x, y int)       { c.draws = append(c.draws, image.Pt(x, y)) }

func (c *fakeContext) FillRect(r image.Rectangle, g render.Gradient) {
	c.fills++
	c.gradients = append(c.gradients, g)
}

type fakeRenderer struct {
	contexts []*fakeContext
	lines    int
	texts    []string
}

func (r *fakeRenderer) NewImage(w, h int) render.Image { return &fakeImage{w: w, h: h} }

func (r *fakeRenderer) NewImageFromImage(src image.Image) render.Image {
	b := src.Bounds()
	return &fakeImage{w: b.Dx(), h: b.Dy()}
}

func (r *fakeRenderer) NewContext(target render.Image) render.Context {
	ctx := &fakeContext{target: target.(*fakeImage)}
	r.contexts = append(r.contexts, ctx)
	return ctx
}

func (r *fakeRenderer) StrokeLine(dst render.Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color) {
	r.lines++
}

func (r *fakeRenderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	r.texts = append(r.texts, text)
}

func (r *fakeRenderer) MeasureText(text string, scale float64) (int, int) {
	return 7 * len(text), 13
}

// current returns the context of the latest surface.
func (r *fakeRenderer) current() *fakeContext {
	return r.contexts[len(r.contexts)-1]
}

type fakeInput struct {
	x, y    int
	held    map[render.Key]bool
	just    map[render.Key]bool
	clicked bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{held: map[render.Key]bool{}, just: map[render.Key]bool{}}
}

func (in *fakeInput) IsKeyPressed(key render.Key) bool     { return in.held[key] }
func (in *fakeInput) IsKeyJustPressed(key render.Key) bool { return in.just[key] }
func (in *fakeInput) GetCursorPosition() (int, int)        { return in.x, in.y }

func (in *fakeInput) IsMouseButtonJustPressed(button render.MouseButton) bool {
	return in.clicked && button == render.MouseButtonLeft
}

// images delivers every request immediately and counts pumps.
type images struct {
	requests []string
	pumps    int
}

func (s *images) Request(ref string, deliver func(img render.Image)) {
	s.requests = append(s.requests, ref)
	deliver(&fakeImage{ref: ref, w: 50, h: 50})
}

func (s *images) Pump() int {
	s.pumps++
	return 0
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }
