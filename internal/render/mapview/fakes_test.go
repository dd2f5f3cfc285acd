package mapview

import (
	"fmt"
	"image"
	"image/color"

	"chosenoffset.com/campaignmap/internal/render"
)

// op is one recorded drawing call.
type op struct {
	Name      string
	Rect      image.Rectangle
	Image     string
	Composite render.CompositeMode
}

// recordingContext is a render.Context that records every call.
type recordingContext struct {
	width, height int
	mode          render.CompositeMode
	ops           []op
}

func newRecordingContext(width, height int) *recordingContext {
	return &recordingContext{width: width, height: height}
}

func (c *recordingContext) Size() (int, int) { return c.width, c.height }

func (c *recordingContext) Clear() {
	c.ops = append(c.ops, op{Name: "clear", Rect: image.Rect(0, 0, c.width, c.height)})
}

func (c *recordingContext) ClearRect(r image.Rectangle) {
	c.ops = append(c.ops, op{Name: "clearRect", Rect: r})
}

func (c *recordingContext) SetCompositeMode(mode render.CompositeMode) { c.mode = mode }

func (c *recordingContext) CompositeMode() render.CompositeMode { return c.mode }

func (c *recordingContext) DrawImage(img render.Image, x, y int) {
	w, h := img.Size()
	c.ops = append(c.ops, op{
		Name:      "drawImage",
		Rect:      image.Rect(x, y, x+w, y+h),
		Image:     img.(*fakeImage).ref,
		Composite: c.mode,
	})
}

func (c *recordingContext) FillRect(r image.Rectangle, g render.Gradient) {
	c.ops = append(c.ops, op{Name: "fillRect", Rect: r, Composite: c.mode})
}

func (c *recordingContext) reset() { c.ops = nil }

// draws returns the top-left corners of every drawImage call.
func (c *recordingContext) draws() []image.Point {
	var pts []image.Point
	for _, o := range c.ops {
		if o.Name == "drawImage" {
			pts = append(pts, o.Rect.Min)
		}
	}
	return pts
}

func (c *recordingContext) count(name string) int {
	n := 0
	for _, o := range c.ops {
		if o.Name == name {
			n++
		}
	}
	return n
}

// fakeImage stands in for a loaded tile image.
type fakeImage struct {
	ref  string
	size int
}

func (i *fakeImage) Bounds() image.Rectangle                 { return image.Rect(0, 0, i.size, i.size) }
func (i *fakeImage) Size() (int, int)                        { return i.size, i.size }
func (i *fakeImage) SubImage(r image.Rectangle) render.Image { return i }
func (i *fakeImage) Fill(clr color.Color)                    {}
func (i *fakeImage) Dispose()                                {}
func (i *fakeImage) DrawImage(src render.Image, x, y int)    {}

// syncSource delivers every request immediately.
type syncSource struct {
	size     int
	requests []string
}

func (s *syncSource) Request(ref string, deliver func(img render.Image)) {
	s.requests = append(s.requests, ref)
	deliver(&fakeImage{ref: ref, size: s.size})
}

// deferredSource holds deliveries until flush is called.
type deferredSource struct {
	size    int
	pending []func()
}

func (s *deferredSource) Request(ref string, deliver func(img render.Image)) {
	img := &fakeImage{ref: ref, size: s.size}
	s.pending = append(s.pending, func() { deliver(img) })
}

func (s *deferredSource) flush() {
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

func tileRef(x, y int) string {
	return fmt.Sprintf("tile-%d-%d", x, y)
}
