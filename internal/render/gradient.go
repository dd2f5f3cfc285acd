package render

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// Gradient is a color field over surface coordinates. At returns a
// premultiplied color for the point (x, y).
type Gradient interface {
	At(x, y float64) color.RGBA
}

// ColorStop is one stop of a gradient ramp.
type ColorStop struct {
	Offset float64
	Color  color.RGBA
}

// colorRamp is an ordered list of stops. Parameters below the first stop take
// the first stop's color, parameters above the last take the last's.
type colorRamp struct {
	stops []ColorStop
}

func (r *colorRamp) addStop(offset float64, c color.Color) {
	offset = math.Max(0, math.Min(1, offset))
	rgba := color.RGBAModel.Convert(c).(color.RGBA)

	// Stops at equal offsets keep insertion order.
	i := sort.Search(len(r.stops), func(i int) bool { return r.stops[i].Offset > offset })
	r.stops = append(r.stops, ColorStop{})
	copy(r.stops[i+1:], r.stops[i:])
	r.stops[i] = ColorStop{Offset: offset, Color: rgba}
}

func (r *colorRamp) at(t float64) color.RGBA {
	n := len(r.stops)
	if n == 0 {
		return color.RGBA{}
	}
	if t <= r.stops[0].Offset {
		return r.stops[0].Color
	}
	if t >= r.stops[n-1].Offset {
		return r.stops[n-1].Color
	}

	for i := 1; i < n; i++ {
		hi := r.stops[i]
		if t > hi.Offset {
			continue
		}
		lo := r.stops[i-1]
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return hi.Color
		}
		return lerpRGBA(lo.Color, hi.Color, (t-lo.Offset)/span)
	}
	return r.stops[n-1].Color
}

func lerpRGBA(a, b color.RGBA, f float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return color.RGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}

// LinearGradient varies along the line from (X0, Y0) at t=0 to (X1, Y1) at t=1
// and is constant perpendicular to it.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	ramp           colorRamp
}

// NewLinearGradient creates a linear gradient with no stops.
func NewLinearGradient(x0, y0, x1, y1 float64) *LinearGradient {
	return &LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// AddColorStop adds a stop at offset in [0, 1].
func (g *LinearGradient) AddColorStop(offset float64, c color.Color) *LinearGradient {
	g.ramp.addStop(offset, c)
	return g
}

// Stops returns the gradient's stops in offset order.
func (g *LinearGradient) Stops() []ColorStop { return g.ramp.stops }

// At implements Gradient.
func (g *LinearGradient) At(x, y float64) color.RGBA {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		// A degenerate line paints nothing, as on a canvas.
		return color.RGBA{}
	}
	t := ((x-g.X0)*dx + (y-g.Y0)*dy) / lenSq
	return g.ramp.at(t)
}

// RadialGradient is a concentric radial gradient centred at (CX, CY): the
// circle of radius R0 is t=0 and the circle of radius R1 is t=1. R0 may be
// larger than R1 to run the ramp inwards.
type RadialGradient struct {
	CX, CY, R0, R1 float64
	ramp           colorRamp
}

// NewRadialGradient creates a concentric radial gradient with no stops.
func NewRadialGradient(cx, cy, r0, r1 float64) *RadialGradient {
	return &RadialGradient{CX: cx, CY: cy, R0: r0, R1: r1}
}

// AddColorStop adds a stop at offset in [0, 1].
func (g *RadialGradient) AddColorStop(offset float64, c color.Color) *RadialGradient {
	g.ramp.addStop(offset, c)
	return g
}

// Stops returns the gradient's stops in offset order.
func (g *RadialGradient) Stops() []ColorStop { return g.ramp.stops }

// At implements Gradient.
func (g *RadialGradient) At(x, y float64) color.RGBA {
	if g.R0 == g.R1 {
		return color.RGBA{}
	}
	dist := math.Hypot(x-g.CX, y-g.CY)
	t := (dist - g.R0) / (g.R1 - g.R0)
	return g.ramp.at(t)
}

// Rasterize samples g at every pixel centre of r. The returned image has
// bounds starting at (0, 0) and the size of r.
func Rasterize(g Gradient, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for py := 0; py < r.Dy(); py++ {
		for px := 0; px < r.Dx(); px++ {
			c := g.At(float64(r.Min.X+px)+0.5, float64(r.Min.Y+py)+0.5)
			out.SetRGBA(px, py, c)
		}
	}
	return out
}
