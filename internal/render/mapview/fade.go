package mapview

import (
	"image"
	"image/color"

	"chosenoffset.com/campaignmap/internal/render"
	"chosenoffset.com/campaignmap/internal/world/campaign"
)

const (
	// edgeFadeStop is where an edge or outer-corner mask reaches transparent.
	edgeFadeStop = 0.2
	// innerCornerFadeStop is where an inner-corner mask reaches transparent.
	innerCornerFadeStop = 0.3
	// innerCornerRadius is the inner-corner ring radius as a share of the tile.
	innerCornerRadius = 0.8
)

// FadeKind identifies which part of a partial reveal a mask paint produces.
type FadeKind int

const (
	// FadeEdge reveals the strip along a visible cardinal neighbour.
	FadeEdge FadeKind = iota
	// FadeInnerCorner softens the seam between two visible cardinals.
	FadeInnerCorner
	// FadeOuterCorner reveals a corner touching a visible diagonal neighbour
	// whose adjacent cardinals are both hidden.
	FadeOuterCorner
)

func (k FadeKind) String() string {
	switch k {
	case FadeEdge:
		return "edge"
	case FadeInnerCorner:
		return "inner-corner"
	case FadeOuterCorner:
		return "outer-corner"
	default:
		return "unknown"
	}
}

// FadePaint is one mask gradient filled over a faded tile.
type FadePaint struct {
	Kind     FadeKind
	Toward   campaign.Direction
	Gradient render.Gradient
}

// FadePaints returns the mask gradients for a hidden tile occupying rect whose
// neighbourhood visibility is vis. Opaque mask pixels are where the tile image
// will show once drawn source-atop; the masks combine source-over so their
// order does not matter.
func FadePaints(rect image.Rectangle, vis campaign.Visibility, fadeRadius int) []FadePaint {
	var paints []FadePaint
	for _, d := range campaign.Directions {
		if d.IsCardinal() {
			if vis[d] {
				paints = append(paints, FadePaint{Kind: FadeEdge, Toward: d, Gradient: edgeGradient(rect, d)})
			}
			continue
		}

		before, after := vis[d.Prev()], vis[d.Next()]
		switch {
		case before && after:
			paints = append(paints, FadePaint{Kind: FadeInnerCorner, Toward: d, Gradient: innerCornerGradient(rect, d, fadeRadius)})
		case vis[d] && !before && !after:
			paints = append(paints, FadePaint{Kind: FadeOuterCorner, Toward: d, Gradient: outerCornerGradient(rect, d)})
		}
	}
	return paints
}

// edgeGradient runs from the edge shared with the neighbour in d (t=0) across
// the tile to the opposite edge.
func edgeGradient(rect image.Rectangle, d campaign.Direction) render.Gradient {
	x0, y0 := float64(rect.Min.X), float64(rect.Min.Y)
	x1, y1 := float64(rect.Max.X), float64(rect.Max.Y)

	var g *render.LinearGradient
	switch d {
	case campaign.North:
		g = render.NewLinearGradient(x0, y0, x0, y1)
	case campaign.East:
		g = render.NewLinearGradient(x1, y0, x0, y0)
	case campaign.South:
		g = render.NewLinearGradient(x0, y1, x0, y0)
	default:
		g = render.NewLinearGradient(x0, y0, x1, y0)
	}
	return g.AddColorStop(0, color.Black).AddColorStop(edgeFadeStop, color.Transparent)
}

// innerCornerGradient is a ring centred fadeRadius pixels off the tile centre,
// away from the corner in d, running inwards from innerCornerRadius of the tile.
func innerCornerGradient(rect image.Rectangle, d campaign.Direction, fadeRadius int) render.Gradient {
	size := rect.Dx()
	mid := rect.Min.Add(image.Pt(size/2, size/2))
	off := d.Offset().Mul(fadeRadius)
	cx, cy := float64(mid.X-off.X), float64(mid.Y-off.Y)
	r0 := float64(int(float64(size) * innerCornerRadius))

	return render.NewRadialGradient(cx, cy, r0, 0).
		AddColorStop(0, color.Black).
		AddColorStop(innerCornerFadeStop, color.Transparent)
}

// outerCornerGradient is centred on the tile corner facing the diagonal d.
func outerCornerGradient(rect image.Rectangle, d campaign.Direction) render.Gradient {
	corner := rect.Min
	off := d.Offset()
	if off.X > 0 {
		corner.X = rect.Max.X
	}
	if off.Y > 0 {
		corner.Y = rect.Max.Y
	}

	return render.NewRadialGradient(float64(corner.X), float64(corner.Y), 0, float64(rect.Dx())).
		AddColorStop(0, color.Black).
		AddColorStop(edgeFadeStop, color.Transparent)
}
