package game

import (
	"fmt"
	"image/color"

	"chosenoffset.com/campaignmap/internal/render"
)

var (
	backgroundColor = color.RGBA{128, 128, 128, 255}
	gridColor       = color.RGBA{0, 0, 0, 255}
	textColor       = color.RGBA{255, 255, 255, 255}
)

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	w, h := screen.Size()

	// Keep the map surface the size of the screen
	if g.Surface == nil || needsResize(g.Surface, w, h) {
		g.resize(w, h)
	}

	screen.Fill(backgroundColor)
	screen.DrawImage(g.Surface, 0, 0)

	g.drawGrid(screen)
	g.drawHUD(screen)
	g.drawUI(screen)
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}

// drawGrid outlines every tile cell on screen.
func (g *Game) drawGrid(screen render.Image) {
	w, h := screen.Size()
	step := g.MapView.TileSize()

	for x := 0; x <= w; x += step {
		g.Renderer.StrokeLine(screen, float32(x), 0, float32(x), float32(h), 1, gridColor)
	}
	for y := 0; y <= h; y += step {
		g.Renderer.StrokeLine(screen, 0, float32(y), float32(w), float32(y), 1, gridColor)
	}
}

func (g *Game) drawHUD(screen render.Image) {
	_, h := screen.Size()

	status := fmt.Sprintf("%d/%d visible", g.Map.VisibleCount(), g.Map.Width()*g.Map.Height())
	if t := g.HoveredTile(); t != nil {
		state := "hidden"
		if t.Visible {
			state = "visible"
		}
		status = fmt.Sprintf("%s %s  %s", t, state, status)
	}

	_, th := g.Renderer.MeasureText(status, 1.0)
	g.Renderer.DrawText(screen, status, 4, h-th-4, textColor, 1.0)
}

func (g *Game) drawUI(screen render.Image) {
	// Draw on-screen messages
	y := 4
	for _, msg := range g.Messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		g.Renderer.DrawText(screen, msg.Text, 4, y, color.NRGBA{255, 255, 255, alpha}, 1.0)
		y += 20
	}
}
