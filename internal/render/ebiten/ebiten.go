package ebiten

import (
	"bytes"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"chosenoffset.com/campaignmap/internal/log"
	"chosenoffset.com/campaignmap/internal/render"
)

const baseFontSize = 13

// EbitenRenderer implements the Renderer interface using Ebiten.
type EbitenRenderer struct {
	fontOnce sync.Once
	font     *text.GoTextFaceSource
}

// NewRenderer creates a new Ebiten-based render.
func NewRenderer() render.Renderer {
	return &EbitenRenderer{}
}

// NewImage creates a new image with the given dimensions.
func (r *EbitenRenderer) NewImage(width, height int) render.Image {
	return &EbitenImage{img: ebiten.NewImage(width, height)}
}

// NewImageFromImage uploads a decoded image.
func (r *EbitenRenderer) NewImageFromImage(src image.Image) render.Image {
	return &EbitenImage{img: ebiten.NewImageFromImage(src)}
}

// NewContext returns a drawing context over target.
func (r *EbitenRenderer) NewContext(target render.Image) render.Context {
	return &EbitenContext{target: target.(*EbitenImage).img}
}

// StrokeLine draws a line segment on the destination image.
func (r *EbitenRenderer) StrokeLine(dst render.Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color) {
	ebitenImg := dst.(*EbitenImage).img
	vector.StrokeLine(ebitenImg, x0, y0, x1, y1, strokeWidth, clr, false)
}

func (r *EbitenRenderer) face(scale float64) text.Face {
	r.fontOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Warnf("Failed to load font, falling back to debug text: %v", err)
			return
		}
		r.font = src
	})
	if r.font == nil {
		return nil
	}
	return &text.GoTextFace{Source: r.font, Size: baseFontSize * scale}
}

// DrawText draws text with its top-left corner at (x, y).
func (r *EbitenRenderer) DrawText(dst render.Image, str string, x, y int, clr color.Color, scale float64) {
	ebitenImg := dst.(*EbitenImage).img

	face := r.face(scale)
	if face == nil {
		ebitenutil.DebugPrintAt(ebitenImg, str, x, y)
		return
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(ebitenImg, str, face, op)
}

// MeasureText measures the width and height of text with the given scale.
func (r *EbitenRenderer) MeasureText(str string, scale float64) (width, height int) {
	face := r.face(scale)
	if face == nil {
		// Debug font cells are 6x16.
		return int(float64(len(str)) * 6 * scale), int(16 * scale)
	}
	w, h := text.Measure(str, face, 0)
	return int(w), int(h)
}

// EbitenImage wraps an ebiten.Image to implement the render.Image interface.
type EbitenImage struct {
	img *ebiten.Image
}

// Bounds returns the bounds of the image.
func (i *EbitenImage) Bounds() image.Rectangle {
	return i.img.Bounds()
}

// Size returns the width and height of the image.
func (i *EbitenImage) Size() (width, height int) {
	return i.img.Bounds().Dx(), i.img.Bounds().Dy()
}

// SubImage returns a sub-image of the image.
func (i *EbitenImage) SubImage(r image.Rectangle) render.Image {
	return &EbitenImage{img: i.img.SubImage(r).(*ebiten.Image)}
}

// Fill fills the entire image with the given color.
func (i *EbitenImage) Fill(clr color.Color) {
	i.img.Fill(clr)
}

// Dispose releases the image resources.
func (i *EbitenImage) Dispose() {
	if i.img != nil {
		i.img.Dispose()
	}
}

// DrawImage draws src source-over with its top-left corner at (x, y).
func (i *EbitenImage) DrawImage(src render.Image, x, y int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	i.img.DrawImage(src.(*EbitenImage).img, op)
}

func blendFor(mode render.CompositeMode) ebiten.Blend {
	if mode == render.CompositeSourceAtop {
		return ebiten.BlendSourceAtop
	}
	return ebiten.BlendSourceOver
}

// EbitenContext is a canvas-like drawing context over an ebiten.Image.
// Gradients are rasterized on the CPU and uploaded through a scratch image.
type EbitenContext struct {
	target  *ebiten.Image
	mode    render.CompositeMode
	scratch *ebiten.Image
}

// Size returns the surface size in pixels.
func (c *EbitenContext) Size() (int, int) {
	b := c.target.Bounds()
	return b.Dx(), b.Dy()
}

// Clear makes the whole surface transparent.
func (c *EbitenContext) Clear() {
	c.target.Clear()
}

// ClearRect makes the pixels inside r transparent.
func (c *EbitenContext) ClearRect(r image.Rectangle) {
	r = r.Add(c.target.Bounds().Min).Intersect(c.target.Bounds())
	if r.Empty() {
		return
	}
	c.target.SubImage(r).(*ebiten.Image).Clear()
}

func (c *EbitenContext) SetCompositeMode(mode render.CompositeMode) { c.mode = mode }

func (c *EbitenContext) CompositeMode() render.CompositeMode { return c.mode }

// DrawImage draws img with its top-left corner at (x, y) using the current
// composite mode.
func (c *EbitenContext) DrawImage(img render.Image, x, y int) {
	c.draw(img.(*EbitenImage).img, x, y)
}

// FillRect fills r with g using the current composite mode.
func (c *EbitenContext) FillRect(r image.Rectangle, g render.Gradient) {
	if r.Empty() {
		return
	}
	pix := render.Rasterize(g, r)

	w, h := r.Dx(), r.Dy()
	if c.scratch == nil || c.scratch.Bounds().Dx() != w || c.scratch.Bounds().Dy() != h {
		if c.scratch != nil {
			c.scratch.Dispose()
		}
		c.scratch = ebiten.NewImage(w, h)
	}
	c.scratch.WritePixels(pix.Pix)
	c.draw(c.scratch, r.Min.X, r.Min.Y)
}

func (c *EbitenContext) draw(src *ebiten.Image, x, y int) {
	origin := c.target.Bounds().Min
	op := &ebiten.DrawImageOptions{Blend: blendFor(c.mode)}
	op.GeoM.Translate(float64(origin.X+x), float64(origin.Y+y))
	c.target.DrawImage(src, op)
}

// EbitenInputManager implements the InputManager interface using Ebiten.
type EbitenInputManager struct{}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() render.InputManager {
	return &EbitenInputManager{}
}

// IsKeyPressed returns whether the specified key is currently pressed.
func (m *EbitenInputManager) IsKeyPressed(key render.Key) bool {
	return ebiten.IsKeyPressed(keyToEbitenKey(key))
}

// IsKeyJustPressed returns whether the specified key was just pressed this frame.
func (m *EbitenInputManager) IsKeyJustPressed(key render.Key) bool {
	return inpututil.IsKeyJustPressed(keyToEbitenKey(key))
}

// GetCursorPosition returns the current cursor position.
func (m *EbitenInputManager) GetCursorPosition() (x, y int) {
	return ebiten.CursorPosition()
}

// IsMouseButtonJustPressed returns whether the button went down this tick.
func (m *EbitenInputManager) IsMouseButtonJustPressed(button render.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(mouseButtonToEbiten(button))
}

// keyToEbitenKey converts a render.Key to an ebiten.Key.
func keyToEbitenKey(key render.Key) ebiten.Key {
	switch key {
	case render.KeyAlt:
		return ebiten.KeyAlt
	case render.KeyHome:
		return ebiten.KeyHome
	case render.KeyEscape:
		return ebiten.KeyEscape
	case render.KeyTab:
		return ebiten.KeyTab
	default:
		return 0
	}
}

// mouseButtonToEbiten converts a render.MouseButton to an ebiten.MouseButton.
// Only the left button is mapped.
func mouseButtonToEbiten(render.MouseButton) ebiten.MouseButton {
	return ebiten.MouseButtonLeft
}

// EbitenResourceLoader implements the ResourceLoader interface using Ebiten.
type EbitenResourceLoader struct{}

// NewResourceLoader creates a new Ebiten-based resource loader.
func NewResourceLoader() render.ResourceLoader {
	return &EbitenResourceLoader{}
}

// LoadImage loads an image from the specified file path.
func (l *EbitenResourceLoader) LoadImage(path string) (render.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, err
	}
	return &EbitenImage{img: img}, nil
}

// EbitenEngine implements the Engine interface using Ebiten.
type EbitenEngine struct{}

// NewEngine creates a new Ebiten-based game engine.
func NewEngine() render.Engine {
	return &EbitenEngine{}
}

// SetWindowSize sets the window size in pixels.
func (e *EbitenEngine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

// SetWindowTitle sets the window title.
func (e *EbitenEngine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetWindowResizable enables or disables window resizing.
func (e *EbitenEngine) SetWindowResizable(resizable bool) {
	if resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// RunGame runs the game loop with the provided game.
func (e *EbitenEngine) RunGame(game render.Game) error {
	return ebiten.RunGame(&gameAdapter{game: game})
}

// gameAdapter adapts a render.Game to ebiten.Game interface.
type gameAdapter struct {
	game render.Game
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	return a.game.Update()
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	a.game.Draw(&EbitenImage{img: screen})
}

// Layout implements ebiten.Game.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.game.Layout(outsideWidth, outsideHeight)
}
