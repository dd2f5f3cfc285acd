package render

import (
	"image"
	"image/color"
)

// Renderer is the backend entry point used to create images and draw text.
// This allows swapping rendering backends without changing map logic.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image
	NewImageFromImage(src image.Image) Image
	NewContext(target Image) Context

	// Vector operations (for drawing the grid overlay)
	StrokeLine(dst Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color, scale float64)
	MeasureText(text string, scale float64) (width, height int)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Sub-image extraction
	SubImage(r image.Rectangle) Image

	// Fill operations
	Fill(clr color.Color)

	// DrawImage draws src source-over with its top-left corner at (x, y).
	DrawImage(src Image, x, y int)

	// Resource management
	Dispose()
}

// CompositeMode selects how drawn pixels combine with the destination,
// following the Porter-Duff operators of a 2D canvas.
type CompositeMode int

const (
	// CompositeSourceOver paints the source over the destination.
	CompositeSourceOver CompositeMode = iota
	// CompositeSourceAtop paints the source only where the destination has
	// coverage and keeps the destination's alpha.
	CompositeSourceAtop
)

func (m CompositeMode) String() string {
	switch m {
	case CompositeSourceOver:
		return "source-over"
	case CompositeSourceAtop:
		return "source-atop"
	default:
		return "unknown"
	}
}

// Context is a stateful 2D drawing context over a single surface, modelled on
// the canvas API: a settable composite mode applies to every later draw.
type Context interface {
	// Size returns the surface size in pixels.
	Size() (width, height int)

	// Clear makes the whole surface transparent.
	Clear()
	// ClearRect makes the pixels inside r transparent.
	ClearRect(r image.Rectangle)

	SetCompositeMode(mode CompositeMode)
	CompositeMode() CompositeMode

	// DrawImage draws img with its top-left corner at (x, y).
	DrawImage(img Image, x, y int)
	// FillRect fills r with the gradient g, in surface coordinates.
	FillRect(r image.Rectangle, g Gradient)
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonJustPressed(button MouseButton) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for common keys
const (
	KeyAlt Key = iota
	KeyHome
	KeyEscape
	KeyTab
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft MouseButton = iota
)

// ResourceLoader handles loading resources like images from disk.
type ResourceLoader interface {
	LoadImage(path string) (Image, error)
}

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the game logic. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
