package placeholders

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultTileSize matches the map renderer's default tile edge.
const DefaultTileSize = 50

// ColorPalette holds the terrain colors used for generated map tiles.
var ColorPalette = struct {
	Grass    color.RGBA
	Forest   color.RGBA
	Water    color.RGBA
	Hills    color.RGBA
	Mountain color.RGBA
	Desert   color.RGBA
	Swamp    color.RGBA
	Road     color.RGBA

	Label      color.RGBA
	Background color.RGBA
}{
	Grass:    color.RGBA{110, 160, 80, 255},
	Forest:   color.RGBA{50, 100, 55, 255},
	Water:    color.RGBA{60, 110, 170, 255},
	Hills:    color.RGBA{150, 140, 90, 255},
	Mountain: color.RGBA{125, 120, 115, 255},
	Desert:   color.RGBA{215, 190, 130, 255},
	Swamp:    color.RGBA{85, 95, 60, 255},
	Road:     color.RGBA{160, 130, 95, 255},

	Label:      color.RGBA{250, 250, 240, 255},
	Background: color.RGBA{128, 128, 128, 255},
}

func terrain() []color.RGBA {
	p := ColorPalette
	return []color.RGBA{p.Grass, p.Forest, p.Water, p.Hills, p.Mountain, p.Desert, p.Swamp, p.Road}
}

// Pattern is an overlay drawn on a solid tile.
type Pattern string

const (
	PatternNone     Pattern = ""
	PatternGrid     Pattern = "grid"
	PatternDots     Pattern = "dots"
	PatternCross    Pattern = "cross"
	PatternDiagonal Pattern = "diagonal"
)

var patterns = []Pattern{PatternNone, PatternGrid, PatternDots, PatternCross, PatternDiagonal}

// CreateSolidTile creates a simple solid-colored tile
func CreateSolidTile(size int, col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img
}

// CreateBorderedTile creates a tile with a border
func CreateBorderedTile(size int, fillColor, borderColor color.RGBA, borderWidth int) *image.RGBA {
	img := CreateSolidTile(size, fillColor)
	drawBorder(img, borderColor, borderWidth)
	return img
}

func drawBorder(img *image.RGBA, borderColor color.RGBA, borderWidth int) {
	size := img.Bounds().Dx()
	for i := 0; i < borderWidth; i++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, i, borderColor)
			img.SetRGBA(x, size-1-i, borderColor)
		}
		for y := 0; y < size; y++ {
			img.SetRGBA(i, y, borderColor)
			img.SetRGBA(size-1-i, y, borderColor)
		}
	}
}

// CreatePatternedTile creates a tile with a simple pattern
func CreatePatternedTile(size int, baseColor, patternColor color.RGBA, pattern Pattern) *image.RGBA {
	img := CreateSolidTile(size, baseColor)

	switch pattern {
	case PatternGrid:
		step := max(size/8, 2)
		for i := 0; i < size; i += step {
			for x := 0; x < size; x++ {
				img.SetRGBA(x, i, patternColor)
				img.SetRGBA(i, x, patternColor)
			}
		}
	case PatternDots:
		quarter := size / 4
		threeQuarter := 3 * size / 4
		dot := max(size/16, 1)
		dots := []image.Point{{quarter, quarter}, {threeQuarter, quarter}, {quarter, threeQuarter}, {threeQuarter, threeQuarter}}
		for _, p := range dots {
			for dy := 0; dy < dot; dy++ {
				for dx := 0; dx < dot; dx++ {
					img.SetRGBA(p.X+dx, p.Y+dy, patternColor)
				}
			}
		}
	case PatternCross:
		mid := size / 2
		for i := 2; i < size-2; i++ {
			img.SetRGBA(mid, i, patternColor)
			img.SetRGBA(i, mid, patternColor)
		}
	case PatternDiagonal:
		for i := 0; i < size; i++ {
			img.SetRGBA(i, i, patternColor)
			img.SetRGBA(i, size-1-i, patternColor)
		}
	}

	return img
}

// Tile generates a placeholder for the image reference ref. The same ref
// always yields the same tile: color and pattern come from a hash of ref and
// the tile is labelled with the reference's base name.
func Tile(ref string, size int) *image.RGBA {
	h := fnv.New32a()
	h.Write([]byte(ref))
	sum := h.Sum32()

	palette := terrain()
	base := palette[sum%uint32(len(palette))]
	pattern := patterns[(sum>>8)%uint32(len(patterns))]

	img := CreatePatternedTile(size, base, patternColor(base), pattern)
	drawBorder(img, Darken(base, 0.5), 1)
	drawLabel(img, Label(ref), ColorPalette.Label)
	return img
}

// patternColor picks an overlay color that stands out from base: lighter on
// dark terrain, darker on light terrain.
func patternColor(base color.RGBA) color.RGBA {
	if luminance(base) < darkLuminance {
		return Lighten(base, 0.35)
	}
	return Darken(base, 0.75)
}

const darkLuminance = 100

func luminance(c color.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Label shortens an image reference for display on a placeholder:
// "img/row-3-col-4.png" becomes "3,4".
func Label(ref string) string {
	name := strings.TrimSuffix(path.Base(ref), path.Ext(ref))

	var row, col string
	parts := strings.Split(name, "-")
	for i := 0; i+1 < len(parts); i++ {
		switch parts[i] {
		case "row":
			row = parts[i+1]
		case "col":
			col = parts[i+1]
		}
	}
	if row != "" && col != "" {
		return row + "," + col
	}
	return name
}

func drawLabel(img *image.RGBA, label string, col color.RGBA) {
	face := basicfont.Face7x13
	size := img.Bounds().Dx()
	if size < face.Height+4 {
		return
	}

	maxChars := (size - 6) / face.Advance
	if len(label) > maxChars {
		label = label[:maxChars]
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(3, 3+face.Ascent),
	}
	d.DrawString(label)
}

// CreateAtlas creates a sprite atlas from multiple tiles
func CreateAtlas(tiles []*image.RGBA, columns, size int) *image.RGBA {
	tileCount := len(tiles)
	rows := (tileCount + columns - 1) / columns

	atlas := image.NewRGBA(image.Rect(0, 0, columns*size, rows*size))

	for i, tile := range tiles {
		if tile == nil {
			continue
		}

		x := (i % columns) * size
		y := (i / columns) * size

		destRect := image.Rect(x, y, x+size, y+size)
		draw.Draw(atlas, destRect, tile, image.Point{}, draw.Src)
	}

	return atlas
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of a color
func Lighten(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}
