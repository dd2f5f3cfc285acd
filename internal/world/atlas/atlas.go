package atlas

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"chosenoffset.com/campaignmap/internal/render"
)

// TileDefinition defines a single tile within an atlas
type TileDefinition struct {
	Name   string `json:"name"`    // Image reference the tile stands in for (e.g., "img/row-1-col-1.png")
	AtlasX int    `json:"atlas_x"` // X position in atlas (in tiles)
	AtlasY int    `json:"atlas_y"` // Y position in atlas (in tiles)
}

// AtlasConfig defines the JSON configuration for a sprite atlas
type AtlasConfig struct {
	Name       string           `json:"name"`
	ImagePath  string           `json:"image_path"` // Relative to the config file
	TileWidth  int              `json:"tile_width"`
	TileHeight int              `json:"tile_height"`
	Tiles      []TileDefinition `json:"tiles"`
}

// Atlas represents a loaded sprite atlas
type Atlas struct {
	Config      *AtlasConfig
	Image       render.Image
	TilesByName map[string]*TileDefinition
}

// ParseConfig parses and validates an atlas configuration.
func ParseConfig(data []byte) (*AtlasConfig, error) {
	var config AtlasConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse atlas config: %w", err)
	}

	if config.TileWidth <= 0 || config.TileHeight <= 0 {
		return nil, fmt.Errorf("invalid tile dimensions: %dx%d", config.TileWidth, config.TileHeight)
	}

	if config.ImagePath == "" {
		return nil, fmt.Errorf("image_path is required in atlas config")
	}

	for i, tile := range config.Tiles {
		if tile.AtlasX < 0 || tile.AtlasY < 0 {
			return nil, fmt.Errorf("tile %d (%s) has a negative atlas position", i, tile.Name)
		}
	}

	return &config, nil
}

// LoadConfig reads an atlas configuration file. The returned ImagePath is
// resolved against the directory of configPath.
func LoadConfig(configPath string) (*AtlasConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read atlas config %s: %w", configPath, err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	if !filepath.IsAbs(config.ImagePath) {
		config.ImagePath = filepath.Join(filepath.Dir(configPath), config.ImagePath)
	}
	return config, nil
}

// LoadAtlas loads a sprite atlas from a JSON configuration file
func LoadAtlas(configPath string, loader render.ResourceLoader) (*Atlas, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	img, err := loader.LoadImage(config.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load atlas image %s: %w", config.ImagePath, err)
	}

	return New(config, img), nil
}

// New builds an atlas from a parsed config and its image.
func New(config *AtlasConfig, img render.Image) *Atlas {
	tilesByName := make(map[string]*TileDefinition)
	for i := range config.Tiles {
		tile := &config.Tiles[i]
		if tile.Name != "" {
			tilesByName[tile.Name] = tile
		}
	}

	return &Atlas{
		Config:      config,
		Image:       img,
		TilesByName: tilesByName,
	}
}

// GetTile returns a tile definition by name
func (a *Atlas) GetTile(name string) (*TileDefinition, bool) {
	tile, ok := a.TilesByName[name]
	return tile, ok
}

// TileRect returns the pixel rectangle of tile within the atlas image.
func (a *Atlas) TileRect(tile *TileDefinition) image.Rectangle {
	x := tile.AtlasX * a.Config.TileWidth
	y := tile.AtlasY * a.Config.TileHeight
	return image.Rect(x, y, x+a.Config.TileWidth, y+a.Config.TileHeight)
}

// GetTileSubImage returns the sub-image for a specific tile
func (a *Atlas) GetTileSubImage(tile *TileDefinition) render.Image {
	return a.Image.SubImage(a.TileRect(tile))
}

// GetTileSubImageByName returns the sub-image for a tile by name
func (a *Atlas) GetTileSubImageByName(name string) (render.Image, error) {
	tile, ok := a.GetTile(name)
	if !ok {
		return nil, fmt.Errorf("tile not found: %s", name)
	}
	return a.GetTileSubImage(tile), nil
}
