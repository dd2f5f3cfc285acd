package maploader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"chosenoffset.com/campaignmap/internal/world/campaign"
)

// ErrInvalidMap is wrapped by every validation failure.
var ErrInvalidMap = errors.New("invalid map")

// ChunkData describes one tile of a map file.
type ChunkData struct {
	Image   string `json:"image"`
	Visible *bool  `json:"visible,omitempty"` // Defaults to true
}

// IsVisible reports the chunk's starting visibility.
func (c ChunkData) IsVisible() bool {
	return c.Visible == nil || *c.Visible
}

// MapData represents a map file
type MapData struct {
	Name   string        `json:"name"`
	Image  string        `json:"image"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Atlas  string        `json:"atlas,omitempty"` // Atlas config, relative to the map file
	Chunks [][]ChunkData `json:"chunks"`          // 2D array of chunks [y][x]
}

// Map is a loaded map file
type Map struct {
	Path     string
	Data     *MapData
	Campaign *campaign.Map
}

// AtlasPath returns the map's atlas config path resolved against the map
// file, or "" when the map has none.
func (m *Map) AtlasPath() string {
	if m.Data.Atlas == "" {
		return ""
	}
	if filepath.IsAbs(m.Data.Atlas) {
		return m.Data.Atlas
	}
	return filepath.Join(filepath.Dir(m.Path), m.Data.Atlas)
}

// LoadMap loads a map from a JSON file
func LoadMap(mapPath string) (*Map, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", mapPath, err)
	}

	mapData, err := ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("map file %s: %w", mapPath, err)
	}

	m, err := mapData.Build()
	if err != nil {
		return nil, fmt.Errorf("map file %s: %w", mapPath, err)
	}

	return &Map{Path: mapPath, Data: mapData, Campaign: m}, nil
}

// ParseMap parses and validates map JSON.
func ParseMap(data []byte) (*MapData, error) {
	var mapData MapData
	if err := json.Unmarshal(data, &mapData); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}

	if err := validateMapData(&mapData); err != nil {
		return nil, err
	}
	return &mapData, nil
}

// validateMapData checks if the map data is valid
func validateMapData(data *MapData) error {
	if data.Width <= 0 || data.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidMap, data.Width, data.Height)
	}

	if len(data.Chunks) != data.Height {
		return fmt.Errorf("%w: chunks height mismatch: expected %d, got %d", ErrInvalidMap, data.Height, len(data.Chunks))
	}

	for y, row := range data.Chunks {
		if len(row) != data.Width {
			return fmt.Errorf("%w: chunks width mismatch at row %d: expected %d, got %d", ErrInvalidMap, y, data.Width, len(row))
		}
		for x, chunk := range row {
			if chunk.Image == "" {
				return fmt.Errorf("%w: chunk (%d, %d) has no image", ErrInvalidMap, x, y)
			}
		}
	}

	return nil
}

// Build creates the campaign map described by data.
func (data *MapData) Build() (*campaign.Map, error) {
	tiles := make([][]*campaign.Tile, data.Width)
	for x := range tiles {
		tiles[x] = make([]*campaign.Tile, data.Height)
		for y := range tiles[x] {
			chunk := data.Chunks[y][x]
			tiles[x][y] = campaign.NewTile(x, y, chunk.Image, chunk.IsVisible())
		}
	}
	return campaign.New(data.Image, tiles)
}

// FromCampaign describes m as map data. Visibility is recorded as it
// currently stands.
func FromCampaign(name string, m *campaign.Map) *MapData {
	data := &MapData{
		Name:   name,
		Image:  m.Image(),
		Width:  m.Width(),
		Height: m.Height(),
		Chunks: make([][]ChunkData, m.Height()),
	}
	for y := range data.Chunks {
		data.Chunks[y] = make([]ChunkData, m.Width())
	}
	m.Each(func(t *campaign.Tile) {
		visible := t.Visible
		data.Chunks[t.Y()][t.X()] = ChunkData{Image: t.Image(), Visible: &visible}
	})
	return data
}

// SaveMapFile writes data as indented JSON.
func SaveMapFile(path string, data *MapData) error {
	if err := validateMapData(data); err != nil {
		return err
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode map: %w", err)
	}

	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write map file %s: %w", path, err)
	}
	return nil
}
