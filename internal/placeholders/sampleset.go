package placeholders

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"chosenoffset.com/campaignmap/internal/world/atlas"
	"chosenoffset.com/campaignmap/internal/world/campaign"
)

// refs returns the distinct tile image references of m in iteration order.
func refs(m *campaign.Map) []string {
	seen := make(map[string]bool)
	var out []string
	m.Each(func(t *campaign.Tile) {
		if !seen[t.Image()] {
			seen[t.Image()] = true
			out = append(out, t.Image())
		}
	})
	return out
}

// WriteTiles writes one placeholder PNG per distinct tile image of m, at the
// reference's path under dir. It returns the number of files written.
func WriteTiles(dir string, m *campaign.Map, size int) (int, error) {
	written := 0
	for _, ref := range refs(m) {
		path := filepath.Join(dir, filepath.FromSlash(ref))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("failed to create directory for %s: %w", ref, err)
		}
		if err := SavePNG(Tile(ref, size), path); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written++
	}
	return written, nil
}

// WriteAtlas packs placeholders for every tile image of m into a single
// atlas, writing name.png and its config name.json to dir.
func WriteAtlas(dir, name string, m *campaign.Map, size, columns int) (*atlas.AtlasConfig, error) {
	if columns <= 0 {
		return nil, fmt.Errorf("invalid atlas column count: %d", columns)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create atlas directory: %w", err)
	}

	names := refs(m)
	tiles := make([]*image.RGBA, len(names))
	config := &atlas.AtlasConfig{
		Name:       name,
		ImagePath:  name + ".png",
		TileWidth:  size,
		TileHeight: size,
		Tiles:      make([]atlas.TileDefinition, len(names)),
	}
	for i, ref := range names {
		tiles[i] = Tile(ref, size)
		config.Tiles[i] = atlas.TileDefinition{Name: ref, AtlasX: i % columns, AtlasY: i / columns}
	}

	if err := SavePNG(CreateAtlas(tiles, columns, size), filepath.Join(dir, config.ImagePath)); err != nil {
		return nil, fmt.Errorf("failed to write atlas image: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode atlas config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write atlas config: %w", err)
	}
	return config, nil
}
