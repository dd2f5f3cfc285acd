package atlas

import (
	"fmt"
	"sort"

	"chosenoffset.com/campaignmap/internal/render"
)

// Manager resolves tile names across several atlases. Atlases are searched
// in registration order.
type Manager struct {
	atlases       []*Atlas
	atlasesByName map[string]*Atlas
}

// NewManager creates a new atlas manager
func NewManager() *Manager {
	return &Manager{
		atlasesByName: make(map[string]*Atlas),
	}
}

// LoadAtlasConfig loads an atlas from a config file and registers it
func (m *Manager) LoadAtlasConfig(configPath string, loader render.ResourceLoader) error {
	atlas, err := LoadAtlas(configPath, loader)
	if err != nil {
		return err
	}

	return m.RegisterAtlas(atlas)
}

// RegisterAtlas registers a loaded atlas with the manager
func (m *Manager) RegisterAtlas(atlas *Atlas) error {
	if atlas.Config.Name == "" {
		return fmt.Errorf("atlas name cannot be empty")
	}

	if _, exists := m.atlasesByName[atlas.Config.Name]; exists {
		return fmt.Errorf("atlas %s is already registered", atlas.Config.Name)
	}

	m.atlases = append(m.atlases, atlas)
	m.atlasesByName[atlas.Config.Name] = atlas

	return nil
}

// GetAtlasByName returns an atlas by its name
func (m *Manager) GetAtlasByName(name string) (*Atlas, bool) {
	atlas, ok := m.atlasesByName[name]
	return atlas, ok
}

// Lookup returns the image of the first registered tile called name.
func (m *Manager) Lookup(name string) (render.Image, bool) {
	for _, atlas := range m.atlases {
		if img, err := atlas.GetTileSubImageByName(name); err == nil {
			return img, true
		}
	}
	return nil, false
}

// GetNames returns all registered atlas names, sorted.
func (m *Manager) GetNames() []string {
	names := make([]string, 0, len(m.atlasesByName))
	for name := range m.atlasesByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
