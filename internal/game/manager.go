package game

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/campaignmap/internal/log"
	"chosenoffset.com/campaignmap/internal/render"
	"chosenoffset.com/campaignmap/internal/world/atlas"
	"chosenoffset.com/campaignmap/internal/world/campaign"
	"chosenoffset.com/campaignmap/internal/world/maploader"
)

// Manager owns the running Game and switches between map files with Tab.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Loader       render.ResourceLoader
	Images       ImageSource
	Atlases      *atlas.Manager
	Options      Options
	Game         *Game

	// Maps lists the files Tab cycles through; current indexes it, or is -1.
	Maps    []maploader.MapEntry
	current int

	logger logrus.FieldLogger
}

// NewManager creates a new game manager. atlases may be nil when maps carry
// no atlas.
func NewManager(r render.Renderer, inputMgr render.InputManager, loader render.ResourceLoader, images ImageSource, atlases *atlas.Manager, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "manager")
	}
	return &Manager{
		ScreenWidth:  opts.Width,
		ScreenHeight: opts.Height,
		Renderer:     r,
		InputMgr:     inputMgr,
		Loader:       loader,
		Images:       images,
		Atlases:      atlases,
		Options:      opts,
		current:      -1,
		logger:       logger,
	}
}

// SetMaps sets the map files Tab cycles through.
func (m *Manager) SetMaps(entries []maploader.MapEntry) {
	m.Maps = entries
}

// Show starts a game on an already built map, disposing the previous one.
func (m *Manager) Show(cm *campaign.Map) {
	opts := m.Options
	opts.Width, opts.Height = m.ScreenWidth, m.ScreenHeight
	if m.Game != nil {
		m.Game.Dispose()
	}
	m.Game = New(m.Renderer, m.InputMgr, m.Images, cm, opts)
}

// LoadGame loads the map file at path, registers its atlas and shows it.
func (m *Manager) LoadGame(path string) error {
	m.logger.Infof("Loading map: %s", path)

	loaded, err := maploader.LoadMap(path)
	if err != nil {
		return fmt.Errorf("failed to load map: %w", err)
	}

	if atlasPath := loaded.AtlasPath(); atlasPath != "" {
		if err := m.registerAtlas(atlasPath); err != nil {
			// Tiles fall back to files on disk or placeholders
			m.logger.Warnf("Failed to load atlas %s: %v", atlasPath, err)
		}
	}

	m.logger.Infof("Loaded map: %s (%dx%d)", loaded.Data.Name, loaded.Data.Width, loaded.Data.Height)
	m.Show(loaded.Campaign)

	for i, e := range m.Maps {
		if e.Path == path {
			m.current = i
		}
	}
	return nil
}

func (m *Manager) registerAtlas(path string) error {
	if m.Atlases == nil || m.Loader == nil {
		return fmt.Errorf("no atlas manager configured")
	}

	cfg, err := atlas.LoadConfig(path)
	if err != nil {
		return err
	}
	if _, ok := m.Atlases.GetAtlasByName(cfg.Name); ok {
		return nil
	}
	return m.Atlases.LoadAtlasConfig(path, m.Loader)
}

// NextMap loads the map after the current one, wrapping around.
func (m *Manager) NextMap() error {
	if len(m.Maps) == 0 {
		return nil
	}
	next := (m.current + 1) % len(m.Maps)
	return m.LoadGame(m.Maps[next].Path)
}

// Update updates the game state.
func (m *Manager) Update() error {
	if m.InputMgr.IsKeyJustPressed(render.KeyTab) && len(m.Maps) > 1 {
		if err := m.NextMap(); err != nil {
			// Keep showing the current map
			m.logger.Errorf("Failed to switch map: %v", err)
		}
	}

	if m.Game != nil {
		return m.Game.Update()
	}
	return nil
}

// Draw draws the current game.
func (m *Manager) Draw(screen render.Image) {
	if m.Game == nil {
		screen.Fill(backgroundColor)
		return
	}
	m.Game.Draw(screen)
}

// Layout handles window resize.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	m.ScreenWidth = outsideWidth
	m.ScreenHeight = outsideHeight
	if m.Game != nil {
		m.Game.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
