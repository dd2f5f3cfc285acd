package main

import (
	"github.com/spf13/pflag"

	"chosenoffset.com/campaignmap/internal/assets"
	"chosenoffset.com/campaignmap/internal/config"
	"chosenoffset.com/campaignmap/internal/game"
	"chosenoffset.com/campaignmap/internal/log"
	ebitenrender "chosenoffset.com/campaignmap/internal/render/ebiten"
	"chosenoffset.com/campaignmap/internal/world/atlas"
	"chosenoffset.com/campaignmap/internal/world/campaign"
	"chosenoffset.com/campaignmap/internal/world/maploader"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "config file (default campaignmap.yaml in . or ./config)")
	mapsDir := pflag.StringP("maps", "m", "", "directory of map files to cycle through with Tab")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := log.Setup(log.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	loader := ebitenrender.NewResourceLoader()
	engine := ebitenrender.NewEngine()

	atlases := atlas.NewManager()
	images, err := assets.NewLoader(renderer,
		assets.WithRoot(cfg.Assets.Root),
		assets.WithAtlases(atlases),
		assets.WithWorkers(cfg.Assets.Workers),
		assets.WithCacheSize(cfg.Assets.CacheSize),
		assets.WithTileSize(cfg.Map.TileSize),
	)
	if err != nil {
		log.Fatalf("Failed to create asset loader: %v", err)
	}
	defer images.Close()

	manager := game.NewManager(renderer, inputMgr, loader, images, atlases, game.Options{
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		TileSize:    cfg.Map.TileSize,
		FadeRadius:  cfg.Map.FadeRadius,
		DoubleClick: cfg.Input.DoubleClick,
	})

	if *mapsDir != "" {
		entries, err := maploader.ScanDirectory(*mapsDir)
		if err != nil {
			log.Fatalf("Failed to scan map directory: %v", err)
		}
		log.Infof("Found %d maps in %s", len(entries), *mapsDir)
		manager.SetMaps(entries)
	}

	switch {
	case cfg.Map.File != "":
		err = manager.LoadGame(cfg.Map.File)
	case len(manager.Maps) > 0:
		err = manager.NextMap()
	default:
		log.Info("No map file configured, showing the sample map")
		manager.Show(campaign.Sample())
	}
	if err != nil {
		log.Fatalf("Failed to load map: %v", err)
	}

	// Set up the window
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(true)

	log.Info("Starting map viewer...")
	if err := engine.RunGame(manager); err != nil {
		log.Fatalf("Game loop failed: %v", err)
	}
}
