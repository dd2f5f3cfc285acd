package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"chosenoffset.com/campaignmap/internal/log"
	"chosenoffset.com/campaignmap/internal/placeholders"
	"chosenoffset.com/campaignmap/internal/world/campaign"
	"chosenoffset.com/campaignmap/internal/world/maploader"
)

const atlasName = "sample-atlas"

func main() {
	out := pflag.StringP("out", "o", ".", "output directory")
	size := pflag.IntP("size", "s", placeholders.DefaultTileSize, "tile edge in pixels")
	withAtlas := pflag.Bool("atlas", false, "pack the tiles into a single atlas instead of one PNG each")
	columns := pflag.Int("columns", 10, "atlas columns")
	pflag.Parse()

	log.Info("Campaign map placeholder generator")

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	m := campaign.Sample()
	data := maploader.FromCampaign("Sample", m)

	if *withAtlas {
		cfg, err := placeholders.WriteAtlas(*out, atlasName, m, *size, *columns)
		if err != nil {
			log.Fatalf("Failed to write atlas: %v", err)
		}
		data.Atlas = atlasName + ".json"
		log.Infof("Wrote atlas %s with %d tiles", cfg.Name, len(cfg.Tiles))
	} else {
		n, err := placeholders.WriteTiles(*out, m, *size)
		if err != nil {
			log.Fatalf("Failed to write tiles: %v", err)
		}
		log.Infof("Wrote %d tiles", n)
	}

	mapPath := filepath.Join(*out, "sample.json")
	if err := maploader.SaveMapFile(mapPath, data); err != nil {
		log.Fatalf("Failed to write map: %v", err)
	}
	log.Infof("Wrote %s", mapPath)
}
