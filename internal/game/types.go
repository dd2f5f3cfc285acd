package game

import (
	"time"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/campaignmap/internal/render/mapview"
)

// ImageSource resolves tile images and applies finished loads when pumped.
type ImageSource interface {
	mapview.ImageSource
	Pump() int
}

// Options configures a Game.
type Options struct {
	Width, Height int
	TileSize      int
	FadeRadius    int
	DoubleClick   time.Duration
	Clock         func() time.Time
	Logger        logrus.FieldLogger
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}
