package maploader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MapEntry represents a discoverable map file in a directory
type MapEntry struct {
	Name string // Map name, or the file name when the map has none
	Path string
}

// ScanDirectory lists the map files in dir. JSON files that are not maps
// (atlas configs, for instance) are skipped.
func ScanDirectory(dir string) ([]MapEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read map directory: %w", err)
	}

	var maps []MapEntry
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}

		path := filepath.Join(dir, name)
		header, ok := readHeader(path)
		if !ok {
			continue
		}

		display := header.Name
		if display == "" {
			display = strings.TrimSuffix(name, filepath.Ext(name))
		}
		maps = append(maps, MapEntry{Name: display, Path: path})
	}

	sort.Slice(maps, func(i, j int) bool { return maps[i].Path < maps[j].Path })
	return maps, nil
}

type mapHeader struct {
	Name   string            `json:"name"`
	Chunks []json.RawMessage `json:"chunks"`
}

func readHeader(path string) (mapHeader, bool) {
	var header mapHeader
	data, err := os.ReadFile(path)
	if err != nil {
		return header, false
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return header, false
	}
	return header, header.Chunks != nil
}
