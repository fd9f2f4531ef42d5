package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GeneratePath creates a timestamped file name for name inside dir
func GeneratePath(dir, name string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.yaml", name, timestamp))
}

// FindLatest finds the most recently modified scene file in dir
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scenes directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var scenes []candidate
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		scenes = append(scenes, candidate{filepath.Join(dir, name), info.ModTime()})
	}

	if len(scenes) == 0 {
		return "", fmt.Errorf("no scene files found in %s", dir)
	}

	// newest first
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].mod.After(scenes[j].mod)
	})

	return scenes[0].path, nil
}
