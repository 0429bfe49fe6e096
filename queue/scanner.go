package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shorts-publisher/types"
)

// Supported media file extensions (lowercase, with leading dot).
var mediaExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
}

// Scan returns up to max queue items for a channel, oldest date partition
// first, file names sorted within a partition. A missing intake directory
// means there is nothing to do and yields an empty slice.
func Scan(root, channel string, max int) ([]types.QueueItem, error) {
	queueDir := filepath.Join(root, channel, "queue")
	entries, err := os.ReadDir(queueDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var partitions []string
	for _, e := range entries {
		if e.IsDir() && types.IsDatePartition(e.Name()) {
			partitions = append(partitions, e.Name())
		}
	}
	sort.Strings(partitions)

	var items []types.QueueItem
	for _, date := range partitions {
		dir := filepath.Join(queueDir, date)
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			if mediaExtensions[strings.ToLower(filepath.Ext(f.Name()))] {
				names = append(names, f.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			abs, err := filepath.Abs(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			items = append(items, types.QueueItem{
				Path:    abs,
				Channel: channel,
				Date:    date,
			})
			if len(items) >= max {
				return items, nil
			}
		}
	}
	return items, nil
}

// SidecarPath returns the path of the sidecar belonging to a media file
// (same base name, .json extension).
func SidecarPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + ".json"
}

// LoadSidecar reads the sidecar next to videoPath. A missing or malformed
// sidecar is treated as absent, never as an error.
func LoadSidecar(videoPath string) *types.Sidecar {
	data, err := os.ReadFile(SidecarPath(videoPath))
	if err != nil {
		return nil
	}
	var sc types.Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil
	}
	return &sc
}
