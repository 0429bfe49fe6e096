package types

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Outcome is the terminal filing destination for a processed queue item.
// The filesystem location of a file is its only durable state.
type Outcome string

const (
	OutcomeSent   Outcome = "sent"
	OutcomeFailed Outcome = "failed"
	OutcomeDups   Outcome = "dups"
)

// QueueItem identifies one file awaiting publication. Channel and date are
// recorded once at discovery time; nothing downstream re-parses the path.
type QueueItem struct {
	Path    string // absolute path to the media file
	Channel string // language/channel key, e.g. "fr"
	Date    string // date partition, e.g. "2025-10-15"
}

// Base returns the file's base name without directory.
func (q QueueItem) Base() string {
	return filepath.Base(q.Path)
}

// Title returns the base name stripped of its extension, used as the
// fallback title when no sidecar is present.
func (q QueueItem) Title() string {
	base := q.Base()
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var datePartitionRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDatePartition reports whether name looks like a YYYY-MM-DD directory.
func IsDatePartition(name string) bool {
	return datePartitionRe.MatchString(name)
}

// ParseQueuePath builds a QueueItem from a path expected to lie under
// <root>/<channel>/queue/<YYYY-MM-DD>/<name>. It is the single place that
// derives channel and date from a path; files outside an intake queue are
// rejected.
func ParseQueuePath(root, path string) (QueueItem, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return QueueItem{}, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return QueueItem{}, err
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return QueueItem{}, fmt.Errorf("%s is not under the videos root %s", path, root)
	}

	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 4 || parts[1] != "queue" || !IsDatePartition(parts[2]) {
		return QueueItem{}, fmt.Errorf("%s is not an intake queue path (<channel>/queue/<YYYY-MM-DD>/<file>)", path)
	}

	return QueueItem{
		Path:    absPath,
		Channel: parts[0],
		Date:    parts[2],
	}, nil
}

// Sidecar is the optional per-file metadata override produced by the
// content-generation collaborator. All fields may be empty.
type Sidecar struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ChannelProfile holds per-channel publishing defaults loaded once per run.
type ChannelProfile struct {
	TitleSuffix string
	Description string
	Tags        []string
	TagsExtra   string // appended to descriptions on a new line
}

// PublishableRecord is the resolved metadata triple actually sent to the
// platform. Derived deterministically from Sidecar and ChannelProfile;
// never persisted.
type PublishableRecord struct {
	Title       string
	Description string
	Tags        []string
}

// PreflightReport carries the measurements taken during preflight. Used
// only to accept or reject an item.
type PreflightReport struct {
	SizeBytes   int64
	ModTime     time.Time
	DurationSec float64
	Width       int
	Height      int
	VideoCodec  string
}
