package preflight

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ScanBlackFrames runs ffmpeg's blackdetect filter over the whole file and
// reports whether any black segment of at least minSec seconds was found.
// blackdetect logs its findings on stderr.
func ScanBlackFrames(ctx context.Context, path string, minSec float64) (bool, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-i", path,
		"-vf", fmt.Sprintf("blackdetect=d=%.2f:pix_th=0.10", minSec),
		"-an",
		"-f", "null", "-",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("ffmpeg blackdetect %q: %w", path, err)
	}
	return hasBlackSegment(stderr.String()), nil
}

// hasBlackSegment looks for the filter's detection payload. Matching on the
// filter name alone would trip on banner/config lines some ffmpeg builds
// print; only actual detections carry black_start.
func hasBlackSegment(stderr string) bool {
	return strings.Contains(stderr, "black_start:")
}
