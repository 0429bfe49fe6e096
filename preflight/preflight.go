package preflight

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"shorts-publisher/config"
	"shorts-publisher/types"
)

// ValidationError describes the first preflight rule a file violated.
type ValidationError struct {
	Rule   string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("preflight %s: %s", e.Rule, e.Detail)
}

// Validator runs the pre-publish checks. The probe and black-frame calls are
// function fields so tests can run without ffmpeg installed.
type Validator struct {
	cfg *config.PreflightConfig

	probe     func(ctx context.Context, path string) (*ProbeResult, error)
	scanBlack func(ctx context.Context, path string, minSec float64) (bool, error)
	now       func() time.Time
}

// New creates a Validator wired to the real ffprobe/ffmpeg binaries.
func New(cfg *config.PreflightConfig) *Validator {
	return &Validator{
		cfg:       cfg,
		probe:     Probe,
		scanBlack: ScanBlackFrames,
		now:       time.Now,
	}
}

// Check validates a file against every rule in fixed order, cheapest first,
// and fails fast on the first violation. Local filesystem checks run before
// the ffprobe call so obviously-bad files never cost a probe.
func (v *Validator) Check(ctx context.Context, path string) (*types.PreflightReport, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, &ValidationError{Rule: "exists", Detail: fmt.Sprintf("cannot stat %s: %v", path, err)}
	}
	if !fi.Mode().IsRegular() {
		return nil, &ValidationError{Rule: "exists", Detail: fmt.Sprintf("%s is not a regular file", path)}
	}

	if fi.Size() < v.cfg.MinSizeBytes {
		return nil, &ValidationError{
			Rule:   "min_size",
			Detail: fmt.Sprintf("%d bytes < %d minimum (truncated write?)", fi.Size(), v.cfg.MinSizeBytes),
		}
	}

	cooldown := time.Duration(v.cfg.MtimeCooldownSec) * time.Second
	if age := v.now().Sub(fi.ModTime()); age < cooldown {
		return nil, &ValidationError{
			Rule:   "mtime_cooldown",
			Detail: fmt.Sprintf("modified %s ago, need %s (still being written?)", age.Round(time.Second), cooldown),
		}
	}

	probe, err := v.probe(ctx, path)
	if err != nil {
		return nil, &ValidationError{Rule: "probe", Detail: err.Error()}
	}
	if !probe.HasVideo {
		return nil, &ValidationError{Rule: "video_stream", Detail: "no video stream present"}
	}

	if probe.DurationSec < v.cfg.MinDurationSec || probe.DurationSec > v.cfg.MaxDurationSec {
		return nil, &ValidationError{
			Rule: "duration",
			Detail: fmt.Sprintf("%.1fs outside [%.0fs, %.0fs]",
				probe.DurationSec, v.cfg.MinDurationSec, v.cfg.MaxDurationSec),
		}
	}

	if probe.Width < v.cfg.MinWidth || probe.Height < v.cfg.MinHeight {
		return nil, &ValidationError{
			Rule: "resolution",
			Detail: fmt.Sprintf("%dx%d below %dx%d minimum",
				probe.Width, probe.Height, v.cfg.MinWidth, v.cfg.MinHeight),
		}
	}

	if v.cfg.BlackdetectEnabled {
		black, err := v.scanBlack(ctx, path, v.cfg.BlackdetectMinSec)
		if err != nil {
			// Scan errors fail the rule: a file we cannot scan is a file
			// we cannot clear.
			return nil, &ValidationError{Rule: "blackdetect", Detail: err.Error()}
		}
		if black {
			return nil, &ValidationError{Rule: "blackdetect", Detail: "black segment detected"}
		}
	}

	log.Printf("[preflight] %s OK (%.1fs, %dx%d, %d bytes)",
		path, probe.DurationSec, probe.Width, probe.Height, fi.Size())

	return &types.PreflightReport{
		SizeBytes:   fi.Size(),
		ModTime:     fi.ModTime(),
		DurationSec: probe.DurationSec,
		Width:       probe.Width,
		Height:      probe.Height,
		VideoCodec:  probe.VideoCodec,
	}, nil
}
