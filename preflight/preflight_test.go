package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shorts-publisher/config"
)

func testCfg() *config.PreflightConfig {
	return &config.PreflightConfig{
		MinSizeBytes:     1000,
		MtimeCooldownSec: 30,
		MinDurationSec:   8,
		MaxDurationSec:   60,
		MinWidth:         720,
		MinHeight:        1280,
	}
}

// writeFile creates a file of n bytes with its mtime pushed age into the past.
func writeFile(t *testing.T, dir, name string, n int, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, n), 0644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
	return path
}

func stubValidator(cfg *config.PreflightConfig, probe ProbeResult) *Validator {
	return &Validator{
		cfg: cfg,
		probe: func(ctx context.Context, path string) (*ProbeResult, error) {
			p := probe
			return &p, nil
		},
		now: time.Now,
	}
}

func assertRule(t *testing.T, err error, rule string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Rule != rule {
		t.Errorf("violated rule = %q, want %q", verr.Rule, rule)
	}
}

func TestCheckPasses(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ok.mp4", 2000, 5*time.Minute)

	v := stubValidator(testCfg(), ProbeResult{
		HasVideo: true, DurationSec: 15, Width: 1080, Height: 1920, VideoCodec: "h264",
	})

	report, err := v.Check(context.Background(), path)
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}
	if report.DurationSec != 15 || report.Width != 1080 || report.Height != 1920 {
		t.Errorf("unexpected report: %+v", report)
	}
	if report.SizeBytes != 2000 {
		t.Errorf("SizeBytes = %d, want 2000", report.SizeBytes)
	}
}

func TestCheckMissingFile(t *testing.T) {
	v := stubValidator(testCfg(), ProbeResult{HasVideo: true})
	_, err := v.Check(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"))
	assertRule(t, err, "exists")
}

func TestCheckSizeBeforeDuration(t *testing.T) {
	// A file violating both the size rule and the duration rule must report
	// the size violation: checks run in fixed order, cheapest first.
	dir := t.TempDir()
	path := writeFile(t, dir, "tiny.mp4", 10, 5*time.Minute)

	v := stubValidator(testCfg(), ProbeResult{
		HasVideo: true, DurationSec: 2, Width: 1080, Height: 1920,
	})

	_, err := v.Check(context.Background(), path)
	assertRule(t, err, "min_size")
}

func TestCheckMtimeCooldown(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fresh.mp4", 2000, 5*time.Second)

	v := stubValidator(testCfg(), ProbeResult{
		HasVideo: true, DurationSec: 15, Width: 1080, Height: 1920,
	})

	_, err := v.Check(context.Background(), path)
	assertRule(t, err, "mtime_cooldown")
}

func TestCheckProbeRules(t *testing.T) {
	cases := []struct {
		name     string
		probe    ProbeResult
		wantRule string
	}{
		{
			name:     "no video stream",
			probe:    ProbeResult{HasVideo: false},
			wantRule: "video_stream",
		},
		{
			name:     "too short",
			probe:    ProbeResult{HasVideo: true, DurationSec: 3, Width: 1080, Height: 1920},
			wantRule: "duration",
		},
		{
			name:     "too long",
			probe:    ProbeResult{HasVideo: true, DurationSec: 90, Width: 1080, Height: 1920},
			wantRule: "duration",
		},
		{
			name:     "low resolution",
			probe:    ProbeResult{HasVideo: true, DurationSec: 15, Width: 640, Height: 360},
			wantRule: "resolution",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "f.mp4", 2000, 5*time.Minute)
			v := stubValidator(testCfg(), tc.probe)
			_, err := v.Check(context.Background(), path)
			assertRule(t, err, tc.wantRule)
		})
	}
}

func TestCheckBlackdetect(t *testing.T) {
	cfg := testCfg()
	cfg.BlackdetectEnabled = true
	cfg.BlackdetectMinSec = 0.5

	dir := t.TempDir()
	path := writeFile(t, dir, "f.mp4", 2000, 5*time.Minute)

	v := stubValidator(cfg, ProbeResult{
		HasVideo: true, DurationSec: 15, Width: 1080, Height: 1920,
	})
	v.scanBlack = func(ctx context.Context, path string, minSec float64) (bool, error) {
		return true, nil
	}

	_, err := v.Check(context.Background(), path)
	assertRule(t, err, "blackdetect")
}

func TestParseProbeJSON(t *testing.T) {
	raw := []byte(`{
		"format": {"duration": "15.360000", "size": "2048000"},
		"streams": [
			{"codec_type": "audio", "codec_name": "aac"},
			{"codec_type": "video", "codec_name": "h264", "width": 1080, "height": 1920}
		]
	}`)

	pr, err := ParseProbeJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !pr.HasVideo {
		t.Error("video stream not detected")
	}
	if pr.DurationSec != 15.36 {
		t.Errorf("DurationSec = %v, want 15.36", pr.DurationSec)
	}
	if pr.Width != 1080 || pr.Height != 1920 {
		t.Errorf("resolution = %dx%d, want 1080x1920", pr.Width, pr.Height)
	}
	if pr.VideoCodec != "h264" {
		t.Errorf("VideoCodec = %q, want h264", pr.VideoCodec)
	}
}

func TestParseProbeJSONSkipsAttachedPic(t *testing.T) {
	raw := []byte(`{
		"format": {"duration": "15.0"},
		"streams": [
			{"codec_type": "video", "codec_name": "mjpeg", "width": 600, "height": 600,
			 "disposition": {"attached_pic": 1}}
		]
	}`)

	pr, err := ParseProbeJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	if pr.HasVideo {
		t.Error("cover art counted as a video stream")
	}
}
