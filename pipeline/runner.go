package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fatih/color"

	"shorts-publisher/config"
	"shorts-publisher/dupe"
	"shorts-publisher/meta"
	"shorts-publisher/mover"
	"shorts-publisher/preflight"
	"shorts-publisher/publish"
	"shorts-publisher/queue"
	"shorts-publisher/types"
)

// Runner drives queue items through preflight, duplicate check, publish and
// terminal filing. Items are processed strictly sequentially: the guard is
// updated race-free and the remote API is never bursted.
type Runner struct {
	cfg     *config.Config
	channel string
	profile *types.ChannelProfile
	guard   *dupe.Guard

	// Seams over the real collaborators, replaced in tests.
	check   func(ctx context.Context, path string) (*types.PreflightReport, error)
	upload  func(ctx context.Context, path string, rec types.PublishableRecord) (*publish.Result, error)
	sidecar func(videoPath string) *types.Sidecar
	move    func(root string, item types.QueueItem, outcome types.Outcome) error
	sleep   func(d time.Duration)
}

// NewRunner wires a Runner to the real validator and publisher.
func NewRunner(cfg *config.Config, channelKey string, profile *types.ChannelProfile, guard *dupe.Guard, pub *publish.Publisher) *Runner {
	v := preflight.New(&cfg.Preflight)
	return &Runner{
		cfg:     cfg,
		channel: channelKey,
		profile: profile,
		guard:   guard,
		check:   v.Check,
		upload:  pub.Upload,
		sidecar: queue.LoadSidecar,
		move:    mover.File,
		sleep:   time.Sleep,
	}
}

// ProcessOne takes a single queue item to exactly one terminal directory.
// The returned outcome reflects where the item was filed; the error is only
// informational (the batch never aborts on a per-item failure).
func (r *Runner) ProcessOne(ctx context.Context, item types.QueueItem) (types.Outcome, error) {
	if _, err := r.check(ctx, item.Path); err != nil {
		log.Printf("[pipeline] ❌ %s rejected: %v", item.Base(), err)
		r.file(item, types.OutcomeFailed)
		return types.OutcomeFailed, err
	}

	rec := meta.Resolve(&r.cfg.Metadata, r.profile, r.sidecar(item.Path), item.Title())

	if r.guard.IsDuplicate(rec.Title) {
		log.Printf("[pipeline] ⏭  %s duplicate title %q — skipping publish", item.Base(), rec.Title)
		r.file(item, types.OutcomeDups)
		return types.OutcomeDups, nil
	}

	result, err := r.upload(ctx, item.Path, rec)
	if err != nil {
		log.Printf("[pipeline] ❌ %s publish failed: %v", item.Base(), err)
		r.file(item, types.OutcomeFailed)
		return types.OutcomeFailed, err
	}

	// Record before the platform's own index can see it, so later items in
	// this run cannot repeat the title.
	r.guard.Record(result.Title)

	log.Printf("[pipeline] ✅ %s published as %q (video %s, %d attempt(s))",
		item.Base(), result.Title, result.VideoID, result.Attempts)
	r.file(item, types.OutcomeSent)
	return types.OutcomeSent, nil
}

// file moves the item to its terminal directory. A move failure is only a
// warning: the remote side effect already happened and is not rolled back.
func (r *Runner) file(item types.QueueItem, outcome types.Outcome) {
	if err := r.move(r.cfg.Paths.VideosRoot, item, outcome); err != nil {
		log.Printf("[pipeline] ⚠️  could not move %s to %s: %v", item.Base(), outcome, err)
	}
}

// RunOne processes a single file given by path. The path must lie under an
// intake queue; anything else is an argument error.
func (r *Runner) RunOne(ctx context.Context, path string) error {
	item, err := types.ParseQueuePath(r.cfg.Paths.VideosRoot, path)
	if err != nil {
		return err
	}
	if item.Channel != r.channel {
		return fmt.Errorf("%s belongs to channel %q, not %q", path, item.Channel, r.channel)
	}
	outcome, _ := r.ProcessOne(ctx, item)
	log.Printf("[pipeline] outcome: %s", outcome)
	return nil
}

// RunBatch pulls up to max successful publishes from the oldest available
// items, scanning up to scan_factor×max candidates so failures and
// duplicates do not starve the batch. Between successful publishes the loop
// sleeps for the throttle interval.
func (r *Runner) RunBatch(ctx context.Context, max int) error {
	items, err := queue.Scan(r.cfg.Paths.VideosRoot, r.channel, r.cfg.Batch.ScanFactor*max)
	if err != nil {
		return fmt.Errorf("scan queue: %w", err)
	}
	if len(items) == 0 {
		log.Printf("[pipeline] queue is empty for channel %s — nothing to do", r.channel)
		return nil
	}
	log.Printf("[pipeline] %d candidate(s) queued for channel %s", len(items), r.channel)

	throttle := time.Duration(r.cfg.Upload.ThrottleSec * float64(time.Second))

	sent := 0
	for _, item := range items {
		if sent >= max {
			break
		}
		outcome, _ := r.ProcessOne(ctx, item)
		if outcome == types.OutcomeSent {
			sent++
			if sent < max {
				r.sleep(throttle)
			}
		}
	}

	summary := color.New(color.FgHiGreen)
	if sent == 0 {
		summary = color.New(color.FgYellow)
	}
	log.Printf("[pipeline] %s", summary.Sprintf("batch done: %d/%d published", sent, max))
	return nil
}
