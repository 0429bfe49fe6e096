package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"shorts-publisher/config"
	"shorts-publisher/types"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

// Class is the retry classification of a publish failure.
type Class int

const (
	ClassFatal     Class = iota // do not retry
	ClassRetriable              // rate limit or server-side failure
)

func (c Class) String() string {
	if c == ClassRetriable {
		return "retriable"
	}
	return "fatal"
}

// retriableReasons are the googleapi 403 reasons that mean "slow down",
// not "rejected".
var retriableReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
}

// Classify decides whether a publish error is worth retrying. Pure function
// over the error so the retry policy is testable without network calls.
func Classify(err error) Class {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return ClassFatal
	}
	switch {
	case apiErr.Code == 429:
		return ClassRetriable
	case apiErr.Code >= 500:
		return ClassRetriable
	case apiErr.Code == 403:
		for _, e := range apiErr.Errors {
			if retriableReasons[e.Reason] {
				return ClassRetriable
			}
		}
	}
	return ClassFatal
}

// PublishError reports a publish that did not succeed, carrying how many
// attempts were spent and how the final error was classified.
type PublishError struct {
	Attempts int
	Class    Class
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed after %d attempt(s) (%s): %v", e.Attempts, e.Class, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Result is a successful publish: the remote identifier plus the exact title
// used, which the duplicate guard records.
type Result struct {
	VideoID  string
	Title    string
	Attempts int
}

// Publisher performs the remote publish call with bounded retry. The insert
// field is the single network seam; tests replace it.
type Publisher struct {
	cfg *config.UploadConfig

	insert func(ctx context.Context, video *youtube.Video, media io.Reader) (string, error)
	sleep  func(d time.Duration)
}

// New creates a Publisher backed by the YouTube Data API.
func New(cfg *config.UploadConfig, svc *youtube.Service) *Publisher {
	return &Publisher{
		cfg: cfg,
		insert: func(ctx context.Context, video *youtube.Video, media io.Reader) (string, error) {
			call := svc.Videos.Insert([]string{"snippet", "status"}, video).Context(ctx)
			call.NotifySubscribers(cfg.NotifySubscribers)
			call.Media(media)
			uploaded, err := call.Do()
			if err != nil {
				return "", err
			}
			return uploaded.Id, nil
		},
		sleep: time.Sleep,
	}
}

// Upload publishes the file with the resolved metadata, retrying up to
// MaxAttempts times on retriable failures with a linearly increasing delay
// (attempt × base delay). Any fatal-class error stops immediately.
func (p *Publisher) Upload(ctx context.Context, path string, rec types.PublishableRecord) (*Result, error) {
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       rec.Title,
			Description: rec.Description,
			Tags:        rec.Tags,
			CategoryId:  p.cfg.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           p.cfg.Privacy,
			SelfDeclaredMadeForKids: p.cfg.MadeForKids,
		},
	}

	baseDelay := time.Duration(p.cfg.RetryBaseDelaySec * float64(time.Second))

	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		f, err := os.Open(path)
		if err != nil {
			return nil, &PublishError{Attempts: attempt, Class: ClassFatal, Err: err}
		}

		log.Printf("[publish] attempt %d/%d: %q", attempt, p.cfg.MaxAttempts, rec.Title)
		id, err := p.insert(ctx, video, f)
		f.Close()
		if err == nil {
			log.Printf("[publish] ✅ uploaded, video ID: %s", id)
			return &Result{VideoID: id, Title: rec.Title, Attempts: attempt}, nil
		}

		lastErr = err
		if Classify(err) == ClassFatal {
			return nil, &PublishError{Attempts: attempt, Class: ClassFatal, Err: err}
		}
		if attempt < p.cfg.MaxAttempts {
			delay := time.Duration(attempt) * baseDelay
			log.Printf("[publish] retriable failure (%v) — waiting %s", err, delay)
			p.sleep(delay)
		}
	}

	return nil, &PublishError{Attempts: p.cfg.MaxAttempts, Class: ClassRetriable, Err: lastErr}
}
