package dupe

import (
	"context"
	"fmt"

	"google.golang.org/api/youtube/v3"
)

// FetchRecentTitles returns up to max titles of the authenticated channel's
// most recent uploads, newest first.
func FetchRecentTitles(ctx context.Context, svc *youtube.Service, max int64) ([]string, error) {
	resp, err := svc.Search.List([]string{"snippet"}).
		ForMine(true).
		Type("video").
		Order("date").
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list recent uploads: %w", err)
	}

	var titles []string
	for _, item := range resp.Items {
		if item.Snippet != nil {
			titles = append(titles, item.Snippet.Title)
		}
	}
	return titles, nil
}
