package publish

import (
	"context"
	"fmt"
	"time"

	"shorts-publisher/channel"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// NewService builds an authenticated YouTube client from a refresh token.
// The token expiry is set in the past to force an immediate refresh.
func NewService(ctx context.Context, creds *channel.Credentials) (*youtube.Service, error) {
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}

	token := &oauth2.Token{
		RefreshToken: creds.RefreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))
	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return svc, nil
}
