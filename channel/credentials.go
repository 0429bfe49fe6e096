package channel

import (
	"fmt"
	"os"
	"strings"
)

// Credentials is the OAuth triple needed to publish on a channel.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// ConfigError reports a missing credential variable. It is fatal before any
// queue item is touched.
type ConfigError struct {
	Variable string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required environment variable %s", e.Variable)
}

// ResolveCredentials reads the credential triple from the environment.
// The refresh token is looked up per channel (YT_REFRESH_TOKEN_FR for "fr")
// with YT_REFRESH_TOKEN as the generic fallback.
func ResolveCredentials(channel string) (*Credentials, error) {
	clientID := os.Getenv("YT_CLIENT_ID")
	if clientID == "" {
		return nil, &ConfigError{Variable: "YT_CLIENT_ID"}
	}
	clientSecret := os.Getenv("YT_CLIENT_SECRET")
	if clientSecret == "" {
		return nil, &ConfigError{Variable: "YT_CLIENT_SECRET"}
	}

	perChannel := "YT_REFRESH_TOKEN_" + strings.ToUpper(channel)
	refreshToken := os.Getenv(perChannel)
	if refreshToken == "" {
		refreshToken = os.Getenv("YT_REFRESH_TOKEN")
	}
	if refreshToken == "" {
		return nil, &ConfigError{Variable: perChannel}
	}

	return &Credentials{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
	}, nil
}
