package meta

import (
	"strings"
	"unicode/utf8"

	"shorts-publisher/config"
	"shorts-publisher/types"
)

// Resolve merges the channel profile with a per-file sidecar into the final
// publishable metadata. Sidecar fields win where present. The resolution is
// pure and deterministic so the duplicate guard can predict the title before
// anything is published, and idempotent so re-resolving never double-appends
// the title suffix.
func Resolve(cfg *config.MetadataConfig, profile *types.ChannelProfile, sidecar *types.Sidecar, basename string) types.PublishableRecord {
	return types.PublishableRecord{
		Title:       resolveTitle(cfg, profile, sidecar, basename),
		Description: resolveDescription(cfg, profile, sidecar),
		Tags:        resolveTags(cfg, profile, sidecar),
	}
}

func resolveTitle(cfg *config.MetadataConfig, profile *types.ChannelProfile, sidecar *types.Sidecar, basename string) string {
	title := basename
	if sidecar != nil && sidecar.Title != "" {
		title = sidecar.Title
	}
	title = truncate(title, cfg.TitleMaxChars)

	// The profile parser trims values, so the suffix is normalized here and
	// always joined with a single space.
	suffix := strings.TrimSpace(profile.TitleSuffix)
	if suffix == "" || strings.Contains(title, suffix) {
		return title
	}
	appended := " " + suffix
	if utf8.RuneCountInString(title)+utf8.RuneCountInString(appended) > cfg.TitleMaxChars {
		title = truncate(title, cfg.TitleMaxChars-utf8.RuneCountInString(appended))
	}
	return title + appended
}

func resolveDescription(cfg *config.MetadataConfig, profile *types.ChannelProfile, sidecar *types.Sidecar) string {
	desc := profile.Description
	if sidecar != nil && sidecar.Description != "" {
		desc = sidecar.Description
	}
	if profile.TagsExtra != "" && !strings.Contains(desc, profile.TagsExtra) {
		desc = desc + "\n" + profile.TagsExtra
	}
	return truncate(desc, cfg.DescriptionMaxChars)
}

func resolveTags(cfg *config.MetadataConfig, profile *types.ChannelProfile, sidecar *types.Sidecar) []string {
	source := profile.Tags
	if sidecar != nil && len(sidecar.Tags) > 0 {
		source = sidecar.Tags
	}

	seen := make(map[string]bool, len(source))
	var tags []string
	for _, t := range source {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, t)
		if len(tags) >= cfg.TagsMax {
			break
		}
	}
	return tags
}

// truncate caps s at n characters, never splitting a multibyte rune: the
// channels are language-keyed, so non-ASCII titles are the normal case.
func truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
