package channel

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strings"

	"shorts-publisher/types"
)

// defaultProfile is used when a channel has no channel.txt.
func defaultProfile() *types.ChannelProfile {
	return &types.ChannelProfile{
		TitleSuffix: " #shorts",
		Description: "New video every day.",
		Tags:        []string{"shorts"},
	}
}

// LoadProfile reads <root>/<channel>/channel.txt. Recognized keys:
// title_suffix, description (continuation lines belong to it until the next
// recognized key), tags (comma list), tags_extra. Unknown lines are ignored.
// A missing file yields the built-in defaults.
func LoadProfile(root, channel string) (*types.ChannelProfile, error) {
	path := filepath.Join(root, channel, "channel.txt")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[channel] no profile at %s — using defaults", path)
			return defaultProfile(), nil
		}
		return nil, err
	}
	defer f.Close()

	p := defaultProfile()

	var descLines []string
	inDescription := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, found := cutKey(line)
		if !found {
			if inDescription {
				descLines = append(descLines, strings.TrimRight(line, " \t"))
			}
			continue
		}
		inDescription = false
		switch key {
		case "title_suffix":
			p.TitleSuffix = value
		case "description":
			descLines = []string{value}
			inDescription = true
		case "tags":
			p.Tags = splitTags(value)
		case "tags_extra":
			p.TagsExtra = value
		default:
			// Unknown key: ignore the line entirely.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(descLines) > 0 {
		p.Description = strings.TrimSpace(strings.Join(descLines, "\n"))
	}
	return p, nil
}

var recognizedKeys = map[string]bool{
	"title_suffix": true,
	"description":  true,
	"tags":         true,
	"tags_extra":   true,
}

// cutKey splits "key: value" lines. Only recognized keys count — anything
// else is treated as a continuation or junk line.
func cutKey(line string) (key, value string, found bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	if !recognizedKeys[key] {
		return "", "", false
	}
	return key, strings.TrimSpace(line[idx+1:]), true
}

func splitTags(value string) []string {
	var tags []string
	for _, t := range strings.Split(value, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
