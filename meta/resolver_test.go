package meta

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"shorts-publisher/config"
	"shorts-publisher/types"
)

func testCfg() *config.MetadataConfig {
	return &config.MetadataConfig{
		TitleMaxChars:       100,
		DescriptionMaxChars: 4900,
		TagsMax:             10,
	}
}

func TestResolveTitle(t *testing.T) {
	profile := &types.ChannelProfile{TitleSuffix: " | Daily"}

	cases := []struct {
		name     string
		sidecar  *types.Sidecar
		basename string
		want     string
	}{
		{
			name:     "no sidecar falls back to basename",
			basename: "0001",
			want:     "0001 | Daily",
		},
		{
			name:     "sidecar title wins",
			sidecar:  &types.Sidecar{Title: "Tired Today Go Slow"},
			basename: "0001",
			want:     "Tired Today Go Slow | Daily",
		},
		{
			name:     "suffix not appended twice",
			sidecar:  &types.Sidecar{Title: "Already Suffixed | Daily"},
			basename: "0001",
			want:     "Already Suffixed | Daily",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(testCfg(), profile, tc.sidecar, tc.basename)
			if got.Title != tc.want {
				t.Errorf("title = %q, want %q", got.Title, tc.want)
			}
		})
	}
}

func TestResolveTitleLongInput(t *testing.T) {
	profile := &types.ChannelProfile{TitleSuffix: " | Daily"}
	sc := &types.Sidecar{Title: strings.Repeat("x", 300)}

	got := Resolve(testCfg(), profile, sc, "0001")
	if len(got.Title) > 100 {
		t.Errorf("title length %d exceeds 100", len(got.Title))
	}
	if !strings.HasSuffix(got.Title, " | Daily") {
		t.Errorf("truncated title lost suffix: %q", got.Title)
	}
}

func TestResolveTitleMultibyte(t *testing.T) {
	profile := &types.ChannelProfile{TitleSuffix: " | Daily"}
	// 91 ASCII characters followed by 10 accented ones: a byte-based cut
	// would split one of the two-byte runes.
	sc := &types.Sidecar{Title: strings.Repeat("x", 91) + strings.Repeat("é", 10)}

	got := Resolve(testCfg(), profile, sc, "0001")
	if !utf8.ValidString(got.Title) {
		t.Errorf("title is not valid UTF-8: %q", got.Title)
	}
	if n := utf8.RuneCountInString(got.Title); n > 100 {
		t.Errorf("title rune count %d exceeds 100", n)
	}
	if !strings.HasSuffix(got.Title, " | Daily") {
		t.Errorf("truncated title lost suffix: %q", got.Title)
	}
}

func TestResolveDescription(t *testing.T) {
	profile := &types.ChannelProfile{
		Description: "Default description.",
		TagsExtra:   "#fyp #daily",
	}

	got := Resolve(testCfg(), profile, nil, "0001")
	want := "Default description.\n#fyp #daily"
	if got.Description != want {
		t.Errorf("description = %q, want %q", got.Description, want)
	}

	sc := &types.Sidecar{Description: "Custom text."}
	got = Resolve(testCfg(), profile, sc, "0001")
	want = "Custom text.\n#fyp #daily"
	if got.Description != want {
		t.Errorf("description = %q, want %q", got.Description, want)
	}
}

func TestResolveTags(t *testing.T) {
	profile := &types.ChannelProfile{Tags: []string{"default", "channel"}}

	cases := []struct {
		name    string
		sidecar *types.Sidecar
		want    []string
	}{
		{
			name: "profile tags when sidecar empty",
			want: []string{"default", "channel"},
		},
		{
			name:    "sidecar tags win and are de-duplicated",
			sidecar: &types.Sidecar{Tags: []string{"one", "two", "ONE", " two ", "three"}},
			want:    []string{"one", "two", "three"},
		},
		{
			name: "capped at ten",
			sidecar: &types.Sidecar{Tags: []string{
				"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l",
			}},
			want: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(testCfg(), profile, tc.sidecar, "0001")
			if !reflect.DeepEqual(got.Tags, tc.want) {
				t.Errorf("tags = %v, want %v", got.Tags, tc.want)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	profile := &types.ChannelProfile{
		TitleSuffix: " | Daily",
		Description: "Default.",
		Tags:        []string{"a", "b"},
		TagsExtra:   "#x",
	}
	sc := &types.Sidecar{Title: "Some Title", Tags: []string{"t1", "t2"}}

	first := Resolve(testCfg(), profile, sc, "0001")
	second := Resolve(testCfg(), profile, sc, "0001")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolution not deterministic: %+v vs %+v", first, second)
	}

	// Feeding the resolved title back must not append the suffix again.
	again := Resolve(testCfg(), profile, &types.Sidecar{Title: first.Title}, "0001")
	if again.Title != first.Title {
		t.Errorf("re-resolution changed title: %q → %q", first.Title, again.Title)
	}
}
