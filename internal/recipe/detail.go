package recipe

import (
	"strings"
	"unicode"
)

// VideoKind tells a client how to play a recipe video.
type VideoKind string

const (
	VideoNone   VideoKind = ""
	VideoEmbed  VideoKind = "embed"
	VideoNative VideoKind = "native"
)

// Video is the playable form of a recipe's video_url.
type Video struct {
	Kind VideoKind `json:"kind"`
	URL  string    `json:"url"`
}

// Detail is the single-recipe view: the record plus the derived pieces
// the detail screen renders.
type Detail struct {
	Recipe
	Steps   []string `json:"steps"`
	Video   *Video   `json:"video,omitempty"`
	HasInfo bool     `json:"has_info"`
}

// NewDetail builds the detail view of a recipe.
func NewDetail(r Recipe) Detail {
	return Detail{
		Recipe:  r,
		Steps:   SplitSteps(r.Instructions),
		Video:   PlayableVideo(r.VideoURL),
		HasInfo: r.Category != "" || r.CookingTime != "" || r.Difficulty != "",
	}
}

// SplitSteps breaks an instruction block into steps. A step ends at a line
// break or at a period followed by whitespace. Steps are trimmed, and unlike
// a plain line split, blank pieces (from "\r\n", blank lines or a period
// followed by a newline) are never returned as empty steps.
func SplitSteps(instructions string) []string {
	steps := []string{}
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			steps = append(steps, s)
		}
		current.Reset()
	}

	runes := []rune(instructions)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\n' || r == '\r':
			flush()
		case r == '.' && i+1 < len(runes) && unicode.IsSpace(runes[i+1]):
			current.WriteRune(r)
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return steps
}

// PlayableVideo classifies a video URL. YouTube links are rewritten to
// their embeddable form; anything else is played natively. It returns nil
// for an empty URL.
func PlayableVideo(url string) *Video {
	if url == "" {
		return nil
	}
	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		return &Video{Kind: VideoEmbed, URL: strings.Replace(url, "watch?v=", "embed/", 1)}
	}
	return &Video{Kind: VideoNative, URL: url}
}
