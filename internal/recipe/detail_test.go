package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSteps(t *testing.T) {
	tests := []struct {
		name         string
		instructions string
		want         []string
	}{
		{"empty", "", []string{}},
		{"sentences", "Boil water. Add pasta. Drain.", []string{"Boil water.", "Add pasta.", "Drain."}},
		{"lines", "Preheat oven\r\nMix flour\n\nBake", []string{"Preheat oven", "Mix flour", "Bake"}},
		{"decimal kept", "Add 1.5 cups of stock. Simmer", []string{"Add 1.5 cups of stock.", "Simmer"}},
		{"blank lines and trailing period", "Chop onions.\n\nFry.\r\n\r\nServe.  \n", []string{"Chop onions.", "Fry.", "Serve."}},
		{"whitespace only", "  \n . \n", []string{"."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSteps(tt.instructions))
		})
	}
}

func TestPlayableVideo(t *testing.T) {
	assert.Nil(t, PlayableVideo(""))

	v := PlayableVideo("https://www.youtube.com/watch?v=abc123")
	assert.Equal(t, &Video{Kind: VideoEmbed, URL: "https://www.youtube.com/embed/abc123"}, v)

	v = PlayableVideo("https://youtu.be/abc123")
	assert.Equal(t, &Video{Kind: VideoEmbed, URL: "https://youtu.be/abc123"}, v)

	v = PlayableVideo("https://cdn.example.com/pie.mp4")
	assert.Equal(t, &Video{Kind: VideoNative, URL: "https://cdn.example.com/pie.mp4"}, v)
}

func TestNewDetail(t *testing.T) {
	d := NewDetail(Recipe{ID: 1, Title: "Toast", Instructions: "Slice bread. Toast it."})
	assert.Equal(t, []string{"Slice bread.", "Toast it."}, d.Steps)
	assert.Nil(t, d.Video)
	assert.False(t, d.HasInfo)

	d = NewDetail(Recipe{ID: 2, Title: "Curry", Difficulty: "Medium", VideoURL: "https://www.youtube.com/watch?v=x"})
	assert.True(t, d.HasInfo)
	assert.Equal(t, VideoEmbed, d.Video.Kind)
	assert.Empty(t, d.Steps)
}
