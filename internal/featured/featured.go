// Package featured drives the home screen's featured-recipe carousel.
package featured

import "time"

// Interval is how long each featured image stays on screen.
const Interval = 12 * time.Second

// DefaultImages are the carousel images shown on the home screen.
var DefaultImages = []string{
	"https://www.themealdb.com/images/media/meals/wvpsxx1468256321.jpg",
	"https://www.themealdb.com/images/media/meals/ustsqw1468250014.jpg",
	"https://www.themealdb.com/images/media/meals/xvsurr1511719182.jpg",
}

// Rotation cycles through a fixed list of images.
type Rotation struct {
	Images   []string
	Interval time.Duration
}

// Slide is the carousel state at one instant.
type Slide struct {
	Images          []string `json:"images"`
	Index           int      `json:"index"`
	Image           string   `json:"image"`
	IntervalSeconds int      `json:"interval_seconds"`
	NextChangeIn    float64  `json:"next_change_in_seconds"`
}

// NewRotation returns the home screen rotation.
func NewRotation() Rotation {
	return Rotation{Images: DefaultImages, Interval: Interval}
}

// At returns the slide showing at t. Every client computes the same index
// for the same instant.
func (r Rotation) At(t time.Time) Slide {
	slide := Slide{
		Images:          append([]string{}, r.Images...),
		IntervalSeconds: int(r.Interval / time.Second),
	}
	if len(r.Images) == 0 || r.Interval <= 0 {
		return slide
	}

	elapsed := time.Duration(t.UnixNano())
	step := int64(elapsed / r.Interval)
	slide.Index = int(step % int64(len(r.Images)))
	slide.Image = r.Images[slide.Index]
	slide.NextChangeIn = (r.Interval - elapsed%r.Interval).Seconds()
	return slide
}
