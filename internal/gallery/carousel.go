// Package gallery implements the image carousel inside a project modal.
package gallery

import "fmt"

// Carousel tracks the visible slide of a project's image sequence.
type Carousel struct {
	ProjectID string `json:"project_id"`
	Index     int    `json:"index"`
	Len       int    `json:"len"`
}

// Open starts a carousel on the first image.
func Open(projectID string, images int) Carousel {
	if images < 0 {
		images = 0
	}
	return Carousel{ProjectID: projectID, Len: images}
}

// Next advances one slide, wrapping from the last to the first.
func (c Carousel) Next() Carousel {
	return c.move(1)
}

// Prev steps back one slide, wrapping from the first to the last.
func (c Carousel) Prev() Carousel {
	return c.move(-1)
}

func (c Carousel) move(step int) Carousel {
	if c.Len <= 0 {
		c.Index = 0
		return c
	}
	c.Index = ((c.Index+step)%c.Len + c.Len) % c.Len
	return c
}

// Offset is the CSS transform that shows the current slide.
func (c Carousel) Offset() string {
	return fmt.Sprintf("translateX(-%d%%)", c.Index*100)
}

// HasControls reports whether there is more than one slide to move between.
func (c Carousel) HasControls() bool {
	return c.Len > 1
}
