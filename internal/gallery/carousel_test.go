package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpen(t *testing.T) {
	c := Open("p1", 3)
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, 3, c.Len)
	assert.Equal(t, "translateX(-0%)", c.Offset())

	assert.Equal(t, 0, Open("p1", -2).Len)
}

func TestCarousel_Wrap(t *testing.T) {
	c := Open("p1", 3)

	assert.Equal(t, 2, c.Prev().Index)
	assert.Equal(t, 0, c.Next().Next().Next().Index)
	assert.Equal(t, 0, Carousel{Index: 2, Len: 3}.Next().Index)
}

func TestCarousel_Sequence(t *testing.T) {
	tests := []struct {
		name  string
		len   int
		moves string
		want  int
	}{
		{name: "forward", len: 4, moves: "nn", want: 2},
		{name: "back and forth", len: 4, moves: "pnp", want: 3},
		{name: "single image", len: 1, moves: "nnp", want: 0},
		{name: "empty", len: 0, moves: "npn", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Open("p", tt.len)
			for _, m := range tt.moves {
				if m == 'n' {
					c = c.Next()
				} else {
					c = c.Prev()
				}
			}
			assert.Equal(t, tt.want, c.Index)
		})
	}
}

func TestCarousel_Offset(t *testing.T) {
	assert.Equal(t, "translateX(-200%)", Carousel{Index: 2, Len: 3}.Offset())
}

func TestCarousel_HasControls(t *testing.T) {
	assert.False(t, Open("p", 0).HasControls())
	assert.False(t, Open("p", 1).HasControls())
	assert.True(t, Open("p", 2).HasControls())
}
