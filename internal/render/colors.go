package render

import (
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/tordrt/refmap/internal/schema"
)

// redsPalette is the 9-class ColorBrewer "Reds" sequential scheme
var redsPalette = [][3]uint8{
	{0xff, 0xf5, 0xf0},
	{0xfe, 0xe0, 0xd2},
	{0xfc, 0xbb, 0xa1},
	{0xfc, 0x92, 0x72},
	{0xfb, 0x6a, 0x4a},
	{0xef, 0x3b, 0x2c},
	{0xcb, 0x18, 0x1d},
	{0xa5, 0x0f, 0x15},
	{0x67, 0x00, 0x0d},
}

// colorScale maps ratios linearly from the smallest to the largest finite ratio
type colorScale struct {
	min, max float64
	valid    bool
}

func newColorScale(records []schema.MapRecord) colorScale {
	s := colorScale{min: math.Inf(1), max: math.Inf(-1)}
	for _, rec := range records {
		if !rec.HasRatio() {
			continue
		}
		s.min = math.Min(s.min, rec.Ratio)
		s.max = math.Max(s.max, rec.Ratio)
		s.valid = true
	}
	return s
}

func (s colorScale) normalize(v float64) float64 {
	if !s.valid || s.max == s.min {
		return 0.5
	}
	return math.Max(0, math.Min(1, (v-s.min)/(s.max-s.min)))
}

func (s colorScale) color(v float64) string {
	return paletteAt(s.normalize(v))
}

func (s colorScale) stops() []svg.Offcolor {
	stops := make([]svg.Offcolor, len(redsPalette))
	last := len(redsPalette) - 1
	for i := range redsPalette {
		stops[i] = svg.Offcolor{
			Offset:  uint8(i * 100 / last),
			Color:   paletteAt(float64(i) / float64(last)),
			Opacity: 1,
		}
	}
	return stops
}

// paletteAt interpolates the palette at t in [0, 1]
func paletteAt(t float64) string {
	pos := t * float64(len(redsPalette)-1)
	i := int(math.Floor(pos))
	if i >= len(redsPalette)-1 {
		c := redsPalette[len(redsPalette)-1]
		return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
	}
	frac := pos - float64(i)
	a, b := redsPalette[i], redsPalette[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac))
	}
	return fmt.Sprintf("#%02x%02x%02x", lerp(a[0], b[0]), lerp(a[1], b[1]), lerp(a[2], b[2]))
}
