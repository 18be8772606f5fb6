package source

import (
	"time"

	"github.com/1broseidon/framewin/internal/frame"
)

// barColors are the classic 75% color bars, left to right.
var barColors = [...][3]byte{
	{191, 191, 191},
	{191, 191, 0},
	{0, 191, 191},
	{0, 191, 0},
	{191, 0, 191},
	{191, 0, 0},
	{0, 0, 191},
	{0, 0, 0},
}

// Bars scrolls color bars to the left, one bar width per second, so frozen
// windows are easy to spot.
type Bars struct {
	frame *frame.Frame
}

// NewBars allocates a width x height pattern.
func NewBars(width, height int) *Bars {
	return &Bars{frame: frame.New(max(width, 1), max(height, 1), frame.RGB)}
}

func (b *Bars) Frame(t time.Duration) *frame.Frame {
	f := b.frame
	barWidth := max(f.Width/len(barColors), 1)
	shift := int(t.Seconds() * float64(barWidth))

	row := f.Pix[:f.Stride()]
	for x := 0; x < f.Width; x++ {
		c := barColors[((x+shift)/barWidth)%len(barColors)]
		copy(row[x*frame.BytesPerPixel:], c[:])
	}
	for y := 1; y < f.Height; y++ {
		copy(f.Pix[y*f.Stride():(y+1)*f.Stride()], row)
	}
	return f
}
