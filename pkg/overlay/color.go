package overlay

// Palette is the fixed route color sequence.
var Palette = [...]string{
	"#f44336",
	"#e81e63",
	"#9c27b0",
	"#673ab7",
	"#3f51b5",
	"#2196f3",
	"#03a9f4",
	"#00bcd4",
	"#009688",
	"#4caf50",
	"#8bc34a",
	"#cddc39",
	"#ffeb3b",
	"#ffc107",
	"#ff9800",
	"#ff5722",
}

const colorStride = 4

// ColorAllocator hands out route colors spread apart in Palette order.
// The cursor advances before a color is returned, so the first color of a
// fresh allocator is Palette[colorStride].
type ColorAllocator struct {
	cursor int
}

func NewColorAllocator() *ColorAllocator {
	return &ColorAllocator{}
}

func (a *ColorAllocator) Next() string {
	a.cursor = (a.cursor + colorStride) % len(Palette)
	return Palette[a.cursor]
}

func (a *ColorAllocator) Reset() {
	a.cursor = 0
}
