package vt

// defaultTabInterval is the spacing of tab stops when none are set
// explicitly.
const defaultTabInterval = 8

// tabStops is the set of horizontal tab stop columns.
type tabStops struct {
	stops []bool
	width int
}

func defaultTabStops(width int) *tabStops {
	t := &tabStops{stops: make([]bool, max(width, 1)), width: max(width, 1)}
	for col := 0; col < t.width; col += defaultTabInterval {
		t.stops[col] = true
	}
	return t
}

// Resize grows or shrinks the stop set. Surviving columns keep their
// stops, including ones set with HTS; columns gained on the right get
// the default interval.
func (t *tabStops) Resize(width int) {
	width = max(width, 1)
	if width <= t.width {
		t.stops = t.stops[:width]
		t.width = width
		return
	}
	grown := make([]bool, width)
	copy(grown, t.stops)
	for col := 0; col < width; col += defaultTabInterval {
		if col >= t.width {
			grown[col] = true
		}
	}
	t.stops = grown
	t.width = width
}

// Next returns the column of the next tab stop after col, clamped to the
// last column.
func (t *tabStops) Next(col int) int {
	for x := col + 1; x < t.width; x++ {
		if t.stops[x] {
			return x
		}
	}
	return t.width - 1
}

// Prev returns the column of the previous tab stop before col, clamped
// to column 0.
func (t *tabStops) Prev(col int) int {
	for x := min(col, t.width) - 1; x > 0; x-- {
		if t.stops[x] {
			return x
		}
	}
	return 0
}

func (t *tabStops) Set(col int) {
	if col >= 0 && col < t.width {
		t.stops[col] = true
	}
}

func (t *tabStops) Clear(col int) {
	if col >= 0 && col < t.width {
		t.stops[col] = false
	}
}

func (t *tabStops) ClearAll() {
	for x := range t.stops {
		t.stops[x] = false
	}
}
