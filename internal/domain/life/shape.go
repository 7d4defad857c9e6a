package life

import "sort"

// Shape is an immutable, reusable template of relative live-cell offsets,
// optionally positioned by a translation. A shape is not tied to any board;
// the same shape may be stamped any number of times.
type Shape struct {
	name        string
	offsets     []Position
	translation *Position
}

// NewShape builds a shape from the given offsets and optional translation.
// The offsets slice is copied; callers cannot mutate the shape afterwards.
func NewShape(name string, offsets []Position, translation *Position) Shape {
	copied := make([]Position, len(offsets))
	copy(copied, offsets)
	var tr *Position
	if translation != nil {
		t := *translation
		tr = &t
	}
	return Shape{name: name, offsets: copied, translation: tr}
}

// Name returns the shape's preset name, or "" for ad-hoc shapes.
func (s Shape) Name() string { return s.name }

// Offsets returns a copy of the relative cell offsets.
func (s Shape) Offsets() []Position {
	out := make([]Position, len(s.offsets))
	copy(out, s.offsets)
	return out
}

// Translated returns a copy of the shape positioned at pos.
func (s Shape) Translated(pos Position) Shape {
	return NewShape(s.name, s.offsets, &pos)
}

// Materialize resolves the shape into absolute board positions for a board
// of the given dimensions. With a translation set, each offset is shifted
// and wrapped by modulo; without one the raw offsets are returned as-is and
// the caller is responsible for the board being large enough to hold them.
func (s Shape) Materialize(width, height int) []Position {
	cells := make([]Position, len(s.offsets))
	copy(cells, s.offsets)
	if s.translation == nil {
		return cells
	}
	for i := range cells {
		cells[i].Row = (cells[i].Row + s.translation.Row) % height
		cells[i].Col = (cells[i].Col + s.translation.Col) % width
	}
	return cells
}

// TranslationFromPercent converts the startup offset percentage into a board
// translation: the offset lands that fraction of the way across each
// dimension, pulled back by two cells, wrapped onto the torus. A percentage
// of zero means no translation at all.
func TranslationFromPercent(percent, width, height int) *Position {
	if percent == 0 {
		return nil
	}
	row := (height*percent/100)%height - 2
	col := (width*percent/100)%width - 2
	row = ((row % height) + height) % height
	col = ((col % width) + width) % width
	return &Position{Row: row, Col: col}
}

// Preset shape tables. These are fixed data, not derived; any change breaks
// interoperability with recorded sessions.
var (
	gliderOffsets  = []Position{{0, 2}, {1, 0}, {1, 2}, {2, 1}, {2, 2}}
	acornOffsets   = []Position{{0, 1}, {1, 3}, {2, 0}, {2, 1}, {2, 4}, {2, 5}, {2, 6}}
	rPentOffsets   = []Position{{0, 1}, {0, 2}, {1, 0}, {1, 1}, {2, 1}}
	piHeptOffsets  = []Position{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 2}}
	bHeptOffsets   = []Position{{0, 0}, {0, 2}, {0, 3}, {1, 0}, {1, 1}, {1, 2}, {2, 1}}
	thunderOffsets = []Position{{0, 0}, {0, 1}, {0, 2}, {2, 1}, {3, 1}, {4, 1}}
)

// presets is populated once at init and never mutated afterwards.
var presets = map[string]Shape{}

// presetOrder fixes the carousel sequence shown to users.
var presetOrder = []string{"acorn", "glider", "rpentomino", "piheptomino", "bheptomino", "thunderbird"}

func init() {
	presets["glider"] = NewShape("glider", gliderOffsets, nil)
	presets["acorn"] = NewShape("acorn", acornOffsets, nil)
	presets["rpentomino"] = NewShape("rpentomino", rPentOffsets, nil)
	presets["piheptomino"] = NewShape("piheptomino", piHeptOffsets, nil)
	presets["bheptomino"] = NewShape("bheptomino", bHeptOffsets, nil)
	presets["thunderbird"] = NewShape("thunderbird", thunderOffsets, nil)
}

// LookupShape resolves a preset shape by name.
func LookupShape(name string) (Shape, bool) {
	sh, ok := presets[name]
	return sh, ok
}

// PresetNames returns the carousel order of the built-in shapes.
func PresetNames() []string {
	out := make([]string, len(presetOrder))
	copy(out, presetOrder)
	return out
}

// AllShapeNames returns every registered preset name, sorted.
func AllShapeNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
