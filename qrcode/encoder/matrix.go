package encoder

import (
	"strings"

	"github.com/ericlevine/billprint/bitutil"
)

// Module is the state of one cell of a symbol under construction.
type Module byte

const (
	Unassigned Module = iota
	Light
	Dark
)

func moduleFor(dark bool) Module {
	if dark {
		return Dark
	}
	return Light
}

// ModuleMatrix is a square grid of modules. x is the column, y is the row.
type ModuleMatrix struct {
	modules   []Module
	dimension int
}

// NewModuleMatrix creates a dimension x dimension matrix with every module
// unassigned.
func NewModuleMatrix(dimension int) *ModuleMatrix {
	return &ModuleMatrix{
		modules:   make([]Module, dimension*dimension),
		dimension: dimension,
	}
}

// Dimension returns the number of modules along one side.
func (m *ModuleMatrix) Dimension() int { return m.dimension }

// Get returns the module at (x, y).
func (m *ModuleMatrix) Get(x, y int) Module { return m.modules[y*m.dimension+x] }

// Set sets the module at (x, y).
func (m *ModuleMatrix) Set(x, y int, value Module) { m.modules[y*m.dimension+x] = value }

// SetBool sets the module at (x, y) to Dark (true) or Light (false).
func (m *ModuleMatrix) SetBool(x, y int, dark bool) { m.Set(x, y, moduleFor(dark)) }

// IsDark reports whether the module at (x, y) is dark.
func (m *ModuleMatrix) IsDark(x, y int) bool { return m.Get(x, y) == Dark }

// Clear resets every module to Unassigned.
func (m *ModuleMatrix) Clear() {
	for i := range m.modules {
		m.modules[i] = Unassigned
	}
}

// CountUnassigned returns the number of modules not yet assigned.
func (m *ModuleMatrix) CountUnassigned() int {
	n := 0
	for _, v := range m.modules {
		if v == Unassigned {
			n++
		}
	}
	return n
}

// ToBitMatrix converts the matrix to a BitMatrix with dark modules set.
func (m *ModuleMatrix) ToBitMatrix() *bitutil.BitMatrix {
	bm := bitutil.NewBitMatrix(m.dimension)
	for y := 0; y < m.dimension; y++ {
		for x := 0; x < m.dimension; x++ {
			if m.IsDark(x, y) {
				bm.Set(x, y)
			}
		}
	}
	return bm
}

// String returns a visual representation: "##" dark, "  " light, "??"
// unassigned.
func (m *ModuleMatrix) String() string {
	var sb strings.Builder
	sb.Grow(m.dimension * (2*m.dimension + 1))
	for y := 0; y < m.dimension; y++ {
		for x := 0; x < m.dimension; x++ {
			switch m.Get(x, y) {
			case Dark:
				sb.WriteString("##")
			case Light:
				sb.WriteString("  ")
			default:
				sb.WriteString("??")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
