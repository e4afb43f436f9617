// Package hex provides axial hex coordinates for the tile layer.
package hex

import "fmt"

// Axial is a pointy-top hex position (q, r). The third cube coordinate is
// implied as s = -q - r.
type Axial struct {
	Q int `yaml:"q" json:"q"`
	R int `yaml:"r" json:"r"`
}

// Directions lists the six neighbor offsets, east first, counter-clockwise.
var Directions = [6]Axial{
	{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {-1, +1}, {0, +1},
}

// Add returns a+b.
func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }

// Mul scales a by k.
func (a Axial) Mul(k int) Axial { return Axial{a.Q * k, a.R * k} }

// S returns the implied third cube coordinate.
func (a Axial) S() int { return -a.Q - a.R }

// Neighbor returns the adjacent hex in direction d (0..5).
func (a Axial) Neighbor(d int) Axial {
	return a.Add(Directions[((d%6)+6)%6])
}

// Neighbors returns all six adjacent hexes.
func (a Axial) Neighbors() []Axial {
	out := make([]Axial, 0, len(Directions))
	for _, d := range Directions {
		out = append(out, a.Add(d))
	}
	return out
}

func (a Axial) String() string {
	return fmt.Sprintf("(%d,%d)", a.Q, a.R)
}

// Distance returns the number of steps between two hexes.
func Distance(a, b Axial) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return max(dq, dr, ds)
}

// Adjacent reports whether a and b share an edge.
func Adjacent(a, b Axial) bool {
	return Distance(a, b) == 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
