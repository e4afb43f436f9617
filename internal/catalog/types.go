package catalog

import (
	"github.com/gravitas-games/aftermath/internal/counter"
)

// TypeID is the compact numeric handle the catalog assigns to each type.
type TypeID uint32

// Batch is a quantity counter over catalog types: costs, rewards,
// stockpiles and formula inputs/outputs all use it.
type Batch = counter.Counter[*Type]

// Type is a single named kind of transferable. The catalog owns every Type;
// gameplay code holds the pointer and compares by identity.
type Type struct {
	ID          TypeID
	Key         string
	Name        string
	Description string
	Kind        Kind

	// Labor is the labor each worker of a worker type provides.
	Labor int

	// Land and Sea select the army or navy a unit type joins.
	Land bool
	Sea  bool

	// UnitLevels are the levels of a unit type, base level first.
	UnitLevels []*UnitLevel

	// ProductionLevels are the levels of a production center type.
	ProductionLevels []*ProductionLevel

	// Formulas lists what a production center type can produce.
	Formulas []*Formula

	// ResearchCost is charged when research of a technology starts.
	ResearchCost Batch
}

// String returns the type key, or "<nil>".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Key
}

// Valid reports whether t is a usable catalog reference.
func (t *Type) Valid() bool {
	return t != nil && t.Kind.Valid()
}

// Supports reports whether a production center type lists the formula.
func (t *Type) Supports(f *Formula) bool {
	if t == nil || f == nil {
		return false
	}
	for _, candidate := range t.Formulas {
		if candidate == f {
			return true
		}
	}
	return false
}

// ProductionLevel is one level of a production center type.
type ProductionLevel struct {
	Cost      Batch
	MaxOutput int
}

// UpgradeCost returns the cost of reaching this level.
func (l *ProductionLevel) UpgradeCost() Batch {
	return l.Cost
}

// UnitLevel is one level of a unit type.
type UnitLevel struct {
	Cost Batch
	// AutoCost is a requirement, not a charge: a newly raised unit starts at
	// every consecutive level whose auto-cost the owner could pay.
	AutoCost Batch
	Power    int
	Cargo    int
}

// UpgradeCost returns the cost of reaching this level.
func (l *UnitLevel) UpgradeCost() Batch {
	return l.Cost
}

// Formula is one producible conversion at a production center.
type Formula struct {
	Key    string
	Name   string
	Input  Batch
	Output Batch
}

// String returns the formula key, or "<nil>".
func (f *Formula) String() string {
	if f == nil {
		return "<nil>"
	}
	return f.Key
}
