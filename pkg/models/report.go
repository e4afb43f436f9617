package models

// PlayerReport is a read-only summary of a player's ledger
type PlayerReport struct {
	Name   string `json:"name" yaml:"name"`
	Nation string `json:"nation,omitempty" yaml:"nation,omitempty"`
	Turn   int    `json:"turn" yaml:"turn"`
	Date   int    `json:"date" yaml:"date"`

	Money      int            `json:"money" yaml:"money"`
	Stockpile  map[string]int `json:"stockpile,omitempty" yaml:"stockpile,omitempty"`
	Technology []string       `json:"technology,omitempty" yaml:"technology,omitempty"`
	Research   []string       `json:"research,omitempty" yaml:"research,omitempty"`

	// Industry
	Workers        map[string]int `json:"workers,omitempty" yaml:"workers,omitempty"`
	MaxLabor       int            `json:"max_labor" yaml:"max_labor"`
	AllocatedLabor int            `json:"allocated_labor" yaml:"allocated_labor"`
	Centers        []CenterReport `json:"centers,omitempty" yaml:"centers,omitempty"`

	// Transport network
	Capacity       int            `json:"capacity" yaml:"capacity"`
	MerchantMarine int            `json:"merchant_marine" yaml:"merchant_marine"`
	Transporting   map[string]int `json:"transporting,omitempty" yaml:"transporting,omitempty"`
	Trading        map[string]int `json:"trading,omitempty" yaml:"trading,omitempty"`
	Bidding        []string       `json:"bidding,omitempty" yaml:"bidding,omitempty"`

	Units       []UnitReport `json:"units,omitempty" yaml:"units,omitempty"`
	Specialists int          `json:"specialists" yaml:"specialists"`
}

// CenterReport summarizes one production center
type CenterReport struct {
	Type      string         `json:"type" yaml:"type"`
	Level     int            `json:"level" yaml:"level"`
	Upgrading bool           `json:"upgrading" yaml:"upgrading"`
	Producing map[string]int `json:"producing,omitempty" yaml:"producing,omitempty"`
}

// UnitReport summarizes one military unit
type UnitReport struct {
	Type      string `json:"type" yaml:"type"`
	Group     string `json:"group" yaml:"group"`
	Level     int    `json:"level" yaml:"level"`
	Toughness int    `json:"toughness" yaml:"toughness"`
	Upgrading bool   `json:"upgrading" yaml:"upgrading"`
}

// IsBankrupt reports whether the treasury is below zero
func (r *PlayerReport) IsBankrupt() bool {
	return r.Money < 0
}

// LaborUsage returns allocated labor as a fraction of the maximum
func (r *PlayerReport) LaborUsage() float64 {
	if r.MaxLabor == 0 {
		return 0
	}
	return float64(r.AllocatedLabor) / float64(r.MaxLabor)
}
