package models

// CatalogEntry describes one catalog type for listings and tooling.
type CatalogEntry struct {
	ID          uint32   `json:"id" yaml:"id"`
	Key         string   `json:"key" yaml:"key"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Kind        string   `json:"kind" yaml:"kind"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Levels      int      `json:"levels,omitempty" yaml:"levels,omitempty"`
	Labor       int      `json:"labor,omitempty" yaml:"labor,omitempty"`
	Land        bool     `json:"land,omitempty" yaml:"land,omitempty"`
	Sea         bool     `json:"sea,omitempty" yaml:"sea,omitempty"`
	Formulas    []string `json:"formulas,omitempty" yaml:"formulas,omitempty"`
}
