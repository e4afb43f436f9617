package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/aftermath/internal/gameerr"
)

// Document is the YAML form of a mod.
type Document struct {
	Name        string       `yaml:"name"`
	StartDate   int          `yaml:"start_date"`
	DatePerTurn int          `yaml:"date_per_turn"`
	MaxBids     int          `yaml:"max_bids"`
	Types       []TypeDoc    `yaml:"types"`
	Formulas    []FormulaDoc `yaml:"formulas"`
	Starting    Amounts      `yaml:"starting"`
}

// TypeDoc describes one type in a mod document.
type TypeDoc struct {
	Key          string     `yaml:"key"`
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	Kind         Kind       `yaml:"kind"`
	Labor        int        `yaml:"labor"`
	Land         bool       `yaml:"land"`
	Sea          bool       `yaml:"sea"`
	Levels       []LevelDoc `yaml:"levels"`
	Formulas     []string   `yaml:"formulas"`
	ResearchCost Amounts    `yaml:"research_cost"`
}

// LevelDoc describes a unit or production level.
type LevelDoc struct {
	Cost      Amounts `yaml:"cost"`
	AutoCost  Amounts `yaml:"auto_cost"`
	MaxOutput int     `yaml:"max_output"`
	Power     int     `yaml:"power"`
	Cargo     int     `yaml:"cargo"`
}

// FormulaDoc describes a production formula.
type FormulaDoc struct {
	Key    string  `yaml:"key"`
	Name   string  `yaml:"name"`
	Input  Amounts `yaml:"input"`
	Output Amounts `yaml:"output"`
}

// Amount is one key/quantity pair of a batch.
type Amount struct {
	Key   string
	Value int
}

// Amounts is a batch written as a YAML mapping; document order is kept.
type Amounts []Amount

// UnmarshalYAML decodes a mapping of type keys to integers in order.
func (a *Amounts) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: amounts must be a mapping", node.Line)
	}
	out := make(Amounts, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v int
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("line %d: amount for %s: %w", node.Content[i+1].Line, node.Content[i].Value, err)
		}
		out = append(out, Amount{Key: node.Content[i].Value, Value: v})
	}
	*a = out
	return nil
}

// Build turns a document into a catalog. Types are registered first so
// that batches, levels and formulas can refer to any of them.
func Build(doc *Document) (*Catalog, error) {
	if doc == nil {
		return nil, gameerr.Validation("catalog: nil document")
	}
	c := New()
	c.Configure(Settings{
		Name:        doc.Name,
		StartDate:   doc.StartDate,
		DatePerTurn: doc.DatePerTurn,
		MaxBids:     doc.MaxBids,
	})

	// Leveled kinds get placeholder levels; fill sets them once every type
	// and formula is known.
	pending := make([]*Type, 0, len(doc.Types))
	for i := range doc.Types {
		td := &doc.Types[i]
		t := &Type{
			Key:         td.Key,
			Name:        td.Name,
			Description: td.Description,
			Kind:        td.Kind,
			Labor:       td.Labor,
			Land:        td.Land,
			Sea:         td.Sea,
		}
		switch td.Kind {
		case KindUnitType:
			for range td.Levels {
				t.UnitLevels = append(t.UnitLevels, &UnitLevel{})
			}
		case KindProductionCenterType:
			for range td.Levels {
				t.ProductionLevels = append(t.ProductionLevels, &ProductionLevel{})
			}
		}
		if err := c.Register(t); err != nil {
			return nil, gameerr.WrapValidation(fmt.Sprintf("type %d", i), err)
		}
		pending = append(pending, t)
	}

	for _, fd := range doc.Formulas {
		f := &Formula{Key: fd.Key, Name: fd.Name}
		var err error
		if f.Input, err = c.resolve(fd.Input); err != nil {
			return nil, gameerr.WrapValidation("formula "+fd.Key+" input", err)
		}
		if f.Output, err = c.resolve(fd.Output); err != nil {
			return nil, gameerr.WrapValidation("formula "+fd.Key+" output", err)
		}
		if err := c.RegisterFormula(f); err != nil {
			return nil, gameerr.WrapValidation("formula "+fd.Key, err)
		}
	}

	for i, t := range pending {
		if err := c.fill(t, &doc.Types[i]); err != nil {
			return nil, gameerr.WrapValidation("type "+t.Key, err)
		}
	}

	starting, err := c.resolve(doc.Starting)
	if err != nil {
		return nil, gameerr.WrapValidation("starting", err)
	}
	c.SetStartingTypes(starting)
	return c, nil
}

func (c *Catalog) fill(t *Type, td *TypeDoc) error {
	for i, ld := range td.Levels {
		cost, err := c.resolve(ld.Cost)
		if err != nil {
			return fmt.Errorf("level %d cost: %w", i, err)
		}
		if err := nonNegative(cost); err != nil {
			return fmt.Errorf("level %d cost: %w", i, err)
		}
		switch t.Kind {
		case KindUnitType:
			auto, err := c.resolve(ld.AutoCost)
			if err != nil {
				return fmt.Errorf("level %d auto cost: %w", i, err)
			}
			*t.UnitLevels[i] = UnitLevel{Cost: cost, AutoCost: auto, Power: ld.Power, Cargo: ld.Cargo}
		case KindProductionCenterType:
			if ld.MaxOutput < 0 {
				return fmt.Errorf("level %d: max output cannot be negative", i)
			}
			*t.ProductionLevels[i] = ProductionLevel{Cost: cost, MaxOutput: ld.MaxOutput}
		default:
			return fmt.Errorf("%s types have no levels", t.Kind)
		}
	}

	if len(td.Formulas) > 0 && t.Kind != KindProductionCenterType {
		return fmt.Errorf("%s types have no formulas", t.Kind)
	}
	for _, key := range td.Formulas {
		f, err := c.Formula(key)
		if err != nil {
			return err
		}
		t.Formulas = append(t.Formulas, f)
	}

	if len(td.ResearchCost) > 0 {
		if t.Kind != KindTechnology {
			return fmt.Errorf("%s types have no research cost", t.Kind)
		}
		cost, err := c.resolve(td.ResearchCost)
		if err != nil {
			return fmt.Errorf("research cost: %w", err)
		}
		if err := nonNegative(cost); err != nil {
			return fmt.Errorf("research cost: %w", err)
		}
		t.ResearchCost = cost
	}
	return nil
}

func (c *Catalog) resolve(amounts Amounts) (Batch, error) {
	var b Batch
	for _, a := range amounts {
		t, err := c.Find(a.Key)
		if err != nil {
			return Batch{}, err
		}
		b.Add(t, a.Value)
	}
	return b, nil
}

func nonNegative(b Batch) error {
	var err error
	b.Each(func(t *Type, n int) {
		if err == nil && n < 0 {
			err = fmt.Errorf("%s: quantity cannot be negative", t.Key)
		}
	})
	return err
}
