package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/gravitas-games/aftermath/internal/gameerr"
)

func defaultModPath() string {
	return filepath.Join("..", "..", "configs", "mods", "default.yaml")
}

func TestLoadDefaultMod(t *testing.T) {
	c, err := Load(defaultModPath(), LoadOptions{ValidateSchema: true})
	if err != nil {
		t.Fatalf("load default mod: %v", err)
	}
	if c.Digest() == "" {
		t.Fatalf("expected digest to be recorded")
	}
	if c.Money() == nil || c.Labor() == nil || c.Date() == nil {
		t.Fatalf("expected singleton kinds to be registered")
	}
	if c.StartDate() != 1900 || c.DatePerTurn() != 1 || c.MaxBids() != 3 {
		t.Fatalf("unexpected settings %+v", c.Settings())
	}

	farm, err := c.FindKind("farm", KindProductionCenterType)
	if err != nil {
		t.Fatalf("find farm: %v", err)
	}
	if len(farm.ProductionLevels) != 2 || farm.ProductionLevels[1].MaxOutput != 16 {
		t.Fatalf("unexpected farm levels")
	}
	grow, err := c.Formula("grow_wheat")
	if err != nil {
		t.Fatalf("formula: %v", err)
	}
	if !farm.Supports(grow) {
		t.Fatalf("farm should support grow_wheat")
	}
	wheat, _ := c.Lookup("wheat")
	if grow.Output.Get(wheat) != 4 {
		t.Fatalf("expected 4 wheat per unit, got %d", grow.Output.Get(wheat))
	}

	starting := c.StartingTypes()
	if starting.Get(c.Money()) != 500 {
		t.Fatalf("expected 500 starting money, got %d", starting.Get(c.Money()))
	}

	infantry, _ := c.Lookup("infantry")
	tech, _ := c.Lookup("steel_making")
	if infantry.UnitLevels[2].AutoCost.Get(tech) != 1 {
		t.Fatalf("expected steel_making requirement on infantry level 2")
	}
}

func TestStartingTypesIsACopy(t *testing.T) {
	c, err := Load(defaultModPath(), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b := c.StartingTypes()
	b.Add(c.Money(), 1000)
	again := c.StartingTypes()
	if again.Get(c.Money()) != 500 {
		t.Fatalf("catalog starting batch mutated through a copy")
	}
}

func TestSchemaRejectsUnknownKind(t *testing.T) {
	doc := []byte(`
types:
  - { key: gold, kind: treasure }
`)
	err := ValidateDocument(doc)
	if err == nil {
		t.Fatalf("expected schema failure")
	}
	if gameerr.GetType(err) != gameerr.TypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseRejectsUnresolvedReference(t *testing.T) {
	doc := []byte(`
types:
  - { key: money, kind: money }
starting:
  gold: 5
`)
	_, err := Parse(doc, LoadOptions{})
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestRegisterRejectsSecondSingleton(t *testing.T) {
	c := New()
	if err := c.Register(&Type{Key: "money", Kind: KindMoney}); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if err := c.Register(&Type{Key: "gold", Kind: KindMoney}); err == nil {
		t.Fatalf("expected duplicate singleton to be rejected")
	}
	if err := c.Register(&Type{Key: "money", Kind: KindResource}); err == nil {
		t.Fatalf("expected duplicate key to be rejected")
	}
}

func TestRegisterValidatesShape(t *testing.T) {
	c := New()
	if err := c.Register(&Type{Key: "farmer", Kind: KindWorkerType}); err == nil {
		t.Fatalf("expected worker without labor to be rejected")
	}
	if err := c.Register(&Type{Key: "tank", Kind: KindUnitType}); err == nil {
		t.Fatalf("expected unit without levels to be rejected")
	}
	if err := c.Register(&Type{Key: "blank"}); err == nil {
		t.Fatalf("expected invalid kind to be rejected")
	}
}

func TestRegisterAssignsIDs(t *testing.T) {
	c := New()
	a := &Type{Key: "wheat", Kind: KindResource}
	b := &Type{Key: "iron", Kind: KindResource, ID: 10}
	d := &Type{Key: "coal", Kind: KindResource}
	for _, typ := range []*Type{a, b, d} {
		if err := c.Register(typ); err != nil {
			t.Fatalf("register %s: %v", typ.Key, err)
		}
	}
	if a.ID != 1 || b.ID != 10 || d.ID != 11 {
		t.Fatalf("unexpected ids %d %d %d", a.ID, b.ID, d.ID)
	}
	if got, ok := c.LookupByID(10); !ok || got != b {
		t.Fatalf("lookup by id failed")
	}
	resources := c.ByKind(KindResource)
	if len(resources) != 3 || resources[0] != a || resources[2] != d {
		t.Fatalf("ByKind not ordered by id")
	}
	export := c.Export()
	if len(export) != 3 || export[1].Key != "iron" || export[1].Kind != "resource" {
		t.Fatalf("unexpected export %+v", export)
	}
}

func TestRegisterFormulaValidation(t *testing.T) {
	c := New()
	wheat := &Type{Key: "wheat", Kind: KindResource}
	if err := c.Register(wheat); err != nil {
		t.Fatalf("register: %v", err)
	}

	bad := &Formula{Key: "nothing"}
	bad.Input.Add(wheat, 0)
	if err := c.RegisterFormula(bad); err == nil {
		t.Fatalf("expected zero input to be rejected")
	}

	good := &Formula{Key: "bake"}
	good.Input.Add(wheat, 2)
	if err := c.RegisterFormula(good); err != nil {
		t.Fatalf("unexpected formula error: %v", err)
	}
	if err := c.RegisterFormula(good); err == nil {
		t.Fatalf("expected duplicate formula to be rejected")
	}
}

func TestNilCatalogIsSafe(t *testing.T) {
	var c *Catalog
	if c.Money() != nil {
		t.Fatalf("nil catalog must not report a money type")
	}
	if _, ok := c.Lookup("money"); ok {
		t.Fatalf("nil catalog lookup must fail")
	}
	if c.DatePerTurn() != 1 {
		t.Fatalf("nil catalog should fall back to one date per turn")
	}
	if _, err := c.Formula("x"); !errors.Is(err, ErrUnknownFormula) {
		t.Fatalf("expected unknown formula, got %v", err)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		if err != nil || parsed != k {
			t.Fatalf("kind %d did not round trip through %q", k, k.String())
		}
	}
	if _, err := ParseKind("invalid"); err == nil {
		t.Fatalf("invalid must not parse as a kind")
	}
	if len(Kinds()) != 11 {
		t.Fatalf("expected 11 kinds, got %d", len(Kinds()))
	}
}
