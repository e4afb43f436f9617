// Package catalog owns every type, level and formula definition of a loaded
// mod. Live game entities reference catalog data by pointer and never copy
// or free it.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/pkg/models"
)

// ErrUnknownType is returned when a key does not name a catalog type.
var ErrUnknownType = gameerr.NotFound("catalog: unknown type")

// ErrUnknownFormula is returned when a key does not name a formula.
var ErrUnknownFormula = gameerr.NotFound("catalog: unknown formula")

// Settings holds the mod-wide values that are not types.
type Settings struct {
	Name        string
	StartDate   int
	DatePerTurn int
	MaxBids     int
}

// Catalog stores types keyed by string key and hands out numeric IDs.
type Catalog struct {
	mu         sync.RWMutex
	types      map[string]*Type
	byID       map[TypeID]*Type
	formulas   map[string]*Formula
	nextID     TypeID
	singletons [KindCount]*Type
	starting   Batch
	settings   Settings
	digest     string
}

// New constructs an empty catalog with a one-date-per-turn calendar.
func New() *Catalog {
	return &Catalog{
		types:    make(map[string]*Type),
		byID:     make(map[TypeID]*Type),
		formulas: make(map[string]*Formula),
		settings: Settings{DatePerTurn: 1},
	}
}

// Register inserts a type. Keys must be unique and singleton kinds may only
// be registered once. A zero ID is replaced with the next free ID.
func (c *Catalog) Register(t *Type) error {
	if t == nil {
		return errors.New("catalog: nil type")
	}
	if t.Key == "" {
		return errors.New("catalog: type missing key")
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("catalog: type %s has invalid kind", t.Key)
	}
	if err := validateShape(t); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.types[t.Key]; exists {
		return fmt.Errorf("catalog: duplicate type %s", t.Key)
	}
	if t.Kind.Singleton() && c.singletons[t.Kind] != nil {
		return fmt.Errorf("catalog: %s already defined by %s", t.Kind, c.singletons[t.Kind].Key)
	}
	if t.ID == 0 {
		c.nextID++
		t.ID = c.nextID
	} else {
		if owner, collision := c.byID[t.ID]; collision {
			return fmt.Errorf("catalog: id %d already assigned to %s", t.ID, owner.Key)
		}
		if t.ID > c.nextID {
			c.nextID = t.ID
		}
	}

	c.types[t.Key] = t
	c.byID[t.ID] = t
	if t.Kind.Singleton() {
		c.singletons[t.Kind] = t
	}
	return nil
}

func validateShape(t *Type) error {
	switch t.Kind {
	case KindWorkerType:
		if t.Labor <= 0 {
			return fmt.Errorf("catalog: worker %s must provide positive labor", t.Key)
		}
	case KindUnitType:
		if len(t.UnitLevels) == 0 {
			return fmt.Errorf("catalog: unit %s has no levels", t.Key)
		}
		for i, l := range t.UnitLevels {
			if l == nil {
				return fmt.Errorf("catalog: unit %s level %d is nil", t.Key, i)
			}
		}
	case KindProductionCenterType:
		if len(t.ProductionLevels) == 0 {
			return fmt.Errorf("catalog: production center %s has no levels", t.Key)
		}
		for i, l := range t.ProductionLevels {
			if l == nil {
				return fmt.Errorf("catalog: production center %s level %d is nil", t.Key, i)
			}
			if l.MaxOutput < 0 {
				return fmt.Errorf("catalog: production center %s level %d: max output cannot be negative", t.Key, i)
			}
		}
		for i, f := range t.Formulas {
			if f == nil {
				return fmt.Errorf("catalog: production center %s formula %d is nil", t.Key, i)
			}
		}
	}
	return nil
}

// RegisterFormula inserts a formula. Inputs must be positive and outputs
// non-negative.
func (c *Catalog) RegisterFormula(f *Formula) error {
	if f == nil {
		return errors.New("catalog: nil formula")
	}
	if f.Key == "" {
		return errors.New("catalog: formula missing key")
	}
	var err error
	f.Input.Each(func(t *Type, n int) {
		if err != nil {
			return
		}
		if !t.Valid() {
			err = fmt.Errorf("formula %s: input references an invalid type", f.Key)
		} else if n <= 0 {
			err = fmt.Errorf("formula %s: input %s: quantity must be positive", f.Key, t.Key)
		}
	})
	f.Output.Each(func(t *Type, n int) {
		if err != nil {
			return
		}
		if !t.Valid() {
			err = fmt.Errorf("formula %s: output references an invalid type", f.Key)
		} else if n < 0 {
			err = fmt.Errorf("formula %s: output %s: quantity cannot be negative", f.Key, t.Key)
		}
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.formulas[f.Key]; exists {
		return fmt.Errorf("catalog: duplicate formula %s", f.Key)
	}
	c.formulas[f.Key] = f
	return nil
}

// Configure replaces the mod-wide settings.
func (c *Catalog) Configure(s Settings) {
	if s.DatePerTurn == 0 {
		s.DatePerTurn = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
}

// SetStartingTypes replaces the batch every new player receives.
func (c *Catalog) SetStartingTypes(b Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starting = b.Clone()
}

// Lookup returns the type registered under key.
func (c *Catalog) Lookup(key string) (*Type, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[key]
	return t, ok
}

// Find is Lookup reporting ErrUnknownType for missing keys.
func (c *Catalog) Find(key string) (*Type, error) {
	t, ok := c.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, key)
	}
	return t, nil
}

// FindKind is Find that also checks the kind.
func (c *Catalog) FindKind(key string, kind Kind) (*Type, error) {
	t, err := c.Find(key)
	if err != nil {
		return nil, err
	}
	if t.Kind != kind {
		return nil, gameerr.Validationf("catalog: %s is a %s, not a %s", key, t.Kind, kind)
	}
	return t, nil
}

// LookupByID returns the type with the numeric ID.
func (c *Catalog) LookupByID(id TypeID) (*Type, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.byID[id]
	return t, ok
}

// Formula returns the formula registered under key.
func (c *Catalog) Formula(key string) (*Formula, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormula, key)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.formulas[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormula, key)
	}
	return f, nil
}

// ByKind returns every type of a kind ordered by ID.
func (c *Catalog) ByKind(kind Kind) []*Type {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Type
	for _, t := range c.types {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Singleton returns the single type of a singleton kind, or nil.
func (c *Catalog) Singleton(kind Kind) *Type {
	if c == nil || !kind.Valid() {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.singletons[kind]
}

// Money returns the money type, or nil when the mod defines none.
func (c *Catalog) Money() *Type { return c.Singleton(KindMoney) }

// Labor returns the labor type.
func (c *Catalog) Labor() *Type { return c.Singleton(KindLabor) }

// MerchantMarine returns the merchant marine type.
func (c *Catalog) MerchantMarine() *Type { return c.Singleton(KindMerchantMarine) }

// TransportCapacity returns the transport capacity type.
func (c *Catalog) TransportCapacity() *Type { return c.Singleton(KindTransportCapacity) }

// Date returns the date type.
func (c *Catalog) Date() *Type { return c.Singleton(KindDate) }

// StartingTypes returns a copy of the batch every new player receives.
func (c *Catalog) StartingTypes() Batch {
	if c == nil {
		return Batch{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.starting.Clone()
}

// Settings returns the mod-wide settings.
func (c *Catalog) Settings() Settings {
	if c == nil {
		return Settings{DatePerTurn: 1}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// MaxBids is the number of resources a player may bid on at once.
func (c *Catalog) MaxBids() int { return c.Settings().MaxBids }

// StartDate is the date of turn zero.
func (c *Catalog) StartDate() int { return c.Settings().StartDate }

// DatePerTurn is how far the date moves each turn.
func (c *Catalog) DatePerTurn() int { return c.Settings().DatePerTurn }

// Digest is the sha256 of the loaded document, empty for built catalogs.
func (c *Catalog) Digest() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.digest
}

// Len returns the number of registered types.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.types)
}

// Export copies catalog contents into entries sorted by ID.
func (c *Catalog) Export() []models.CatalogEntry {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.types) == 0 {
		return nil
	}
	out := make([]models.CatalogEntry, 0, len(c.types))
	for _, t := range c.types {
		entry := models.CatalogEntry{
			ID:          uint32(t.ID),
			Key:         t.Key,
			Name:        t.Name,
			Kind:        t.Kind.String(),
			Description: t.Description,
			Labor:       t.Labor,
			Land:        t.Land,
			Sea:         t.Sea,
		}
		switch t.Kind {
		case KindUnitType:
			entry.Levels = len(t.UnitLevels)
		case KindProductionCenterType:
			entry.Levels = len(t.ProductionLevels)
			for _, f := range t.Formulas {
				entry.Formulas = append(entry.Formulas, f.Key)
			}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
