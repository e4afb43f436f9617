package territory

import (
	"fmt"
	"log/slog"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/hex"
)

// ErrUnknownGroup is returned when a tile group name is not in the world.
var ErrUnknownGroup = gameerr.NotFound("territory: unknown tile group")

// World indexes every tile group by name and every tile by position.
type World struct {
	groups map[string]*TileGroup
	order  []*TileGroup
	tiles  map[hex.Axial]*Tile
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		groups: make(map[string]*TileGroup),
		tiles:  make(map[hex.Axial]*Tile),
	}
}

// AddGroup registers a group and its tiles. Group names and tile positions
// must be unique across the world.
func (w *World) AddGroup(g *TileGroup) error {
	if _, ok := w.groups[g.name]; ok {
		return gameerr.Validationf("territory: duplicate group %q", g.name)
	}
	for _, t := range g.tiles {
		if other, ok := w.tiles[t.Pos]; ok {
			return fmt.Errorf("%w: %s in %s", ErrTileTaken, t.Pos, other.group.name)
		}
	}
	for _, t := range g.tiles {
		w.tiles[t.Pos] = t
	}
	w.groups[g.name] = g
	w.order = append(w.order, g)
	return nil
}

// Group returns a group by name.
func (w *World) Group(name string) (*TileGroup, error) {
	g, ok := w.groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return g, nil
}

// Groups returns every group in registration order.
func (w *World) Groups() []*TileGroup {
	out := make([]*TileGroup, len(w.order))
	copy(out, w.order)
	return out
}

// TileAt returns the tile at a position.
func (w *World) TileAt(pos hex.Axial) (*Tile, bool) {
	t, ok := w.tiles[pos]
	return t, ok
}

// GroupAt returns the group holding a position.
func (w *World) GroupAt(pos hex.Axial) (*TileGroup, bool) {
	t, ok := w.tiles[pos]
	if !ok {
		return nil, false
	}
	return t.group, true
}

// Owned returns the groups held by a player.
func (w *World) Owned(owner string) []*TileGroup {
	var out []*TileGroup
	for _, g := range w.order {
		if g.owner == owner {
			out = append(out, g)
		}
	}
	return out
}

// Len returns the number of tiles in the world.
func (w *World) Len() int {
	return len(w.tiles)
}

// GroupDoc describes one tile group in a scenario file. Tiles are listed
// explicitly, or generated as a hex disk of the given radius.
type GroupDoc struct {
	Name    string    `yaml:"name"`
	Terrain string    `yaml:"terrain"`
	Owner   string    `yaml:"owner"`
	Center  hex.Axial `yaml:"center"`
	Radius  int       `yaml:"radius"`
	Tiles   []TileDoc `yaml:"tiles"`
}

// TileDoc describes one tile.
type TileDoc struct {
	Pos       hex.Axial `yaml:"pos"`
	Resources []string  `yaml:"resources"`
	Yield     int       `yaml:"yield"`
}

// Build creates a world from group documents, resolving resource keys
// against the catalog.
func Build(docs []GroupDoc, cat *catalog.Catalog, logger *slog.Logger) (*World, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := NewWorld()
	for _, d := range docs {
		g, err := buildGroup(d, cat)
		if err != nil {
			return nil, err
		}
		if err := w.AddGroup(g); err != nil {
			return nil, err
		}
	}
	logger.Debug("world built", "component", "territory", "groups", len(w.order), "tiles", len(w.tiles))
	return w, nil
}

func buildGroup(d GroupDoc, cat *catalog.Catalog) (*TileGroup, error) {
	var g *TileGroup
	switch d.Terrain {
	case "", "land":
		g = NewProvince(d.Name)
	case "sea":
		g = NewSea(d.Name)
	default:
		return nil, gameerr.Validationf("territory: group %q has unknown terrain %q", d.Name, d.Terrain)
	}
	g.SetOwner(d.Owner)

	tiles := d.Tiles
	if len(tiles) == 0 {
		for _, pos := range hex.Disk(d.Center, d.Radius) {
			tiles = append(tiles, TileDoc{Pos: pos})
		}
	}
	for _, td := range tiles {
		t := &Tile{Pos: td.Pos, Yield: td.Yield}
		for _, key := range td.Resources {
			r, err := cat.FindKind(key, catalog.KindResource)
			if err != nil {
				return nil, fmt.Errorf("group %q tile %s: %w", d.Name, td.Pos, err)
			}
			t.Resources = append(t.Resources, r)
		}
		if err := g.Add(t); err != nil {
			return nil, err
		}
	}
	return g, nil
}
