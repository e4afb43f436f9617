// Package territory models the tile groups players hold: land provinces
// that carry armies and seas that carry navies.
package territory

import (
	"fmt"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/hex"
	"github.com/gravitas-games/aftermath/internal/military"
)

var (
	// ErrNoFreeTile is returned when every tile in a group already holds a specialist.
	ErrNoFreeTile = gameerr.Capacity("territory: no free tile")
	// ErrNotInGroup is returned for a position outside the tile group.
	ErrNotInGroup = gameerr.NotFound("territory: tile not in group")
	// ErrTileTaken is returned when a tile is already claimed by another group.
	ErrTileTaken = gameerr.Precondition("territory: tile already grouped")
	// ErrSeaSpecialist is returned when placing a specialist at sea.
	ErrSeaSpecialist = gameerr.Precondition("territory: specialists live on land")
)

// Terrain separates land groups from sea groups.
type Terrain int

const (
	// Land groups are provinces.
	Land Terrain = iota
	// Sea groups carry navies.
	Sea
)

func (t Terrain) String() string {
	if t == Sea {
		return "sea"
	}
	return "land"
}

// Specialist is a tile unit of a specialist type.
type Specialist struct {
	Type  *catalog.Type
	Owner string
}

// Tile is one hex in a group. Resources listed on a tile are yielded to the
// transport network of the group's owner.
type Tile struct {
	Pos        hex.Axial
	Resources  []*catalog.Type
	Yield      int
	Specialist *Specialist
	group      *TileGroup
}

// Group returns the tile group that holds the tile.
func (t *Tile) Group() *TileGroup {
	return t.group
}

// TileGroup is a named set of tiles with an owner, a capital tile and a
// unit collection.
type TileGroup struct {
	name    string
	terrain Terrain
	owner   string
	capital *Tile
	tiles   []*Tile
	index   map[hex.Axial]*Tile
	units   military.Collection
}

// NewProvince returns an empty land group carrying an army.
func NewProvince(name string) *TileGroup {
	return newGroup(name, Land, military.NewArmy())
}

// NewSea returns an empty sea group carrying a navy.
func NewSea(name string) *TileGroup {
	return newGroup(name, Sea, military.NewNavy())
}

func newGroup(name string, terrain Terrain, units military.Collection) *TileGroup {
	return &TileGroup{
		name:    name,
		terrain: terrain,
		index:   make(map[hex.Axial]*Tile),
		units:   units,
	}
}

// Name returns the group name.
func (g *TileGroup) Name() string { return g.name }

// Terrain returns whether the group is land or sea.
func (g *TileGroup) Terrain() Terrain { return g.terrain }

// IsLand reports whether the group is a province.
func (g *TileGroup) IsLand() bool { return g.terrain == Land }

// IsSea reports whether the group is a sea.
func (g *TileGroup) IsSea() bool { return g.terrain == Sea }

// Owner returns the owning player name, or "" when unowned.
func (g *TileGroup) Owner() string { return g.owner }

// SetOwner records the owning player.
func (g *TileGroup) SetOwner(owner string) { g.owner = owner }

// Units returns the group's army or navy.
func (g *TileGroup) Units() military.Collection { return g.units }

// Add puts a tile into the group. The first tile added becomes the capital.
func (g *TileGroup) Add(t *Tile) error {
	if t.group != nil {
		return fmt.Errorf("%w: %s in %s", ErrTileTaken, t.Pos, t.group.name)
	}
	if _, ok := g.index[t.Pos]; ok {
		return fmt.Errorf("%w: %s in %s", ErrTileTaken, t.Pos, g.name)
	}
	if t.Yield == 0 {
		t.Yield = 1
	}
	t.group = g
	g.tiles = append(g.tiles, t)
	g.index[t.Pos] = t
	if g.capital == nil {
		g.capital = t
	}
	return nil
}

// Tile returns the tile at a position.
func (g *TileGroup) Tile(pos hex.Axial) (*Tile, bool) {
	t, ok := g.index[pos]
	return t, ok
}

// Tiles returns the group's tiles in insertion order.
func (g *TileGroup) Tiles() []*Tile {
	out := make([]*Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// Contains reports whether a position belongs to the group.
func (g *TileGroup) Contains(pos hex.Axial) bool {
	_, ok := g.index[pos]
	return ok
}

// Capital returns the capital tile, or nil for an empty group.
func (g *TileGroup) Capital() *Tile { return g.capital }

// SetCapital moves the capital to a tile of the group.
func (g *TileGroup) SetCapital(pos hex.Axial) error {
	t, ok := g.index[pos]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInGroup, pos)
	}
	g.capital = t
	return nil
}

// Borders reports whether any tile of g is adjacent to a tile of other.
func (g *TileGroup) Borders(other *TileGroup) bool {
	for _, t := range g.tiles {
		for _, n := range t.Pos.Neighbors() {
			if other.Contains(n) {
				return true
			}
		}
	}
	return false
}

// Yields sums the per-turn yield of every tile resource.
func (g *TileGroup) Yields() catalog.Batch {
	var out catalog.Batch
	for _, t := range g.tiles {
		for _, r := range t.Resources {
			out.Add(r, t.Yield)
		}
	}
	return out
}

// PlaceSpecialist puts s on the capital tile if it is free, otherwise on
// the first free tile.
func (g *TileGroup) PlaceSpecialist(s *Specialist) (*Tile, error) {
	if g.terrain != Land {
		return nil, fmt.Errorf("%w: %s", ErrSeaSpecialist, g.name)
	}
	if g.capital != nil && g.capital.Specialist == nil {
		g.capital.Specialist = s
		return g.capital, nil
	}
	for _, t := range g.tiles {
		if t.Specialist == nil {
			t.Specialist = s
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoFreeTile, g.name)
}

// Specialists counts the specialists on the group's tiles.
func (g *TileGroup) Specialists() int {
	n := 0
	for _, t := range g.tiles {
		if t.Specialist != nil {
			n++
		}
	}
	return n
}

func (g *TileGroup) String() string {
	return fmt.Sprintf("%s(%s, %d tiles)", g.name, g.terrain, len(g.tiles))
}
