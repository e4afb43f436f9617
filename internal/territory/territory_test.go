package territory

import (
	"errors"
	"testing"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/hex"
	"github.com/gravitas-games/aftermath/internal/military"
)

func TestProvinceCapitalAndSpecialists(t *testing.T) {
	g := NewProvince("brandenburg")
	for _, pos := range []hex.Axial{{Q: 0, R: 0}, {Q: 1, R: 0}} {
		if err := g.Add(&Tile{Pos: pos}); err != nil {
			t.Fatalf("add %v: %v", pos, err)
		}
	}
	if g.Capital() == nil || g.Capital().Pos != (hex.Axial{}) {
		t.Fatalf("first tile should become the capital")
	}
	if err := g.SetCapital(hex.Axial{Q: 1}); err != nil {
		t.Fatalf("set capital: %v", err)
	}
	if err := g.SetCapital(hex.Axial{Q: 9}); !errors.Is(err, ErrNotInGroup) {
		t.Fatalf("expected not in group, got %v", err)
	}

	engineer := &catalog.Type{Key: "engineer", Kind: catalog.KindSpecialistType}
	first, err := g.PlaceSpecialist(&Specialist{Type: engineer, Owner: "prussia"})
	if err != nil || first.Pos != (hex.Axial{Q: 1}) {
		t.Fatalf("first specialist belongs on the capital, got %v (%v)", first, err)
	}
	second, err := g.PlaceSpecialist(&Specialist{Type: engineer, Owner: "prussia"})
	if err != nil || second.Pos != (hex.Axial{}) {
		t.Fatalf("second specialist takes the next free tile, got %v (%v)", second, err)
	}
	if _, err := g.PlaceSpecialist(&Specialist{Type: engineer}); !errors.Is(err, ErrNoFreeTile) {
		t.Fatalf("expected no free tile, got %v", err)
	}
	if g.Specialists() != 2 {
		t.Fatalf("expected 2 specialists, got %d", g.Specialists())
	}
}

func TestSeaCarriesNavy(t *testing.T) {
	sea := NewSea("baltic")
	if _, ok := sea.Units().(*military.Navy); !ok {
		t.Fatalf("sea groups carry a navy")
	}
	if _, ok := NewProvince("p").Units().(*military.Army); !ok {
		t.Fatalf("provinces carry an army")
	}
	_ = sea.Add(&Tile{Pos: hex.Axial{Q: 5}})
	if _, err := sea.PlaceSpecialist(&Specialist{}); !errors.Is(err, ErrSeaSpecialist) {
		t.Fatalf("expected sea specialist error, got %v", err)
	}
}

func TestTilesBelongToOneGroup(t *testing.T) {
	a := NewProvince("a")
	b := NewProvince("b")
	tile := &Tile{Pos: hex.Axial{}}
	if err := a.Add(tile); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add(tile); !errors.Is(err, ErrTileTaken) {
		t.Fatalf("expected tile taken, got %v", err)
	}
	_ = b.Add(&Tile{Pos: hex.Axial{Q: 1}})
	if !a.Borders(b) || !b.Borders(a) {
		t.Fatalf("adjacent groups should border")
	}

	w := NewWorld()
	if err := w.AddGroup(a); err != nil {
		t.Fatalf("add group: %v", err)
	}
	if err := w.AddGroup(a); err == nil {
		t.Fatalf("duplicate group names are rejected")
	}
	clash := NewProvince("c")
	_ = clash.Add(&Tile{Pos: hex.Axial{}})
	if err := w.AddGroup(clash); !errors.Is(err, ErrTileTaken) {
		t.Fatalf("expected overlapping tiles to be rejected, got %v", err)
	}
}

func TestBuildWorld(t *testing.T) {
	cat := catalog.New()
	wheat := &catalog.Type{Key: "wheat", Kind: catalog.KindResource}
	if err := cat.Register(wheat); err != nil {
		t.Fatalf("register: %v", err)
	}

	docs := []GroupDoc{
		{Name: "brandenburg", Owner: "prussia", Radius: 1},
		{Name: "silesia", Owner: "prussia", Tiles: []TileDoc{
			{Pos: hex.Axial{Q: 3, R: 0}, Resources: []string{"wheat"}, Yield: 2},
			{Pos: hex.Axial{Q: 4, R: 0}, Resources: []string{"wheat"}},
		}},
		{Name: "baltic", Terrain: "sea", Center: hex.Axial{Q: 0, R: -3}},
	}
	w, err := Build(docs, cat, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if w.Len() != 7+2+1 {
		t.Fatalf("expected 10 tiles, got %d", w.Len())
	}
	if got := len(w.Owned("prussia")); got != 2 {
		t.Fatalf("expected 2 owned groups, got %d", got)
	}
	silesia, err := w.Group("silesia")
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	yields := silesia.Yields()
	if yields.Get(wheat) != 3 {
		t.Fatalf("expected 3 wheat yield, got %d", yields.Get(wheat))
	}
	if g, ok := w.GroupAt(hex.Axial{Q: 0, R: -3}); !ok || !g.IsSea() {
		t.Fatalf("expected baltic at (0,-3)")
	}
	if _, err := w.Group("bavaria"); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected unknown group, got %v", err)
	}

	bad := []GroupDoc{{Name: "x", Tiles: []TileDoc{{Resources: []string{"gold"}}}}}
	if _, err := Build(bad, cat, nil); !errors.Is(err, catalog.ErrUnknownType) {
		t.Fatalf("expected unknown type, got %v", err)
	}
	if _, err := Build([]GroupDoc{{Name: "y", Terrain: "lava"}}, cat, nil); err == nil {
		t.Fatalf("expected unknown terrain to fail")
	}
}
