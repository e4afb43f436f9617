package scenario

import (
	"context"
	"testing"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/game"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/journal"
)

func loadSample(t *testing.T) (*catalog.Catalog, *Scenario) {
	t.Helper()
	cat, err := catalog.Load("../../configs/mods/default.yaml", catalog.LoadOptions{ValidateSchema: true})
	if err != nil {
		t.Fatalf("load mod: %v", err)
	}
	s, err := Load("../../configs/scenarios/sample.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	return cat, s
}

func TestSampleScenario(t *testing.T) {
	cat, s := loadSample(t)
	bus := events.NewSimpleBus()
	sink := journal.NewMemorySink()
	rec := journal.NewRecorder(context.Background(), sink, game.NewCalendar(cat), nil)
	rec.Attach(bus)
	g, err := s.Setup(cat, bus, nil)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	rec.SetCalendar(g.Calendar())

	res, err := s.Run(context.Background(), g, s.Turns, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Turns != 3 || res.Applied != 15 || res.Rejected != 1 {
		t.Fatalf("expected 3 turns, 15 applied, 1 rejected, got %+v", res)
	}

	wheat, _ := cat.Find("wheat")
	steam, _ := cat.Find("steam_power")
	prussia, _ := g.Player("prussia")
	austria, _ := g.Player("austria")

	if prussia.Money() != 250 || austria.Money() != 350 {
		t.Fatalf("expected money 250/350, got %d/%d", prussia.Money(), austria.Money())
	}
	if prussia.Stockpile(wheat) != 14 || austria.Stockpile(wheat) != 26 {
		t.Fatalf("expected wheat 14/26, got %d/%d", prussia.Stockpile(wheat), austria.Stockpile(wheat))
	}
	if !prussia.HasTechnology(steam) {
		t.Fatalf("steam power should have been researched")
	}
	farm, _ := prussia.Industry().Center(0)
	if farm.Index() != 1 {
		t.Fatalf("prussia's farm should be level 1, got %d", farm.Index())
	}
	if n := len(prussia.Harbor().Units().Units()); n != 1 {
		t.Fatalf("expected one freighter in the harbor, got %d", n)
	}
	infantry := austria.Capital().Units().Units()
	if len(infantry) != 2 || infantry[0].Index() != 1 {
		t.Fatalf("expected two infantry with the first upgraded")
	}

	turnStarts := 0
	granted := make(map[string]bool)
	for _, e := range sink.Entries() {
		switch e.Event {
		case events.EventTurnStarted.String():
			if !granted[e.Player] {
				t.Fatalf("%s started a turn before its starting grant was journaled", e.Player)
			}
			turnStarts++
		case events.EventTransferCommitted.String():
			if e.Subject == "give" && e.Turn == 0 {
				granted[e.Player] = true
			}
		}
	}
	if turnStarts != 6 {
		t.Fatalf("expected 6 journaled turn starts, got %d", turnStarts)
	}
	if !granted["prussia"] || !granted["austria"] {
		t.Fatalf("starting grants missing from the journal: %v", granted)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	if _, err := Parse([]byte("name: empty\n")); !gameerr.IsValidation(err) {
		t.Fatalf("expected validation error for no players, got %v", err)
	}
	if _, err := Parse([]byte("players: [{name: a}]\nweather: rain\n")); !gameerr.IsValidation(err) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestRunAbortsOnUndecodableOrders(t *testing.T) {
	cat, _ := loadSample(t)
	s, err := Parse([]byte(`
players:
  - name: prussia
    orders:
      0: [{ type: annex, params: {} }]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	g, err := s.Setup(cat, nil, nil)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := s.Run(context.Background(), g, 1, nil); err == nil {
		t.Fatalf("expected unknown order type to abort the run")
	}
	if g.Turn() != 0 {
		t.Fatalf("no round should have been played")
	}
}
