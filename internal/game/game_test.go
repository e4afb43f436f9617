package game

import (
	"context"
	"errors"
	"testing"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/ledger"
	"github.com/gravitas-games/aftermath/internal/transfer"
)

func testCatalog(t *testing.T) (*catalog.Catalog, *catalog.Type, *catalog.Type) {
	t.Helper()
	cat := catalog.New()
	cat.Configure(catalog.Settings{Name: "test", StartDate: 1900, DatePerTurn: 2})
	money := &catalog.Type{Key: "money", Kind: catalog.KindMoney}
	wheat := &catalog.Type{Key: "wheat", Kind: catalog.KindResource}
	for _, typ := range []*catalog.Type{money, wheat} {
		if err := cat.Register(typ); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	var start catalog.Batch
	start.Add(money, 100)
	cat.SetStartingTypes(start)
	return cat, money, wheat
}

func TestCalendar(t *testing.T) {
	cat, _, _ := testCatalog(t)
	c := NewCalendar(cat)
	if c.Turn() != 0 || c.Date() != 1900 {
		t.Fatalf("expected turn 0 on 1900, got %d/%d", c.Turn(), c.Date())
	}
	c.Advance()
	c.Advance()
	if c.Date() != 1904 {
		t.Fatalf("expected 1904, got %d", c.Date())
	}
}

func TestBeginTurnOncePerTurn(t *testing.T) {
	cat, _, _ := testCatalog(t)
	bus := events.NewSimpleBus()
	turns := 0
	bus.Subscribe(events.AllOwners, func(e events.Event) {
		if e.Type == events.EventTurnStarted {
			turns++
		}
	})
	g := New(cat, nil, bus, nil)
	if _, err := g.AddPlayer(ledger.Options{Name: "prussia"}); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if _, err := g.AddPlayer(ledger.Options{Name: "prussia"}); !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("expected duplicate player, got %v", err)
	}

	if err := g.BeginTurn("prussia"); err != nil {
		t.Fatalf("begin turn: %v", err)
	}
	if err := g.BeginTurn("prussia"); !errors.Is(err, ErrTurnAlreadyStarted) {
		t.Fatalf("expected already started, got %v", err)
	}
	if err := g.BeginTurn("austria"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected unknown player, got %v", err)
	}
	g.EndRound()
	if err := g.BeginTurn("prussia"); err != nil {
		t.Fatalf("next turn: %v", err)
	}
	if turns != 2 {
		t.Fatalf("expected 2 turn starts, got %d", turns)
	}
}

func TestPlayerDateFollowsCalendar(t *testing.T) {
	cat, _, _ := testCatalog(t)
	g := New(cat, nil, nil, nil)
	p, _ := g.AddPlayer(ledger.Options{Name: "prussia"})
	if p.Date() != 1900 {
		t.Fatalf("expected 1900, got %d", p.Date())
	}
	if err := g.PlayRound(context.Background(), nil); err != nil {
		t.Fatalf("play round: %v", err)
	}
	if p.Date() != 1902 || g.Turn() != 1 {
		t.Fatalf("expected 1902 on turn 1, got %d/%d", p.Date(), g.Turn())
	}
}

func TestPlayRoundHonorsCancellation(t *testing.T) {
	cat, _, _ := testCatalog(t)
	g := New(cat, nil, nil, nil)
	_, _ = g.AddPlayer(ledger.Options{Name: "prussia"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.PlayRound(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if g.Turn() != 0 {
		t.Fatalf("a cancelled round must not advance the calendar")
	}
}

func TestSettle(t *testing.T) {
	cat, _, wheat := testCatalog(t)
	g := New(cat, nil, nil, nil)
	seller, _ := g.AddPlayer(ledger.Options{Name: "prussia"})
	buyer, _ := g.AddPlayer(ledger.Options{Name: "austria"})

	_ = seller.Give(wheat, 10)
	seller.Transport().AddMerchantMarine(10)
	if err := seller.Transport().StartTrading(seller, wheat, 6); err != nil {
		t.Fatalf("start trading: %v", err)
	}

	if err := g.Settle("prussia", "austria", wheat, 6, 150); !errors.Is(err, transfer.ErrInsufficient) {
		t.Fatalf("buyer has only 100, expected insufficient, got %v", err)
	}
	if err := g.Settle("prussia", "austria", wheat, 7, 50); !errors.Is(err, transfer.ErrInsufficient) {
		t.Fatalf("seller trades only 6, expected insufficient, got %v", err)
	}
	if err := g.Settle("prussia", "austria", wheat, 6, 60); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if buyer.Stockpile(wheat) != 6 || buyer.Money() != 40 || seller.Money() != 160 {
		t.Fatalf("unexpected balances: buyer %d wheat %d money, seller %d money",
			buyer.Stockpile(wheat), buyer.Money(), seller.Money())
	}
	if seller.Transport().Trading(wheat) != 0 || seller.Stockpile(wheat) != 4 {
		t.Fatalf("seller should have 4 wheat and nothing in trade")
	}

	reports := g.Reports()
	if len(reports) != 2 || reports[0].Name != "austria" {
		t.Fatalf("reports should be sorted by name")
	}
}
