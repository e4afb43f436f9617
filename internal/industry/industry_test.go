package industry

import (
	"errors"
	"testing"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/transfer"
	"github.com/gravitas-games/aftermath/internal/transfer/transfertest"
	"github.com/gravitas-games/aftermath/internal/upgrade"
	"github.com/gravitas-games/aftermath/pkg/models"
)

type fixture struct {
	money  *catalog.Type
	wheat  *catalog.Type
	seed   *catalog.Type
	farmer *catalog.Type
	grow   *catalog.Formula
	other  *catalog.Formula
	farm   *catalog.Type
}

func newFixture() fixture {
	f := fixture{
		money:  &catalog.Type{Key: "money", Kind: catalog.KindMoney},
		wheat:  &catalog.Type{Key: "wheat", Kind: catalog.KindResource},
		seed:   &catalog.Type{Key: "seed", Kind: catalog.KindResource},
		farmer: &catalog.Type{Key: "farmer", Kind: catalog.KindWorkerType, Labor: 2},
	}
	f.grow = &catalog.Formula{Key: "grow"}
	f.grow.Input.Add(f.seed, 1)
	f.grow.Output.Add(f.wheat, 4)
	f.other = &catalog.Formula{Key: "other"}
	f.other.Output.Add(f.wheat, 1)

	upgraded := &catalog.ProductionLevel{MaxOutput: 16}
	upgraded.Cost.Add(f.money, 100)
	f.farm = &catalog.Type{
		Key:              "farm",
		Kind:             catalog.KindProductionCenterType,
		Formulas:         []*catalog.Formula{f.grow},
		ProductionLevels: []*catalog.ProductionLevel{{MaxOutput: 8}, upgraded},
	}
	return f
}

func TestMaxAndFreeLabor(t *testing.T) {
	fx := newFixture()
	ind := New("prussia", nil, nil)
	ind.AddWorkers(fx.farmer, 3)

	if ind.MaxLabor() != 6 {
		t.Fatalf("expected max labor 6, got %d", ind.MaxLabor())
	}
	ind.AllocateLabor(4)
	if ind.FreeLabor() != 2 {
		t.Fatalf("expected free labor 2, got %d", ind.FreeLabor())
	}
	ind.RemoveWorkers(fx.farmer, 1)
	if ind.MaxLabor() != 4 || ind.FreeLabor() != 0 {
		t.Fatalf("expected 4/0 after removal, got %d/%d", ind.MaxLabor(), ind.FreeLabor())
	}
	if released := ind.ReleaseLabor(); released != 4 || ind.AllocatedLabor() != 0 {
		t.Fatalf("expected to release 4, got %d (allocated %d)", released, ind.AllocatedLabor())
	}
}

func TestBuildRejectsOtherKinds(t *testing.T) {
	fx := newFixture()
	ind := New("prussia", nil, nil)
	if _, err := ind.Build(fx.wheat); err == nil {
		t.Fatalf("expected resource type to be rejected")
	}
	if _, err := ind.Build(nil); err == nil {
		t.Fatalf("expected nil type to be rejected")
	}
	empty := &catalog.Type{Key: "ruin", Kind: catalog.KindProductionCenterType}
	if _, err := ind.Build(empty); !errors.Is(err, upgrade.ErrNoLevels) {
		t.Fatalf("expected ErrNoLevels, got %v", err)
	}
	if _, err := ind.Center(0); !errors.Is(err, ErrUnknownCenter) {
		t.Fatalf("expected unknown center, got %v", err)
	}
}

func TestOutputCeiling(t *testing.T) {
	fx := newFixture()
	ind := New("prussia", nil, nil)
	c, err := ind.Build(fx.farm)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	w := transfertest.NewWallet()
	w.Stock.Add(fx.seed, 10)

	// max output 8 at 4 wheat per unit: two units fit
	for i := 0; i < 2; i++ {
		if !c.CanProduce(w, fx.grow) {
			t.Fatalf("unit %d should be producible", i+1)
		}
		if err := c.StartProduction(w, fx.grow); err != nil {
			t.Fatalf("start %d: %v", i+1, err)
		}
	}
	if c.CanProduce(w, fx.grow) {
		t.Fatalf("third unit would produce 12 > 8")
	}
	if err := c.StartProduction(w, fx.grow); !errors.Is(err, ErrOutputCeiling) {
		t.Fatalf("expected ceiling error, got %v", err)
	}
	if w.Stock.Get(fx.seed) != 8 {
		t.Fatalf("rejected start must not charge, seed=%d", w.Stock.Get(fx.seed))
	}

	w.Stock.Add(fx.money, 100)
	if err := c.Upgrade(w); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if !c.CanProduce(w, fx.grow) {
		t.Fatalf("level 1 raises the ceiling to 16")
	}
}

func TestUnsupportedAndUnaffordable(t *testing.T) {
	fx := newFixture()
	ind := New("prussia", nil, nil)
	c, _ := ind.Build(fx.farm)
	w := transfertest.NewWallet()

	if c.CanProduce(w, fx.other) {
		t.Fatalf("farm does not list the other formula")
	}
	if err := c.StartProduction(w, fx.other); !errors.Is(err, ErrFormulaUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
	if c.CanProduce(w, fx.grow) {
		t.Fatalf("no seed to pay with")
	}
	if err := c.StartProduction(w, fx.grow); !errors.Is(err, transfer.ErrInsufficient) {
		t.Fatalf("expected insufficient, got %v", err)
	}
	if c.Producing(fx.grow) != 0 {
		t.Fatalf("failed start must not count")
	}

	w.Stock.Add(fx.seed, 1)
	w.Refuse[fx.wheat] = true
	if c.CanProduce(w, fx.grow) {
		t.Fatalf("account refusing wheat cannot receive output")
	}
	if err := c.StartProduction(w, fx.grow); !errors.Is(err, transfer.ErrCannotReceive) {
		t.Fatalf("expected cannot receive, got %v", err)
	}
}

func TestCancelAndFinishProduction(t *testing.T) {
	fx := newFixture()
	bus := events.NewSimpleBus()
	var seen []events.EventType
	bus.Subscribe("prussia", func(e events.Event) { seen = append(seen, e.Type) })

	ind := New("prussia", bus, nil)
	c, _ := ind.Build(fx.farm)
	w := transfertest.NewWallet()
	w.Stock.Add(fx.seed, 2)

	if err := c.StartProduction(w, fx.grow); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.StartProduction(w, fx.grow); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.CancelProduction(w, fx.grow); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if c.Producing(fx.grow) != 1 || w.Stock.Get(fx.seed) != 1 {
		t.Fatalf("expected 1 in flight and 1 seed, got %d/%d", c.Producing(fx.grow), w.Stock.Get(fx.seed))
	}

	n, err := ind.FinishProduction(w)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if n != 1 || w.Stock.Get(fx.wheat) != 4 {
		t.Fatalf("expected 1 unit and 4 wheat, got %d/%d", n, w.Stock.Get(fx.wheat))
	}
	if c.InFlight() != 0 {
		t.Fatalf("finish must zero in-flight counts")
	}

	if err := c.CancelProduction(w, fx.grow); !errors.Is(err, ErrNotProducing) {
		t.Fatalf("expected not producing, got %v", err)
	}
	if w.Stock.Get(fx.seed) != 1 {
		t.Fatalf("cancel with nothing in flight must not refund")
	}

	want := []events.EventType{
		events.EventProductionStarted,
		events.EventProductionStarted,
		events.EventProductionCancelled,
		events.EventProductionFinished,
	}
	if len(seen) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
}

func TestDeferredCenterUpgrade(t *testing.T) {
	fx := newFixture()
	ind := New("prussia", nil, nil)
	c, _ := ind.Build(fx.farm)
	w := transfertest.NewWallet()
	w.Stock.Add(fx.money, 100)

	if err := c.StartUpgrade(w); err != nil {
		t.Fatalf("start upgrade: %v", err)
	}
	if c.Index() != 0 {
		t.Fatalf("deferred upgrade must not change level yet")
	}
	n, err := ind.FinishUpgrades()
	if err != nil || n != 1 {
		t.Fatalf("expected 1 finished upgrade, got %d (%v)", n, err)
	}
	if c.Index() != 1 || c.Upgrading() {
		t.Fatalf("expected level 1 idle after turn start")
	}
	n, _ = ind.FinishUpgrades()
	if n != 0 {
		t.Fatalf("idle centers must not advance")
	}
}

func TestReport(t *testing.T) {
	fx := newFixture()
	ind := New("prussia", nil, nil)
	ind.AddWorkers(fx.farmer, 2)
	c, _ := ind.Build(fx.farm)
	w := transfertest.NewWallet()
	w.Stock.Add(fx.seed, 1)
	if err := c.StartProduction(w, fx.grow); err != nil {
		t.Fatalf("start: %v", err)
	}

	var r models.PlayerReport
	ind.Report(&r)
	if r.MaxLabor != 4 || r.Workers["farmer"] != 2 {
		t.Fatalf("unexpected labor section %+v", r)
	}
	if len(r.Centers) != 1 || r.Centers[0].Producing["grow"] != 1 {
		t.Fatalf("unexpected centers %+v", r.Centers)
	}
}
