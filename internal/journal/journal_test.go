package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gravitas-games/aftermath/internal/config"
	"github.com/gravitas-games/aftermath/internal/events"
)

type stubCalendar struct{ turn, date int }

func (c *stubCalendar) Turn() int { return c.turn }
func (c *stubCalendar) Date() int { return c.date }

type failingSink struct{}

func (failingSink) Write(context.Context, Entry) error { return errors.New("disk full") }
func (failingSink) Close() error                       { return nil }

func entry(player string, turn int, at time.Time) Entry {
	return Entry{
		ID:      uuid.New(),
		Turn:    turn,
		Date:    1900 + turn,
		Player:  player,
		Event:   events.EventTransferCommitted.String(),
		Subject: "give",
		Amount:  3,
		Data:    map[string]any{"wheat": 3},
		At:      at,
	}
}

func TestRecorderStampsEntries(t *testing.T) {
	bus := events.NewSimpleBus()
	sink := NewMemorySink()
	cal := &stubCalendar{turn: 2, date: 1904}
	rec := NewRecorder(context.Background(), sink, cal, nil)
	rec.Attach(bus)

	bus.Publish(events.Event{Type: events.EventTradeStarted, Owner: "prussia", Subject: "wheat", Amount: 6})
	cal.turn = 3
	bus.Publish(events.Event{Type: events.EventTurnStarted, Owner: "austria"})

	entries := sink.Entries()
	if len(entries) != 2 || rec.Written() != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.Player != "prussia" || first.Event != "TradeStarted" || first.Turn != 2 || first.Date != 1904 {
		t.Fatalf("unexpected entry %+v", first)
	}
	if first.ID == uuid.Nil || first.At.IsZero() {
		t.Fatalf("entries need an id and a time")
	}
	if entries[1].Turn != 3 || entries[0].ID == entries[1].ID {
		t.Fatalf("second entry should carry turn 3 and its own id")
	}
}

func TestRecorderSwitchesCalendar(t *testing.T) {
	sink := NewMemorySink()
	rec := NewRecorder(context.Background(), sink, &stubCalendar{turn: 0, date: 1900}, nil)
	rec.Record(events.Event{Type: events.EventTransferCommitted, Owner: "prussia", Subject: "give"})
	rec.SetCalendar(&stubCalendar{turn: 4, date: 1908})
	rec.Record(events.Event{Type: events.EventTurnStarted, Owner: "prussia"})

	entries := sink.Entries()
	if len(entries) != 2 || entries[0].Date != 1900 || entries[1].Turn != 4 || entries[1].Date != 1908 {
		t.Fatalf("expected entries stamped by each calendar in turn, got %+v", entries)
	}
}

func TestRecorderCountsFailures(t *testing.T) {
	rec := NewRecorder(context.Background(), failingSink{}, nil, nil)
	rec.Record(events.Event{Type: events.EventTurnStarted, Owner: "prussia"})
	if rec.Failures() != 1 || rec.Written() != 0 {
		t.Fatalf("expected 1 failure, got %d failures %d written", rec.Failures(), rec.Written())
	}
}

func TestFileSinkRotatesPerTurn(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)
	ctx := context.Background()
	now := time.Now()
	for _, e := range []Entry{entry("prussia", 0, now), entry("austria", 0, now), entry("prussia", 1, now)} {
		if err := sink.Write(ctx, e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	turn0, err := ReadFile(sink.PathForTurn(0))
	if err != nil {
		t.Fatalf("read turn 0: %v", err)
	}
	if len(turn0) != 2 || turn0[1].Player != "austria" {
		t.Fatalf("expected 2 entries in turn 0, got %d", len(turn0))
	}
	turn1, err := ReadFile(filepath.Join(dir, "journal-turn-0001.jsonl.zst"))
	if err != nil {
		t.Fatalf("read turn 1: %v", err)
	}
	if len(turn1) != 1 || turn1[0].Data["wheat"] != float64(3) {
		t.Fatalf("unexpected turn 1 entries %+v", turn1)
	}
}

func TestSQLiteSink(t *testing.T) {
	ctx := context.Background()
	sink, err := OpenSQLite(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sink.Close()

	base := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	want := []Entry{entry("prussia", 0, base), entry("prussia", 1, base.Add(time.Second))}
	want[1].Data = nil
	for _, e := range append(want, entry("austria", 0, base)) {
		if err := sink.Write(ctx, e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got, err := sink.Entries(ctx, "prussia")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ID != want[0].ID || got[1].Turn != 1 || !got[1].At.Equal(want[1].At) {
		t.Fatalf("entries not read back in order: %+v", got)
	}
	if got[0].Data["wheat"] != float64(3) || got[1].Data != nil {
		t.Fatalf("unexpected data %v / %v", got[0].Data, got[1].Data)
	}

	if err := sink.Write(ctx, want[0]); err == nil {
		t.Fatalf("entries are append-only, a duplicate id should fail")
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE b = ? AND c = ?"
	if got := rebind("sqlite", q); got != q {
		t.Fatalf("sqlite query should be unchanged, got %q", got)
	}
	if got := rebind("postgres", q); got != "SELECT a FROM t WHERE b = $1 AND c = $2" {
		t.Fatalf("unexpected postgres query %q", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	sink, err := Open(ctx, config.JournalConfig{Driver: config.DriverNone}, nil)
	if err != nil {
		t.Fatalf("open none: %v", err)
	}
	if _, ok := sink.(NopSink); !ok {
		t.Fatalf("expected a nop sink, got %T", sink)
	}
	if _, err := Open(ctx, config.JournalConfig{Driver: "kafka"}, nil); err == nil {
		t.Fatalf("expected unknown driver to fail")
	}
	sink, err = Open(ctx, config.JournalConfig{Driver: config.DriverFile, Path: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	if _, ok := sink.(*FileSink); !ok {
		t.Fatalf("expected a file sink, got %T", sink)
	}
}
