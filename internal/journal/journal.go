// Package journal records an append-only audit trail of economic events.
// Entries are never rewritten; a correction is a new entry.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravitas-games/aftermath/internal/config"
	"github.com/gravitas-games/aftermath/internal/events"
)

// Entry is one journaled event.
type Entry struct {
	ID      uuid.UUID      `json:"id"`
	Turn    int            `json:"turn"`
	Date    int            `json:"date"`
	Player  string         `json:"player"`
	Event   string         `json:"event"`
	Subject string         `json:"subject,omitempty"`
	Amount  int            `json:"amount,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	At      time.Time      `json:"at"`
}

// Sink stores entries.
type Sink interface {
	Write(ctx context.Context, e Entry) error
	Close() error
}

// Calendar stamps entries with the current turn and date.
type Calendar interface {
	Turn() int
	Date() int
}

// Recorder turns bus events into journal entries.
type Recorder struct {
	ctx    context.Context
	sink   Sink
	cal    Calendar
	logger *slog.Logger

	mu       sync.Mutex
	written  int
	failures int
}

// NewRecorder creates a recorder writing to sink. cal may be nil.
func NewRecorder(ctx context.Context, sink Sink, cal Calendar, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		ctx:    ctx,
		sink:   sink,
		cal:    cal,
		logger: logger.With("component", "journal"),
	}
}

// SetCalendar replaces the calendar used to stamp later entries.
func (r *Recorder) SetCalendar(cal Calendar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cal = cal
}

// Attach subscribes the recorder to every owner's events.
func (r *Recorder) Attach(bus events.Bus) {
	bus.Subscribe(events.AllOwners, r.Record)
}

// Record writes one event. Sink failures are logged and counted, never
// propagated into the game.
func (r *Recorder) Record(e events.Event) {
	entry := Entry{
		ID:      uuid.New(),
		Player:  e.Owner,
		Event:   e.Type.String(),
		Subject: e.Subject,
		Amount:  e.Amount,
		Data:    e.Data,
		At:      e.Timestamp,
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cal != nil {
		entry.Turn = r.cal.Turn()
		entry.Date = r.cal.Date()
	}
	if err := r.sink.Write(r.ctx, entry); err != nil {
		r.failures++
		r.logger.Warn("journal write failed", "event", entry.Event, "player", entry.Player, "error", err)
		return
	}
	r.written++
}

// Written returns the number of entries stored.
func (r *Recorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Failures returns the number of entries the sink refused.
func (r *Recorder) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}

// Open creates the sink selected by config.
func Open(ctx context.Context, cfg config.JournalConfig, logger *slog.Logger) (Sink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "journal", "operation", "open")

	var (
		sink Sink
		err  error
	)
	switch cfg.Driver {
	case "", config.DriverNone:
		return NopSink{}, nil
	case config.DriverFile:
		sink = NewFileSink(cfg.Path)
	case config.DriverSQLite:
		sink, err = OpenSQLite(cfg.Path)
	case config.DriverPostgres:
		sink, err = OpenPostgres(ctx, cfg.DSN)
	case config.DriverRedis:
		sink, err = OpenRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown journal driver %q", cfg.Driver)
	}
	if err != nil {
		logger.Error("Failed to open journal", "driver", cfg.Driver, "error", err)
		return nil, fmt.Errorf("open %s journal: %w", cfg.Driver, err)
	}
	logger.Info("Journal opened", "driver", cfg.Driver)
	return sink, nil
}

// NopSink discards entries.
type NopSink struct{}

func (NopSink) Write(context.Context, Entry) error { return nil }
func (NopSink) Close() error                       { return nil }

// MemorySink keeps entries in memory.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemorySink returns an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *MemorySink) Close() error { return nil }

// Entries returns a copy of the stored entries in write order.
func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
