package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// DefaultSlot names the slot holding the history list.
const DefaultSlot = "mediai_history"

// Store persists raw bytes under a slot name. Load returns nil, nil for a
// slot that was never written.
type Store interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, data []byte) error
	// Available reports whether the backing storage can be reached.
	Available(ctx context.Context) bool
}

// Log is the in-memory, newest-first history list. Every change writes the
// whole list back to the store; write failures are logged and never
// surfaced to callers.
type Log struct {
	mu      sync.RWMutex
	records []Record
	limit   int

	saveMu  sync.Mutex
	store   Store
	slot    string
	persist bool
	log     *slog.Logger
}

// Open loads the slot from store. A nil or unavailable store gives an
// in-memory log. A slot that fails to load or decode leaves the log empty
// and disables writes so the stored list is not overwritten. limit caps
// the list (oldest dropped first); zero or less means unbounded.
func Open(ctx context.Context, store Store, slot string, limit int, log *slog.Logger) *Log {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if slot == "" {
		slot = DefaultSlot
	}
	l := &Log{limit: limit, store: store, slot: slot, log: log.With("slot", slot)}

	if store == nil || !store.Available(ctx) {
		l.log.Warn("history storage unavailable, keeping history in memory only")
		return l
	}

	records, err := l.load(ctx)
	if err != nil {
		l.log.Error("load history failed, persistence disabled", "error", err)
		return l
	}
	l.records = l.capLocked(records)
	l.persist = true
	l.log.Info("history loaded", "records", len(l.records))
	return l
}

func (l *Log) load(ctx context.Context) ([]Record, error) {
	data, err := l.store.Load(ctx, l.slot)
	if err != nil {
		return nil, fmt.Errorf("load slot: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode slot: %w", err)
	}
	return records, nil
}

// Persistent reports whether changes are written to the store.
func (l *Log) Persistent() bool {
	return l.persist
}

// Append adds rec to the front of the list and writes the list back.
func (l *Log) Append(ctx context.Context, rec Record) {
	l.mu.Lock()
	l.records = l.capLocked(append([]Record{rec}, l.records...))
	l.mu.Unlock()

	l.save(ctx)
}

func (l *Log) capLocked(records []Record) []Record {
	if l.limit > 0 && len(records) > l.limit {
		dropped := len(records) - l.limit
		l.log.Info("history limit reached, dropping oldest records", "dropped", dropped, "limit", l.limit)
		return records[:l.limit]
	}
	return records
}

func (l *Log) save(ctx context.Context) {
	if !l.persist {
		return
	}
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	l.mu.RLock()
	data, err := json.Marshal(l.records)
	n := len(l.records)
	l.mu.RUnlock()
	if err != nil {
		l.log.Error("encode history failed", "error", err)
		return
	}
	if err := l.store.Save(ctx, l.slot, data); err != nil {
		l.log.Error("save history failed", "error", err, "records", n)
	}
}

// List returns a copy of every record, newest first.
func (l *Log) List() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Get finds a record by id.
func (l *Log) Get(id string) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Find returns the records matching q, newest first.
func (l *Log) Find(q Query) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := []Record{}
	for _, r := range l.records {
		if q.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
