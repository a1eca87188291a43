package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"caregate/internal/audit/metrics"
	id "caregate/pkg/domain"
)

const (
	// DefaultMaxEntries bounds the in-memory working set. The log is a
	// cap, not the system of record; callers needing long-term retention
	// must persist entries before eviction.
	DefaultMaxEntries = 10000

	// DefaultRetentionDays matches long-term compliance retention
	// (roughly seven years).
	DefaultRetentionDays = 2555
)

// Log is a bounded, append-only, time-retained audit store. It is an
// explicitly constructed component: capacity, retention, masking, and
// clock are injected at construction so multiple instances (one per
// test, for example) never share state.
//
// A single mutex covers append+evict as one critical section, so the
// capacity bound holds after every append even under concurrent
// writers. Reads take the shared lock and return copies.
type Log struct {
	mu      sync.RWMutex
	entries []Entry

	maxEntries     int
	retention      time.Duration
	maskingEnabled bool
	masker         *Masker

	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Log.
type Option func(*Log)

// WithMaxEntries overrides the capacity bound. Values below one are
// ignored.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.maxEntries = n
		}
	}
}

// WithRetentionDays overrides the retention horizon used by
// ClearOldEntries. Values below one are ignored.
func WithRetentionDays(days int) Option {
	return func(l *Log) {
		if days > 0 {
			l.retention = time.Duration(days) * 24 * time.Hour
		}
	}
}

// WithMasking toggles write-time masking.
func WithMasking(enabled bool) Option {
	return func(l *Log) {
		l.maskingEnabled = enabled
	}
}

// WithSensitiveFields overrides the masked field set.
func WithSensitiveFields(fields []string) Option {
	return func(l *Log) {
		l.masker = NewMasker(fields)
	}
}

// WithClock injects a time source for tests and replay.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) {
		l.logger = logger
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Log) {
		l.metrics = m
	}
}

// NewLog builds a log with compliance defaults: 10000 entries, 2555-day
// retention, masking enabled with the default PHI field set.
func NewLog(opts ...Option) *Log {
	l := &Log{
		maxEntries:     DefaultMaxEntries,
		retention:      time.Duration(DefaultRetentionDays) * 24 * time.Hour,
		maskingEnabled: true,
		masker:         NewMasker(DefaultSensitiveFields()),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append assigns an ID, timestamp, and masked flag to the partial entry,
// masks details at write time when masking is enabled, stores the entry,
// and evicts from the front until the capacity bound holds. It never
// fails: an entry is either fully appended with its assigned identity or
// (on a panic upstream of this call) not appended at all.
func (l *Log) Append(ctx context.Context, e NewEntry) Entry {
	entry := Entry{
		ID:         id.NewEntryID(),
		Timestamp:  l.now(),
		UserID:     e.UserID,
		Action:     e.Action,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		Masked:     l.maskingEnabled,
	}

	if e.Details != nil {
		if l.maskingEnabled {
			entry.Details = l.masker.Mask(e.Details)
		} else {
			entry.Details = e.Details.Clone()
		}
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	evicted := l.evictLocked()
	size := len(l.entries)
	l.mu.Unlock()

	l.metrics.IncAppended()
	l.metrics.AddEvicted(evicted)
	l.metrics.SetLogSize(size)

	if evicted > 0 && l.logger != nil {
		l.logger.WarnContext(ctx, "audit log at capacity, oldest entries evicted",
			"evicted", evicted,
			"max_entries", l.maxEntries,
		)
	}

	return entry.clone()
}

// evictLocked drops entries from the front until len <= maxEntries.
// Callers must hold the write lock.
func (l *Log) evictLocked() int {
	excess := len(l.entries) - l.maxEntries
	if excess <= 0 {
		return 0
	}
	l.entries = l.entries[excess:]

	// Reallocate occasionally so the evicted prefix of the backing array
	// does not pin memory indefinitely.
	if cap(l.entries) > 2*l.maxEntries {
		compacted := make([]Entry, len(l.entries))
		copy(compacted, l.entries)
		l.entries = compacted
	}
	return excess
}

// ClearOldEntries removes every entry strictly older than
// now - retention. Entries exactly at the cutoff are retained. The sweep
// is idempotent and intended to be driven by an external scheduler; it
// returns the number of entries removed.
func (l *Log) ClearOldEntries(ctx context.Context) int {
	cutoff := l.now().Add(-l.retention)

	l.mu.Lock()
	kept := l.entries[:0]
	for _, entry := range l.entries {
		if !entry.Timestamp.Before(cutoff) {
			kept = append(kept, entry)
		}
	}
	removed := len(l.entries) - len(kept)
	l.entries = kept
	size := len(l.entries)
	l.mu.Unlock()

	l.metrics.AddSwept(removed)
	l.metrics.SetLogSize(size)

	if removed > 0 && l.logger != nil {
		l.logger.InfoContext(ctx, "retention sweep removed expired audit entries",
			"removed", removed,
			"cutoff", cutoff,
		)
	}
	return removed
}

// Export returns a copy of every entry in insertion order.
//
// masked=true returns entries exactly as stored; the Masked flag
// reflects each entry's write-time history, not the current masking
// configuration.
//
// masked=false clears the Masked flag on the returned copies to mark
// them as released for unmasked review. It does NOT recover original
// values: redaction happens at write time and is irreversible, so
// already-redacted details stay "[REDACTED]" in either mode.
func (l *Log) Export(masked bool) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		copied := entry.clone()
		if !masked {
			copied.Masked = false
		}
		out = append(out, copied)
	}
	return out
}

// EntriesByUser returns copies of the entries recorded for the given
// user, preserving insertion order. No matches yields an empty slice.
func (l *Log) EntriesByUser(userID string) []Entry {
	return l.filter(func(e Entry) bool { return e.UserID == userID })
}

// EntriesByResource returns copies of the entries targeting the given
// resource, preserving insertion order. No matches yields an empty
// slice.
func (l *Log) EntriesByResource(resource string) []Entry {
	return l.filter(func(e Entry) bool { return e.Resource == resource })
}

func (l *Log) filter(keep func(Entry) bool) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0)
	for _, entry := range l.entries {
		if keep(entry) {
			out = append(out, entry.clone())
		}
	}
	return out
}

// Len reports the current number of stored entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// MaskingEnabled reports whether entries are masked at write time.
func (l *Log) MaskingEnabled() bool {
	return l.maskingEnabled
}
