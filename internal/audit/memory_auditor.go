package audit

import (
	"sync"

	"github.com/darmiel/ctoken/internal/core"
)

// DefaultMemoryEntries bounds the in-memory auditor when no size is configured.
const DefaultMemoryEntries = 1000

var (
	_ core.Auditor     = (*InMemoryAuditor)(nil)
	_ core.AuditReader = (*InMemoryAuditor)(nil)
)

// InMemoryAuditor keeps the most recent audit entries in memory.
// Older entries are dropped once maxEntries is reached.
type InMemoryAuditor struct {
	mu         sync.Mutex
	entries    []core.AuditEntry
	maxEntries int
}

// NewInMemoryAuditor creates an auditor holding at most maxEntries entries.
// A maxEntries <= 0 uses DefaultMemoryEntries.
func NewInMemoryAuditor(maxEntries int) *InMemoryAuditor {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &InMemoryAuditor{
		maxEntries: maxEntries,
	}
}

func (i *InMemoryAuditor) Log(entry core.AuditEntry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.entries) >= i.maxEntries {
		// shift instead of reslicing so the backing array does not grow forever
		n := copy(i.entries, i.entries[len(i.entries)-i.maxEntries+1:])
		i.entries = i.entries[:n]
	}
	i.entries = append(i.entries, entry)
	return nil
}

// GetRecent returns up to limit entries, oldest first. A negative limit returns all.
func (i *InMemoryAuditor) GetRecent(limit int) ([]core.AuditEntry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if limit > len(i.entries) || limit < 0 {
		limit = len(i.entries)
	}
	entries := make([]core.AuditEntry, limit)
	copy(entries, i.entries[len(i.entries)-limit:])
	return entries, nil
}

// Find returns the last limit entries matching filter, oldest first.
func (i *InMemoryAuditor) Find(filter func(entry core.AuditEntry) bool, limit int) ([]core.AuditEntry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var matches []core.AuditEntry
	for _, entry := range i.entries {
		if filter(entry) {
			matches = append(matches, entry)
		}
	}
	if limit >= 0 && len(matches) > limit {
		matches = matches[len(matches)-limit:]
	}
	return matches, nil
}

func (i *InMemoryAuditor) Close() error {
	return nil
}
