package pipeline

import (
	"sync"
	"time"

	"github.com/angelmondragon/olist-dashboard/internal/dataset"
)

// Memo remembers the last fact table it built, keyed by input fingerprint.
// Each Memo is independent; callers that want shared caching share a Memo.
type Memo struct {
	mu   sync.Mutex
	last *FactTable
	now  func() time.Time
}

func NewMemo() *Memo {
	return &Memo{now: time.Now}
}

// Prepare returns the remembered table when the inputs are unchanged, and
// builds a new one otherwise. rebuilt reports which happened.
func (m *Memo) Prepare(tables dataset.Tables, opts Options) (table *FactTable, rebuilt bool) {
	fingerprint := Fingerprint(tables, opts)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.last != nil && m.last.fingerprint == fingerprint {
		return m.last, false
	}

	table = build(tables, opts.location(), fingerprint)
	table.builtAt = m.now().UTC()
	m.last = table
	return table, true
}

// Invalidate forgets the remembered table so the next Prepare rebuilds.
func (m *Memo) Invalidate() {
	m.mu.Lock()
	m.last = nil
	m.mu.Unlock()
}
