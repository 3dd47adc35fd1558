// Package loader fetches feed and detail data and holds it as view state
// for a mounted page.
package loader

import "sync"

// Mount tracks whether the page that owns a loader is still displayed.
// Results that arrive after Unmount are discarded.
type Mount struct {
	mu      sync.Mutex
	mounted bool
}

// NewMount returns a mounted Mount.
func NewMount() *Mount {
	return &Mount{mounted: true}
}

// Unmount marks the page as gone. It waits for an in-progress Apply to finish.
func (m *Mount) Unmount() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounted = false
}

// Mounted reports whether the page is still displayed.
func (m *Mount) Mounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounted
}

// Apply runs update only while mounted and reports whether it ran.
func (m *Mount) Apply(update func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.mounted {
		return false
	}
	update()
	return true
}
