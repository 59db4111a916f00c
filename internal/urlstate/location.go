package urlstate

import "sync"

// Location is the session URL an Adapter keeps in sync. Replace swaps the
// current entry without adding history.
type Location interface {
	URL() string
	Replace(newURL string)
}

// MemoryLocation is a Location held in memory. It is safe for concurrent use.
type MemoryLocation struct {
	mu       sync.Mutex
	url      string
	replaced int
}

// NewMemoryLocation returns a MemoryLocation starting at rawURL.
func NewMemoryLocation(rawURL string) *MemoryLocation {
	return &MemoryLocation{url: rawURL}
}

func (l *MemoryLocation) URL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url
}

func (l *MemoryLocation) Replace(newURL string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.url = newURL
	l.replaced++
}

// Replacements returns how many times Replace was called.
func (l *MemoryLocation) Replacements() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replaced
}
