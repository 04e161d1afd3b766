package history

import (
	"slices"
	"sync"
	"time"

	"github.com/Cyclone1070/mcpchat/internal/provider"
)

// DefaultMaxMessages is the cap used when New is given a non-positive max.
const DefaultMaxMessages = 20

// Entry is one conversation message as the front-end keeps it, annotated
// with the tools that produced it.
type Entry struct {
	Role      provider.Role
	Content   string
	ToolsUsed []string
	Timestamp time.Time
}

// Store is a bounded, oldest-first-evicting conversation log.
type Store struct {
	entries []Entry
	max     int
	mu      sync.RWMutex
}

// New creates a Store holding at most maxEntries entries.
func New(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxMessages
	}
	return &Store{
		entries: make([]Entry, 0, maxEntries),
		max:     maxEntries,
	}
}

// Append adds entry and evicts the oldest entries beyond the cap.
// A zero Timestamp is set to the current time.
func (s *Store) Append(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.ToolsUsed = slices.Clone(entry.ToolsUsed)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.max; over > 0 {
		s.entries = slices.Delete(s.entries, 0, over)
	}
}

// Entries returns a copy of all entries, oldest first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneEntries(s.entries)
}

// Messages projects the entries to provider messages, oldest first.
func (s *Store) Messages() []provider.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]provider.Message, 0, len(s.entries))
	for _, e := range s.entries {
		messages = append(messages, provider.NewTextMessage(e.Role, e.Content))
	}
	return messages
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make([]Entry, 0, s.max)
}

func cloneEntries(in []Entry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		e.ToolsUsed = slices.Clone(e.ToolsUsed)
		out[i] = e
	}
	return out
}
