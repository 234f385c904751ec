package realtime

import (
	"sort"
	"sync"
	"time"
)

// PresenceEntry records which connection currently represents a user.
type PresenceEntry struct {
	UserID       string    `json:"userId"`
	ConnectionID string    `json:"connectionId"`
	LoginTime    time.Time `json:"loginTime"`
}

// PresenceTracker maps user ids to their most recent connection.
// State lives only for the lifetime of the process.
type PresenceTracker struct {
	mu      sync.RWMutex
	entries map[string]PresenceEntry
	now     func() time.Time
}

// NewPresenceTracker returns an empty tracker.
func NewPresenceTracker(now func() time.Time) *PresenceTracker {
	if now == nil {
		now = time.Now
	}
	return &PresenceTracker{entries: make(map[string]PresenceEntry), now: now}
}

// Attach records connID as the live connection of userID, replacing any older one.
func (p *PresenceTracker) Attach(userID, connID string) PresenceEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry := PresenceEntry{UserID: userID, ConnectionID: connID, LoginTime: p.now()}
	p.entries[userID] = entry
	return entry
}

// Detach removes userID only while connID still owns the entry. It reports
// whether an entry was removed.
func (p *PresenceTracker) Detach(userID, connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.entries[userID]
	if !ok || entry.ConnectionID != connID {
		return false
	}
	delete(p.entries, userID)
	return true
}

// Online returns a snapshot ordered by user id.
func (p *PresenceTracker) Online() []PresenceEntry {
	p.mu.RLock()
	out := make([]PresenceEntry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e)
	}
	p.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// UserIDs returns the ids of online users, ordered.
func (p *PresenceTracker) UserIDs() []string {
	online := p.Online()
	ids := make([]string, len(online))
	for i, e := range online {
		ids[i] = e.UserID
	}
	return ids
}
