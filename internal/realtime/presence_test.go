package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetachByStaleConnectionKeepsNewerEntry(t *testing.T) {
	p := NewPresenceTracker(func() time.Time { return time.Unix(0, 0) })

	p.Attach("alice", "c1")
	p.Attach("alice", "c2")

	assert.False(t, p.Detach("alice", "c1"))
	assert.Equal(t, []string{"alice"}, p.UserIDs())
	assert.Equal(t, "c2", p.Online()[0].ConnectionID)

	assert.True(t, p.Detach("alice", "c2"))
	assert.Empty(t, p.Online())
	assert.False(t, p.Detach("bob", "c3"))
}

func TestOnlineIsOrdered(t *testing.T) {
	p := NewPresenceTracker(nil)
	p.Attach("zed", "1")
	p.Attach("amy", "2")
	p.Attach("kim", "3")
	assert.Equal(t, []string{"amy", "kim", "zed"}, p.UserIDs())
}
