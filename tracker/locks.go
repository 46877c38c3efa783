package tracker

import "sync"

// guildLocks hands out one mutex per guild so that all operations against a
// guild's session serialize, while different guilds proceed in parallel.
// Locks are never discarded; the population is bounded by the guild count.
type guildLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGuildLocks() *guildLocks {
	return &guildLocks{locks: make(map[string]*sync.Mutex)}
}

func (g *guildLocks) lock(guildID string) *sync.Mutex {
	g.mu.Lock()
	l, ok := g.locks[guildID]
	if !ok {
		l = &sync.Mutex{}
		g.locks[guildID] = l
	}
	g.mu.Unlock()
	l.Lock()
	return l
}
