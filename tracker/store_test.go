package tracker

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/enryu8191/Creator-Bot/model"
)

// memStore is an in-memory Store for tests. Records are deep-copied on both
// paths so that, like a real store, nothing persists without a Save.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*model.GuildSession
	loadErr  error
	saveErr  error
	saves    int
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*model.GuildSession)}
}

func (m *memStore) Load(_ context.Context, guildID string) (*model.GuildSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	g, ok := m.sessions[guildID]
	if !ok {
		return nil, nil
	}
	return deepCopy(g), nil
}

func (m *memStore) Save(_ context.Context, guildID string, session *model.GuildSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[guildID] = deepCopy(session)
	m.saves++
	return nil
}

// put seeds a record directly, bypassing the tracker.
func (m *memStore) put(guildID string, session *model.GuildSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[guildID] = deepCopy(session)
}

// get reads a record directly, bypassing the tracker.
func (m *memStore) get(guildID string) *model.GuildSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return deepCopy(m.sessions[guildID])
}

func deepCopy(g *model.GuildSession) *model.GuildSession {
	if g == nil {
		return nil
	}
	blob, err := json.Marshal(g)
	if err != nil {
		panic(errors.Wrap(err, "memStore deep copy"))
	}
	var out model.GuildSession
	if err := json.Unmarshal(blob, &out); err != nil {
		panic(errors.Wrap(err, "memStore deep copy"))
	}
	return &out
}
