package interaction

import (
	"context"

	"github.com/venturematch/venturematch/internal/db"
)

// mockStore implements the consumer interface with an in-memory keyspace so
// tests can exercise multi-key flows (record, unblock, match) end to end.
type mockStore struct {
	hashes map[string]map[string]string
	sets   map[string]map[string]bool
	kv     map[string][]byte

	hsetErr  error
	setNXErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		hashes: map[string]map[string]string{},
		sets:   map[string]map[string]bool{},
		kv:     map[string][]byte{},
	}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hsetErr != nil {
		return m.hsetErr
	}
	h, ok := m.hashes[key]
	if !ok {
		h = map[string]string{}
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		h, err := m.HGetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

func (m *mockStore) SAdd(_ context.Context, key string, members ...string) error {
	s, ok := m.sets[key]
	if !ok {
		s = map[string]bool{}
		m.sets[key] = s
	}
	for _, member := range members {
		s[member] = true
	}
	return nil
}

func (m *mockStore) SRem(_ context.Context, key string, members ...string) error {
	for _, member := range members {
		delete(m.sets[key], member)
	}
	return nil
}

func (m *mockStore) SMembers(_ context.Context, key string) ([]string, error) {
	out := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		out = append(out, member)
	}
	return out, nil
}

func (m *mockStore) SIsMember(_ context.Context, key, member string) (bool, error) {
	return m.sets[key][member], nil
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	if m.setNXErr != nil {
		return false, m.setNXErr
	}
	if _, ok := m.kv[key]; ok {
		return false, nil
	}
	m.kv[key] = value
	return true, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.hashes, key)
	delete(m.kv, key)
	return nil
}
