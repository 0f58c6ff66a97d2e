package planner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/i474232898/grow-planner/internal/grow"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memStore struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
}

func newMemStore(kv map[string]string) *memStore {
	data := make(map[string]string, len(kv))
	for k, v := range kv {
		data[k] = v
	}
	return &memStore{data: data}
}

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", false, errors.New("disk on fire")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memStore) snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

type fakeRemote struct {
	mu      sync.Mutex
	pushed  []grow.GrowProfile
	err     error
	started chan struct{} // receives once per call when non-nil
	release chan struct{} // blocks each call until closed when non-nil
}

func (r *fakeRemote) PushPreferences(ctx context.Context, p grow.GrowProfile) error {
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushed = append(r.pushed, p)
	return r.err
}

func (r *fakeRemote) calls() []grow.GrowProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]grow.GrowProfile(nil), r.pushed...)
}

func ptr[T any](v T) *T { return &v }

var authenticated = SessionContext{Authenticated: true}
