package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/ml-end-to-end/setup/contract"
)

type memoryKey struct {
	name    string
	version string
}

// MemoryStore keeps registrations in process. Used for dry runs.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[memoryKey]contractx.Registration
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: map[memoryKey]contractx.Registration{},
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Register(ctx context.Context, md contractx.Metadata) (contractx.Registration, error) {
	if err := checkKey(md.Name, md.Version); err != nil {
		return contractx.Registration{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{name: md.Name, version: md.Version}
	reg, ok := s.rows[key]
	if !ok {
		reg.ID = uuid.New()
	}
	reg.Metadata = cloneMetadata(md)
	reg.RegisteredAt = s.now()
	s.rows[key] = reg

	return cloneRegistration(reg), nil
}

func (s *MemoryStore) Lookup(ctx context.Context, name, version string) (contractx.Registration, error) {
	if err := checkKey(name, version); err != nil {
		return contractx.Registration{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.rows[memoryKey{name: name, version: version}]
	if !ok {
		return contractx.Registration{}, fmt.Errorf("%w: %s==%s", contractx.ErrNotRegistered, name, version)
	}
	return cloneRegistration(reg), nil
}

func (s *MemoryStore) List(ctx context.Context, name string) ([]contractx.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []contractx.Registration{}
	for key, reg := range s.rows {
		if key.name == name {
			out = append(out, cloneRegistration(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Metadata.Version < out[j].Metadata.Version
	})
	return out, nil
}

func cloneRegistration(reg contractx.Registration) contractx.Registration {
	reg.Metadata = cloneMetadata(reg.Metadata)
	return reg
}
