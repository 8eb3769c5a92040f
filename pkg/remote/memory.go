package remote

import (
	"context"
	"sort"
	"sync"

	"github.com/verifiedtutors/notifykit/pkg/notification"
)

// MemoryService is an in-memory Service implementation, suitable for tests
// and development.
type MemoryService struct {
	records []notification.Remote
	mu      sync.RWMutex
}

// NewMemoryService creates a service pre-populated with the given records.
func NewMemoryService(records ...notification.Remote) *MemoryService {
	s := &MemoryService{}
	s.records = append(s.records, records...)
	return s
}

// Add appends a record, e.g. to simulate server-side creation mid-test.
func (s *MemoryService) Add(r notification.Remote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

func (s *MemoryService) List(ctx context.Context, limit int) (ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notification.Remote, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return ListResult{Success: true, Notifications: out}, nil
}

func (s *MemoryService) MarkRead(ctx context.Context, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	for i := range s.records {
		if _, ok := idSet[s.records[i].ID]; ok {
			s.records[i].Read = true
		}
	}
	return nil
}

func (s *MemoryService) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		s.records[i].Read = true
	}
	return nil
}

func (s *MemoryService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
