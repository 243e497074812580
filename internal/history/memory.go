package history

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
)

// MemoryStore implements Store in memory. Records live as long as the
// process.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save records a copy of rec
func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	for _, r := range s.records {
		if r.ID == rec.ID {
			return mdwerror.Newf("run %q already recorded", rec.ID).WithCode(mdwerror.CodeStorageError)
		}
	}

	cp := *rec
	cp.Input = append([]string(nil), rec.Input...)
	s.records = append(s.records, &cp)
	return nil
}

// Get retrieves a run by ID or unique ID prefix
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == "" {
		return nil, mdwerror.New("run id is empty").WithCode(mdwerror.CodeInvalidInput)
	}

	for _, r := range s.records {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}

	var match *Record
	for _, r := range s.records {
		if strings.HasPrefix(r.ID, id) {
			if match != nil {
				return nil, mdwerror.Newf("run id prefix %q is ambiguous", id).WithCode(mdwerror.CodeInvalidInput)
			}
			match = r
		}
	}
	if match == nil {
		return nil, mdwerror.Newf("run %q not found", id).WithCode(mdwerror.CodeNotFound)
	}
	cp := *match
	return &cp, nil
}

// List retrieves runs newest first
func (s *MemoryStore) List(ctx context.Context, filter Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Record
	for _, r := range s.records {
		if filter.Name != "" && r.Name != filter.Name {
			continue
		}
		if filter.OnlyValid != nil && r.Valid != *filter.OnlyValid {
			continue
		}
		if !filter.Since.IsZero() && r.StartedAt.Before(filter.Since) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Prune deletes runs older than the given age
func (s *MemoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var deleted int64
	kept := s.records[:0]
	for _, r := range s.records {
		if r.StartedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
