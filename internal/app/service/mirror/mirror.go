// Package mirror holds the process-lifetime copy of the members table that
// list and filter reads are served from. It is not authoritative: Reload
// replaces its contents wholesale from the durable store.
package mirror

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/metrics"
)

// Store keeps members in load/insert order, which is the tie-break order for
// stable sorting. All methods hand out copies.
type Store struct {
	mu      sync.RWMutex
	members []*models.Member
	index   map[string]int
}

func New() *Store {
	return &Store{index: map[string]int{}}
}

// Reload replaces the contents with every member row, ordered by creation.
func (s *Store) Reload(ctx context.Context, db *gorm.DB) (int, error) {
	var rows []models.Member
	if err := db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("load members: %w", err)
	}
	s.Replace(rows)
	return len(rows), nil
}

// Replace swaps the contents for rows, keeping their order.
func (s *Store) Replace(rows []models.Member) {
	members := make([]*models.Member, 0, len(rows))
	index := make(map[string]int, len(rows))
	for i := range rows {
		m := clone(&rows[i])
		index[m.ID] = len(members)
		members = append(members, m)
	}
	s.mu.Lock()
	s.members, s.index = members, index
	s.mu.Unlock()
	metrics.MirrorMembers.Set(float64(len(members)))
}

// Put stores m, replacing the entry with the same id in place or appending.
func (s *Store) Put(m *models.Member) {
	s.mu.Lock()
	if i, ok := s.index[m.ID]; ok {
		s.members[i] = clone(m)
	} else {
		s.index[m.ID] = len(s.members)
		s.members = append(s.members, clone(m))
	}
	n := len(s.members)
	s.mu.Unlock()
	metrics.MirrorMembers.Set(float64(n))
}

// Update applies fn to the entry with id under the write lock and returns the
// result. ok is false when id is unknown.
func (s *Store) Update(id string, fn func(m *models.Member)) (models.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return models.Member{}, false
	}
	next := clone(s.members[i])
	fn(next)
	next.ID = id
	s.members[i] = next
	return *clone(next), true
}

func (s *Store) Get(id string) (models.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Member{}, false
	}
	return *clone(s.members[i]), true
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.members = append(s.members[:i], s.members[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.members); j++ {
		s.index[s.members[j].ID] = j
	}
	n := len(s.members)
	s.mu.Unlock()
	metrics.MirrorMembers.Set(float64(n))
	return true
}

// Snapshot copies every member in stored order.
func (s *Store) Snapshot() []models.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Member, len(s.members))
	for i, m := range s.members {
		out[i] = *clone(m)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Taken reports which of email and phone already belong to a member other
// than excludeID. Empty values are never taken.
func (s *Store) Taken(email, phone, excludeID string) (emailTaken, phoneTaken bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.ID == excludeID {
			continue
		}
		if email != "" && m.Email == email {
			emailTaken = true
		}
		if phone != "" && m.Phone == phone {
			phoneTaken = true
		}
	}
	return
}

func clone(m *models.Member) *models.Member {
	c := *m
	if m.LastVisit != nil {
		v := *m.LastVisit
		c.LastVisit = &v
	}
	if m.AssignedTrainer != nil {
		v := *m.AssignedTrainer
		c.AssignedTrainer = &v
	}
	return &c
}
