package mirror

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/internal/platform/db/dbtest"
	"github.com/tristarfitness/backend/pkg/types"
)

func member(id, email, phone string, created time.Time) models.Member {
	return models.Member{
		ID: id, Name: id, Email: email, Phone: phone,
		MembershipType: types.MembershipTypeMonthly,
		StartDate:      created,
		ExpiryDate:     created.AddDate(0, 1, 0),
		Status:         types.MemberStatusActive,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func ids(ms []models.Member) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestStore_PutUpdateRemoveKeepOrder(t *testing.T) {
	now := time.Now()
	s := New()
	for _, id := range []string{"a", "b", "c"} {
		m := member(id, id+"@x.com", id, now)
		s.Put(&m)
	}
	require.Equal(t, []string{"a", "b", "c"}, ids(s.Snapshot()))

	got, ok := s.Update("b", func(m *models.Member) { m.TotalVisits = 5 })
	require.True(t, ok)
	require.Equal(t, 5, got.TotalVisits)
	require.Equal(t, []string{"a", "b", "c"}, ids(s.Snapshot()))

	_, ok = s.Update("zzz", func(m *models.Member) {})
	require.False(t, ok)

	require.True(t, s.Remove("a"))
	require.False(t, s.Remove("a"))
	require.Equal(t, []string{"b", "c"}, ids(s.Snapshot()))
	c, ok := s.Get("c")
	require.True(t, ok)
	require.Equal(t, "c", c.ID)
	require.Equal(t, 2, s.Len())
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := New()
	trainer := "t1"
	m := member("a", "a@x.com", "1", time.Now())
	m.AssignedTrainer = &trainer
	s.Put(&m)

	got, _ := s.Get("a")
	got.Name = "changed"
	*got.AssignedTrainer = "t2"

	again, _ := s.Get("a")
	require.Equal(t, "a", again.Name)
	require.Equal(t, "t1", *again.AssignedTrainer)
}

func TestStore_Taken(t *testing.T) {
	s := New()
	m := member("a", "a@x.com", "100", time.Now())
	s.Put(&m)

	e, p := s.Taken("a@x.com", "200", "")
	require.True(t, e)
	require.False(t, p)
	e, p = s.Taken("a@x.com", "100", "a")
	require.False(t, e)
	require.False(t, p)
	e, p = s.Taken("", "", "")
	require.False(t, e)
	require.False(t, p)
}

func TestStore_ReloadOrdersByCreation(t *testing.T) {
	gdb := dbtest.NewSQLite(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.Member{
		member("late", "l@x.com", "3", base.Add(2*time.Hour)),
		member("early", "e@x.com", "1", base),
		member("mid", "m@x.com", "2", base.Add(time.Hour)),
	}
	require.NoError(t, gdb.Create(&rows).Error)

	s := New()
	stale := member("stale", "s@x.com", "9", base)
	s.Put(&stale)

	n, err := s.Reload(context.Background(), gdb)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []string{"early", "mid", "late"}, ids(s.Snapshot()))
	_, ok := s.Get("stale")
	require.False(t, ok)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	m := member("a", "a@x.com", "1", time.Now())
	s.Put(&m)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Update("a", func(m *models.Member) { m.TotalVisits++ })
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	got, _ := s.Get("a")
	require.Equal(t, 50, got.TotalVisits)
}
