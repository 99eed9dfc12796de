package member

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/logctx"
	"github.com/tristarfitness/backend/pkg/types"
)

// Get reads from the mirror and falls back to the store on a miss.
func (s *Service) Get(ctx context.Context, id string) (*models.Member, error) {
	m, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) lookup(ctx context.Context, id string) (models.Member, error) {
	if m, ok := s.mirror.Get(id); ok {
		return m, nil
	}
	var row models.Member
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Member{}, ErrNotFound
		}
		return models.Member{}, persistenceErr("load member", err)
	}
	logctx.FromCtx(ctx, s.log).Warnw("member missing from mirror; repopulated from store", "member_id", id)
	s.mirror.Put(&row)
	return row, nil
}

const maxExpiringWindowDays = 10000 * 366

// ListExpiring returns active members whose membership ends within days,
// soonest first. Lapsed but still active members are included.
func (s *Service) ListExpiring(_ context.Context, days int) ([]models.Member, error) {
	if days < 0 {
		return nil, validationErr("days must not be negative")
	}
	// windows longer than maxExpiringWindowDays cover every storable expiry date
	unbounded := days > maxExpiringWindowDays
	cutoff := s.now().AddDate(0, 0, min(days, maxExpiringWindowDays))
	out := lo.Filter(s.mirror.Snapshot(), func(m models.Member, _ int) bool {
		return m.Status == types.MemberStatusActive && (unbounded || !m.ExpiryDate.After(cutoff))
	})
	slices.SortStableFunc(out, func(a, b models.Member) int {
		return a.ExpiryDate.Compare(b.ExpiryDate)
	})
	return out, nil
}

// ListFiltered filters, sorts and paginates the mirror. Ties keep mirror
// order. Counters describe the filtered set before pagination.
func (s *Service) ListFiltered(_ context.Context, q ListQuery) (*types.Page[models.Member], error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, validationErr("unknown status %q", q.Status)
	}
	if q.MembershipType != "" && !q.MembershipType.Valid() {
		return nil, validationErr("unknown membership type %q", q.MembershipType)
	}
	if q.SortBy != "" && !q.SortBy.Valid() {
		return nil, validationErr("unsupported sort field %q", q.SortBy)
	}
	if q.SortOrder != "" && q.SortOrder != types.SortOrderAsc && q.SortOrder != types.SortOrderDesc {
		return nil, validationErr("sortOrder must be asc or desc")
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := lo.Filter(s.mirror.Snapshot(), func(m models.Member, _ int) bool {
		if q.Status != "" && m.Status != q.Status {
			return false
		}
		if q.MembershipType != "" && m.MembershipType != q.MembershipType {
			return false
		}
		if q.AssignedTrainer != "" && (m.AssignedTrainer == nil || *m.AssignedTrainer != q.AssignedTrainer) {
			return false
		}
		if search != "" {
			return strings.Contains(strings.ToLower(m.Name), search) ||
				strings.Contains(strings.ToLower(m.Email), search) ||
				strings.Contains(strings.ToLower(m.Phone), search)
		}
		return true
	})

	if q.SortBy != "" {
		cmpFn := compareBy(q.SortBy)
		if q.SortOrder == types.SortOrderDesc {
			slices.SortStableFunc(out, func(a, b models.Member) int { return cmpFn(b, a) })
		} else {
			slices.SortStableFunc(out, cmpFn)
		}
	}
	return types.Paginate(out, q.Page, q.Limit), nil
}

func compareBy(field types.MemberSortField) func(a, b models.Member) int {
	switch field {
	case types.MemberSortByName:
		return func(a, b models.Member) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case types.MemberSortByExpiryDate:
		return func(a, b models.Member) int { return a.ExpiryDate.Compare(b.ExpiryDate) }
	case types.MemberSortByTotalVisits:
		return func(a, b models.Member) int { return cmp.Compare(a.TotalVisits, b.TotalVisits) }
	default:
		return func(a, b models.Member) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
