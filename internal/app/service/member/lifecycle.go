package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/app/service/activity"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/types"
)

// CheckIn records a visit. The store is written first with a guarded
// increment; the mirror then takes the stored row so both agree exactly.
func (s *Service) CheckIn(ctx context.Context, id string) (_ *models.Member, err error) {
	defer s.observe("checkin", time.Now(), &err)

	current, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != types.MemberStatusActive {
		return nil, fmt.Errorf("%w: cannot check in a %s member", ErrInvalidState, current.Status)
	}

	now := s.now().UTC()
	var stored models.Member
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Member{}).
			Where("id = ? AND status = ?", id, types.MemberStatusActive).
			Updates(map[string]any{
				"total_visits": gorm.Expr("total_visits + ?", 1),
				"last_visit":   now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Where("id = ?", id).First(&stored).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: cannot check in a %s member", ErrInvalidState, stored.Status)
		}
		return nil
	})
	if err != nil {
		return nil, s.storeFirstErr(id, "checkin", &stored, err)
	}

	s.mirror.Put(&stored)
	s.activities.Record(ctx, activity.Entry{
		Type:        types.ActivityTypeMember,
		Action:      types.ActivityActionMemberCheckedIn,
		SubjectName: stored.Name,
		MemberID:    &stored.ID,
		Details:     fmt.Sprintf("Visit #%d", stored.TotalVisits),
	})
	s.refresh(ctx, projection.SectionMembers, projection.SectionActivities)
	return &stored, nil
}

// Renew starts a new membership period of membershipType at startDate and
// reactivates the member. A zero startDate means today. Like CheckIn the
// store is written first and a store failure leaves the mirror untouched.
func (s *Service) Renew(ctx context.Context, id string, membershipType types.MembershipType, startDate time.Time) (_ *models.Member, err error) {
	defer s.observe("renew", time.Now(), &err)

	if !membershipType.Valid() {
		return nil, validationErr("unknown membership type %q", membershipType)
	}
	now := s.now().UTC()
	if startDate.IsZero() {
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	expiry := membershipType.ExpiryFrom(startDate)

	var stored models.Member
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Member{}).Where("id = ?", id).Updates(map[string]any{
			"membership_type": membershipType,
			"start_date":      startDate,
			"expiry_date":     expiry,
			"status":          types.MemberStatusActive,
			"updated_at":      now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&stored).Error
	})
	if err != nil {
		return nil, s.storeFirstErr(id, "renew", nil, err)
	}

	s.mirror.Put(&stored)
	s.activities.Record(ctx, activity.Entry{
		Type:        types.ActivityTypeMember,
		Action:      types.ActivityActionMembershipRenewed,
		SubjectName: stored.Name,
		MemberID:    &stored.ID,
		Details:     fmt.Sprintf("%s membership until %s", membershipType, expiry.Format(time.DateOnly)),
		Extra: map[string]any{
			"membershipType": membershipType,
			"startDate":      startDate.Format(time.DateOnly),
			"expiryDate":     expiry.Format(time.DateOnly),
		},
	})
	s.refresh(ctx, projection.SectionMembers, projection.SectionActivities)
	return &stored, nil
}

// storeFirstErr maps the failure of a store-first operation. The mirror is
// corrected only where the store gave a definite answer about the row.
func (s *Service) storeFirstErr(id, op string, stored *models.Member, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.mirror.Remove(id)
		return ErrNotFound
	case errors.Is(err, ErrInvalidState):
		if stored != nil && stored.ID != "" {
			s.mirror.Put(stored)
		}
		return err
	default:
		return persistenceErr(op, err)
	}
}
