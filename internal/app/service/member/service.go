// Package member is the only writer of member state. Every mutation goes to
// the durable store, the in-memory mirror, the activity log and the
// projection files, in the order each operation documents.
package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/app/service/activity"
	"github.com/tristarfitness/backend/internal/app/service/mirror"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/logctx"
	"github.com/tristarfitness/backend/pkg/metrics"
	"github.com/tristarfitness/backend/pkg/tool"
	"github.com/tristarfitness/backend/pkg/types"
)

// Projector regenerates projection files. Implementations swallow errors.
type Projector interface {
	Sync(ctx context.Context, sections ...projection.Section)
}

type Service struct {
	db         *gorm.DB
	mirror     *mirror.Store
	activities *activity.Service
	projector  Projector
	log        *zap.SugaredLogger
	now        func() time.Time
}

func NewService(db *gorm.DB, m *mirror.Store, activities *activity.Service, w *projection.Writer, log *zap.SugaredLogger) *Service {
	return newService(db, m, activities, w, log)
}

func newService(db *gorm.DB, m *mirror.Store, activities *activity.Service, p Projector, log *zap.SugaredLogger) *Service {
	return &Service{db: db, mirror: m, activities: activities, projector: p, log: log, now: time.Now}
}

// observe records the outcome of op. Use as defer s.observe(op, time.Now(), &err).
func (s *Service) observe(op string, start time.Time, err *error) {
	result := "ok"
	switch {
	case *err == nil:
	case errors.Is(*err, ErrValidation):
		result = "validation"
	case errors.Is(*err, ErrConflict):
		result = "conflict"
	case errors.Is(*err, ErrNotFound):
		result = "not_found"
	case errors.Is(*err, ErrInvalidState):
		result = "invalid_state"
	default:
		result = "error"
	}
	metrics.MemberOps.WithLabelValues(op, result).Inc()
	metrics.ObserveProcess("member", op, start)
}

// refresh is the single projection trigger used by every mutation.
func (s *Service) refresh(ctx context.Context, sections ...projection.Section) {
	s.projector.Sync(ctx, sections...)
}

// Create inserts the member and its "Member registered" entry in one
// transaction. The duplicate check runs inside the same transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (_ *models.Member, err error) {
	defer s.observe("create", time.Now(), &err)

	m, err := in.toMember(tool.GenerateUUIDV7(), s.now().UTC())
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Member
		if err := tx.Select("id", "email", "phone").
			Where("email = ? OR phone = ?", m.Email, m.Phone).
			Limit(2).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			for _, e := range existing {
				if e.Email == m.Email {
					return fmt.Errorf("%w: email %s is already registered", ErrConflict, m.Email)
				}
			}
			return fmt.Errorf("%w: phone %s is already registered", ErrConflict, m.Phone)
		}
		if err := tx.Create(m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: email or phone is already registered", ErrConflict)
			}
			return err
		}
		_, err := s.activities.Append(ctx, tx, activity.Entry{
			Type:        types.ActivityTypeMember,
			Action:      types.ActivityActionMemberRegistered,
			SubjectName: m.Name,
			MemberID:    &m.ID,
			Details:     fmt.Sprintf("%s membership until %s", m.MembershipType, m.ExpiryDate.Format(time.DateOnly)),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, persistenceErr("create member", err)
	}

	s.mirror.Put(m)
	s.refresh(ctx, projection.SectionMembers, projection.SectionActivities)
	logctx.FromCtx(ctx, s.log).Infow("member created", "member_id", m.ID)
	return m, nil
}

// Update changes the mirror first and then attempts the durable write. A
// failed durable write is logged and counted; the mirror keeps the change
// until the next reload.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (_ *models.Member, err error) {
	defer s.observe("update", time.Now(), &err)

	current, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := current
	changes := in.applyTo(&merged)
	if err := validate(&merged); err != nil {
		return nil, err
	}
	emailTaken, phoneTaken := s.mirror.Taken(merged.Email, merged.Phone, id)
	if emailTaken {
		return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, merged.Email)
	}
	if phoneTaken {
		return nil, fmt.Errorf("%w: phone %s is already registered", ErrConflict, merged.Phone)
	}
	if len(changes) == 0 {
		return &current, nil
	}

	merged.UpdatedAt = s.now().UTC()
	updated, ok := s.mirror.Update(id, func(m *models.Member) { *m = merged })
	if !ok {
		s.mirror.Put(&merged)
		updated = merged
	}

	lg := logctx.FromCtx(ctx, s.log)
	columns := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		columns[k] = v
	}
	columns["updated_at"] = merged.UpdatedAt
	res := s.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", id).Updates(columns)
	switch {
	case res.Error != nil:
		metrics.StoreDivergence.WithLabelValues("update").Inc()
		lg.Errorw("member update not persisted; mirror kept", "member_id", id, "err", res.Error)
	case res.RowsAffected == 0:
		metrics.StoreDivergence.WithLabelValues("update").Inc()
		lg.Warnw("member update matched no stored row; mirror kept", "member_id", id)
	}

	s.activities.Record(ctx, activity.Entry{
		Type:        types.ActivityTypeMember,
		Action:      types.ActivityActionMemberUpdated,
		SubjectName: updated.Name,
		MemberID:    &updated.ID,
		Extra:       changes,
	})
	s.refresh(ctx, projection.SectionMembers, projection.SectionActivities)
	return &updated, nil
}

// Delete removes the member from the store and then from the mirror. The
// activity entry names the member but carries no reference to it.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	defer s.observe("delete", time.Now(), &err)

	var row models.Member
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Member{}, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.mirror.Remove(id)
			return ErrNotFound
		}
		return persistenceErr("delete member", err)
	}

	s.mirror.Remove(id)
	s.activities.Record(ctx, activity.Entry{
		Type:        types.ActivityTypeMember,
		Action:      types.ActivityActionMemberDeleted,
		SubjectName: row.Name,
		Details:     row.Email,
	})
	s.refresh(ctx, projection.SectionMembers, projection.SectionActivities)
	return nil
}

// Reload rebuilds the mirror from the store and regenerates every projection.
func (s *Service) Reload(ctx context.Context) (int, error) {
	n, err := s.mirror.Reload(ctx, s.db)
	if err != nil {
		return 0, persistenceErr("reload mirror", err)
	}
	s.refresh(ctx, projection.SectionAll)
	logctx.FromCtx(ctx, s.log).Infow("member mirror reloaded", "members", n)
	return n, nil
}
