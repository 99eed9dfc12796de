// Package activity appends to and reads the immutable activity log.
package activity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/logctx"
	"github.com/tristarfitness/backend/pkg/tool"
	"github.com/tristarfitness/backend/pkg/types"
)

// Filterable columns for List.
var listFields = []string{"type", "member_id", "timestamp", "action", "subject_name"}

// Entry is what callers supply; id, timestamp and actor are filled in.
type Entry struct {
	Type        types.ActivityType
	Action      string
	SubjectName string
	MemberID    *string
	Details     string
	Extra       map[string]any
}

type ListRequest struct {
	Filters []*types.CommonFilter `json:"filters"`
	From    int                   `json:"from"`
	Size    int                   `json:"size"`
}

type ListResponse struct {
	Items []*models.ActivityLog `json:"items"`
	Total int64                 `json:"total"`
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	now func() time.Time
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log, now: time.Now}
}

func (s *Service) build(ctx context.Context, e Entry) (*models.ActivityLog, error) {
	if !e.Type.Valid() {
		return nil, fmt.Errorf("invalid activity type %q", e.Type)
	}
	row := &models.ActivityLog{
		ID:          tool.GenerateUUIDV7(),
		Type:        e.Type,
		Action:      e.Action,
		SubjectName: e.SubjectName,
		Timestamp:   s.now().UTC(),
		MemberID:    e.MemberID,
		Details:     e.Details,
		Actor:       logctx.UserID(ctx),
	}
	if len(e.Extra) > 0 {
		row.Extra = datatypes.JSONMap(e.Extra)
	}
	return row, nil
}

// Append writes e through tx so it commits or rolls back with the caller's
// other statements.
func (s *Service) Append(ctx context.Context, tx *gorm.DB, e Entry) (*models.ActivityLog, error) {
	row, err := s.build(ctx, e)
	if err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("append activity: %w", err)
	}
	return row, nil
}

// Record writes e on its own. Failures are logged and dropped: the mutation
// it describes has already been committed.
func (s *Service) Record(ctx context.Context, e Entry) *models.ActivityLog {
	row, err := s.Append(ctx, s.db, e)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("activity record failed", "action", e.Action, "err", err)
		return nil
	}
	return row
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if err := types.ValidateFields(req.Filters, listFields...); err != nil {
		return nil, err
	}
	if req.Size <= 0 {
		req.Size = types.DefaultPageLimit
	}
	if req.Size > types.MaxPageLimit {
		req.Size = types.MaxPageLimit
	}
	if req.From < 0 {
		req.From = 0
	}

	base := s.db.WithContext(ctx).Model(&models.ActivityLog{})
	if len(req.Filters) > 0 {
		base = base.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count activities: %w", err)
	}
	var rows []*models.ActivityLog
	if err := base.Order("timestamp DESC, id DESC").Offset(req.From).Limit(req.Size).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return &ListResponse{Items: rows, Total: total}, nil
}

// Recent returns at most limit entries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	var rows []models.ActivityLog
	q := s.db.WithContext(ctx).Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	return rows, nil
}
