// Package invoice keeps the billing records behind the invoices projection.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/app/service/activity"
	"github.com/tristarfitness/backend/internal/app/service/member"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/logctx"
	"github.com/tristarfitness/backend/pkg/tool"
	"github.com/tristarfitness/backend/pkg/types"
)

var (
	ErrNotFound   = errors.New("invoice not found")
	ErrValidation = errors.New("invalid invoice")
)

type CreateInput struct {
	MemberID    string
	Amount      int64
	Currency    string
	Description string
	DueDate     time.Time
}

type ListFilter struct {
	Status   types.InvoiceStatus
	MemberID string
}

// MemberLookup resolves the member an invoice is billed to.
type MemberLookup interface {
	Get(ctx context.Context, id string) (*models.Member, error)
}

type Service struct {
	db         *gorm.DB
	members    MemberLookup
	activities *activity.Service
	projector  member.Projector
	log        *zap.SugaredLogger
	now        func() time.Time
}

func NewService(db *gorm.DB, members *member.Service, activities *activity.Service, w *projection.Writer, log *zap.SugaredLogger) *Service {
	return &Service{db: db, members: members, activities: activities, projector: w, log: log, now: time.Now}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Invoice, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: dueDate is required", ErrValidation)
	}
	m, err := s.members.Get(ctx, in.MemberID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	inv := &models.Invoice{
		ID:          tool.GenerateUUIDV7(),
		MemberID:    m.ID,
		MemberName:  m.Name,
		Amount:      in.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(in.Currency)),
		Description: in.Description,
		Status:      types.InvoiceStatusPending,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if inv.Currency == "" {
		inv.Currency = "USD"
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inv).Error; err != nil {
			return err
		}
		_, err := s.activities.Append(ctx, tx, activity.Entry{
			Type:        types.ActivityTypeInvoice,
			Action:      types.ActivityActionInvoiceCreated,
			SubjectName: m.Name,
			MemberID:    &m.ID,
			Details:     fmt.Sprintf("%s %s due %s", formatAmount(inv.Amount), inv.Currency, inv.DueDate.Format(time.DateOnly)),
			Extra:       map[string]any{"invoiceId": inv.ID},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create invoice: %w", member.ErrPersistence, err)
	}

	s.projector.Sync(ctx, projection.SectionInvoices, projection.SectionActivities)
	logctx.FromCtx(ctx, s.log).Infow("invoice created", "invoice_id", inv.ID, "member_id", m.ID)
	return inv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: load invoice: %w", member.ErrPersistence, err)
	}
	return &inv, nil
}

// List returns invoices newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Invoice, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	q := s.db.WithContext(ctx).Model(&models.Invoice{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.MemberID != "" {
		q = q.Where("member_id = ?", f.MemberID)
	}
	var rows []models.Invoice
	if err := q.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list invoices: %w", member.ErrPersistence, err)
	}
	return rows, nil
}

// UpdateStatus moves the invoice to status. Marking it paid stamps paidAt;
// any other status clears it.
func (s *Service) UpdateStatus(ctx context.Context, id string, status types.InvoiceStatus) (*models.Invoice, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	now := s.now().UTC()
	var inv models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&inv).Error; err != nil {
			return err
		}
		from := inv.Status
		inv.Status = status
		inv.UpdatedAt = now
		if status == types.InvoiceStatusPaid {
			inv.PaidAt = &now
		} else {
			inv.PaidAt = nil
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", id).Updates(map[string]any{
			"status":     inv.Status,
			"paid_at":    inv.PaidAt,
			"updated_at": inv.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		memberID := inv.MemberID
		_, err := s.activities.Append(ctx, tx, activity.Entry{
			Type:        types.ActivityTypeInvoice,
			Action:      types.ActivityActionInvoiceUpdated,
			SubjectName: inv.MemberName,
			MemberID:    &memberID,
			Details:     fmt.Sprintf("%s -> %s", from, status),
			Extra:       map[string]any{"invoiceId": inv.ID},
		})
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: update invoice: %w", member.ErrPersistence, err)
	}

	s.projector.Sync(ctx, projection.SectionInvoices, projection.SectionActivities)
	return &inv, nil
}

// formatAmount renders minor units as a decimal string.
func formatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
