// Package projection regenerates the JSON snapshot files the read-only
// frontend loads. Every sync re-reads the durable store and rewrites the
// whole file.
package projection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/app/service/activity"
	"github.com/tristarfitness/backend/internal/models"
	cfgpkg "github.com/tristarfitness/backend/pkg/config"
	"github.com/tristarfitness/backend/pkg/logctx"
	"github.com/tristarfitness/backend/pkg/metrics"
)

type Section string

const (
	SectionMembers    Section = "members"
	SectionInvoices   Section = "invoices"
	SectionActivities Section = "activities"
	SectionAll        Section = "all"
)

// Sections lists the concrete sections in the order "all" syncs them.
var Sections = []Section{SectionMembers, SectionInvoices, SectionActivities}

var ErrUnknownSection = errors.New("unknown projection section")

func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if sec == SectionAll || lo.Contains(Sections, sec) {
		return sec, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

type Writer struct {
	db            *gorm.DB
	activities    *activity.Service
	log           *zap.SugaredLogger
	dir           string
	activityLimit int
	now           func() time.Time
}

func NewWriter(db *gorm.DB, activities *activity.Service, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Writer {
	return &Writer{
		db:            db,
		activities:    activities,
		log:           log,
		dir:           cfg.Projection.Dir,
		activityLimit: cfg.Projection.ActivityLimit,
		now:           time.Now,
	}
}

// Sync regenerates sections and never fails the caller: errors are logged
// and counted. Mutations call it after they have committed.
func (w *Writer) Sync(ctx context.Context, sections ...Section) {
	for _, sec := range sections {
		if err := w.SyncErr(ctx, sec); err != nil {
			logctx.FromCtx(ctx, w.log).Warnw("projection sync failed", "section", sec, "err", err)
		}
	}
}

// SyncErr regenerates section and reports the first failure. "all" attempts
// every section even if one fails.
func (w *Writer) SyncErr(ctx context.Context, section Section) error {
	if section == SectionAll {
		var errs []error
		for _, sec := range Sections {
			errs = append(errs, w.SyncErr(ctx, sec))
		}
		return errors.Join(errs...)
	}

	start := time.Now()
	err := w.sync(ctx, section)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ProjectionSyncs.WithLabelValues(string(section), result).Inc()
	metrics.ObserveProcess("projection", string(section), start)
	return err
}

func (w *Writer) sync(ctx context.Context, section Section) error {
	now := w.now().UTC()
	var payload any
	switch section {
	case SectionMembers:
		var rows []models.Member
		if err := w.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
			return fmt.Errorf("load members: %w", err)
		}
		payload = Snapshot[MemberView]{LastSynced: now, Data: lo.Map(rows, func(m models.Member, _ int) MemberView {
			return NewMemberView(&m, now)
		})}
	case SectionInvoices:
		var rows []models.Invoice
		if err := w.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("load invoices: %w", err)
		}
		payload = Snapshot[InvoiceView]{LastSynced: now, Data: lo.Map(rows, func(i models.Invoice, _ int) InvoiceView {
			return NewInvoiceView(&i)
		})}
	case SectionActivities:
		rows, err := w.activities.Recent(ctx, w.activityLimit)
		if err != nil {
			return err
		}
		payload = Snapshot[ActivityView]{LastSynced: now, Data: lo.Map(rows, func(a models.ActivityLog, _ int) ActivityView {
			return NewActivityView(&a)
		})}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	buf, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", section, err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create projection dir: %w", err)
	}
	if err := os.WriteFile(w.Path(section), buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", section, err)
	}
	return nil
}

// Path is where section's snapshot file lives.
func (w *Writer) Path(section Section) string {
	return filepath.Join(w.dir, string(section)+".json")
}
