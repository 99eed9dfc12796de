package projection

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/app/service/activity"
	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/internal/platform/db/dbtest"
	cfgpkg "github.com/tristarfitness/backend/pkg/config"
	"github.com/tristarfitness/backend/pkg/types"
)

func newWriter(t *testing.T, gdb *gorm.DB) *Writer {
	cfg := &cfgpkg.Config{}
	cfg.Projection.Dir = filepath.Join(t.TempDir(), "projections")
	cfg.Projection.ActivityLimit = 2
	l := zap.NewNop().Sugar()
	w := NewWriter(gdb, activity.New(gdb, l), cfg, l)
	w.now = func() time.Time { return time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) }
	return w
}

func readSnapshot[T any](t *testing.T, path string) Snapshot[T] {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap Snapshot[T]
	require.NoError(t, json.Unmarshal(raw, &snap))
	return snap
}

func TestParseSection(t *testing.T) {
	for _, s := range []string{"members", "invoices", "activities", "all"} {
		sec, err := ParseSection(s)
		require.NoError(t, err)
		require.Equal(t, Section(s), sec)
	}
	_, err := ParseSection("trainers")
	require.ErrorIs(t, err, ErrUnknownSection)
}

func TestSync_MembersSnapshot(t *testing.T) {
	gdb := dbtest.NewSQLite(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, gdb.Create(&models.Member{
		ID: "m1", Name: "A", Email: "a@x.com", Phone: "1",
		MembershipType: types.MembershipTypeMonthly,
		StartDate:      start, ExpiryDate: start.AddDate(0, 1, 0),
		Status: types.MemberStatusActive,
	}).Error)

	w := newWriter(t, gdb)
	require.NoError(t, w.SyncErr(context.Background(), SectionMembers))

	snap := readSnapshot[MemberView](t, w.Path(SectionMembers))
	require.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), snap.LastSynced.UTC())
	require.Len(t, snap.Data, 1)
	require.Equal(t, "m1", snap.Data[0].ID)
	require.Equal(t, "2024-01-01", snap.Data[0].StartDate)
	require.Equal(t, "2024-02-01", snap.Data[0].ExpiryDate)
	require.False(t, snap.Data[0].IsExpired)
	require.Equal(t, 17, snap.Data[0].DaysUntilExpiry)

	raw, err := os.ReadFile(w.Path(SectionMembers))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"membershipType": "monthly"`)
	require.Contains(t, string(raw), `"lastSynced"`)
}

func TestSync_AllWritesEverySectionAndCapsActivities(t *testing.T) {
	gdb := dbtest.NewSQLite(t)
	w := newWriter(t, gdb)
	ctx := context.Background()
	for _, action := range []string{"a", "b", "c"} {
		w.activities.Record(ctx, activity.Entry{Type: types.ActivityTypeMember, Action: action, SubjectName: "A"})
	}

	require.NoError(t, w.SyncErr(ctx, SectionAll))
	for _, sec := range Sections {
		require.FileExists(t, w.Path(sec))
	}
	acts := readSnapshot[ActivityView](t, w.Path(SectionActivities))
	require.Len(t, acts.Data, 2)
	invoices := readSnapshot[InvoiceView](t, w.Path(SectionInvoices))
	require.NotNil(t, invoices.Data)
	require.Empty(t, invoices.Data)
}

func TestSync_SwallowsStoreErrors(t *testing.T) {
	gdb, mock := dbtest.NewMock(t)
	mock.ExpectQuery(`SELECT \* FROM "members"`).WillReturnError(sqlmock.ErrCancelled)

	w := newWriter(t, gdb)
	require.NotPanics(t, func() { w.Sync(context.Background(), SectionMembers) })
	require.NoFileExists(t, w.Path(SectionMembers))
	require.NoError(t, mock.ExpectationsWereMet())
}
