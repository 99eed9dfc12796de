package member

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/app/service/activity"
	"github.com/tristarfitness/backend/internal/app/service/mirror"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/internal/platform/db/dbtest"
	"github.com/tristarfitness/backend/pkg/types"
)

type recordingProjector struct {
	mu    sync.Mutex
	calls [][]projection.Section
}

func (p *recordingProjector) Sync(_ context.Context, sections ...projection.Section) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, sections)
}

func (p *recordingProjector) last() []projection.Section {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return nil
	}
	return p.calls[len(p.calls)-1]
}

type fixture struct {
	svc       *Service
	db        *gorm.DB
	mirror    *mirror.Store
	projector *recordingProjector
}

var fixedNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, gdb *gorm.DB) *fixture {
	l := zap.NewNop().Sugar()
	m := mirror.New()
	p := &recordingProjector{}
	svc := newService(gdb, m, activity.New(gdb, l), p, l)
	svc.now = func() time.Time { return fixedNow }
	return &fixture{svc: svc, db: gdb, mirror: m, projector: p}
}

func date(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }

func scenarioInput() CreateInput {
	return CreateInput{
		Name:           "A",
		Email:          "a@x.com",
		Phone:          "+1-555-0100",
		MembershipType: types.MembershipTypeMonthly,
		StartDate:      date("2024-01-01"),
		ExpiryDate:     ptr(date("2024-02-01")),
	}
}

func countMembers(t *testing.T, gdb *gorm.DB) int64 {
	var n int64
	require.NoError(t, gdb.Model(&models.Member{}).Count(&n).Error)
	return n
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t, dbtest.NewSQLite(t))
	ctx := context.Background()

	m, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)
	require.Equal(t, types.MemberStatusActive, m.Status)
	require.Equal(t, 0, m.TotalVisits)
	require.Nil(t, m.LastVisit)
	require.Equal(t, fixedNow, m.CreatedAt)

	var stored models.Member
	require.NoError(t, f.db.First(&stored, "id = ?", m.ID).Error)
	require.Equal(t, "a@x.com", stored.Email)
	mirrored, ok := f.mirror.Get(m.ID)
	require.True(t, ok)
	require.Equal(t, m.Email, mirrored.Email)

	var logs []models.ActivityLog
	require.NoError(t, f.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, types.ActivityActionMemberRegistered, logs[0].Action)
	require.Equal(t, m.ID, *logs[0].MemberID)

	require.Equal(t, []projection.Section{projection.SectionMembers, projection.SectionActivities}, f.projector.last())
}

func TestCreate_StatusOverrideAndDerivedExpiry(t *testing.T) {
	f := newFixture(t, dbtest.NewSQLite(t))
	in := scenarioInput()
	in.Status = types.MemberStatusPending
	in.ExpiryDate = nil
	in.StartDate = date("2024-01-31")

	m, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, types.MemberStatusPending, m.Status)
	require.Equal(t, date("2024-02-29"), m.ExpiryDate)
}

func TestCreate_DuplicateEmailOrPhoneConflicts(t *testing.T) {
	f := newFixture(t, dbtest.NewSQLite(t))
	ctx := context.Background()
	_, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)

	dupEmail := scenarioInput()
	dupEmail.Email = "A@X.com "
	dupEmail.Phone = "+1-555-0199"
	_, err = f.svc.Create(ctx, dupEmail)
	require.ErrorIs(t, err, ErrConflict)
	require.Contains(t, err.Error(), "email")

	dupPhone := scenarioInput()
	dupPhone.Email = "b@x.com"
	_, err = f.svc.Create(ctx, dupPhone)
	require.ErrorIs(t, err, ErrConflict)
	require.Contains(t, err.Error(), "phone")

	require.EqualValues(t, 1, countMembers(t, f.db))
	require.Equal(t, 1, f.mirror.Len())
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, dbtest.NewSQLite(t))
	cases := map[string]func(in *CreateInput){
		"expiry before start": func(in *CreateInput) { in.ExpiryDate = ptr(date("2023-12-01")) },
		"expiry equals start": func(in *CreateInput) { in.ExpiryDate = ptr(in.StartDate) },
		"unknown type":        func(in *CreateInput) { in.MembershipType = "weekly" },
		"unknown status":      func(in *CreateInput) { in.Status = "frozen" },
		"missing name":        func(in *CreateInput) { in.Name = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := scenarioInput()
			mutate(&in)
			_, err := f.svc.Create(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
	require.EqualValues(t, 0, countMembers(t, f.db))
}

func TestCreate_StoreFailureIsPersistenceError(t *testing.T) {
	gdb, mock := dbtest.NewMock(t)
	f := newFixture(t, gdb)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "members"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := f.svc.Create(context.Background(), scenarioInput())
	require.ErrorIs(t, err, ErrPersistence)
	require.Equal(t, 0, f.mirror.Len())
	require.Empty(t, f.projector.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ActivityAppendFailureRollsBackMember(t *testing.T) {
	f := newFixture(t, dbtest.NewSQLite(t))
	require.NoError(t, f.db.Migrator().DropTable(&models.ActivityLog{}))

	_, err := f.svc.Create(context.Background(), scenarioInput())
	require.ErrorIs(t, err, ErrPersistence)
	require.EqualValues(t, 0, countMembers(t, f.db))
	require.Equal(t, 0, f.mirror.Len())
	require.Empty(t, f.projector.calls)
}

func TestUpdate_MirrorFirstAndStoreWritten(t *testing.T) {
	f := newFixture(t, dbtest.NewSQLite(t))
	ctx := context.Background()
	m, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)

	f.svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	updated, err := f.svc.Update(ctx, m.ID, UpdateInput{Name: ptr("Alice"), Goals: ptr("5k")})
	require.NoError(t, err)
	require.Equal(t, "Alice", updated.Name)
	require.Equal(t, fixedNow.Add(time.Hour), updated.UpdatedAt)
	require.Equal(t, m.CreatedAt, updated.CreatedAt)

	var stored models.Member
	require.NoError(t, f.db.First(&stored, "id = ?", m.ID).Error)
	require.Equal(t, "Alice", stored.Name)
	require.Equal(t, "5k", stored.Goals)

	var logs []models.ActivityLog
	require.NoError(t, f.db.Where("action = ?", types.ActivityActionMemberUpdated).Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "Alice", logs[0].Extra["name"])
}

func TestUpdate_RejectsBeforeMutating(t *testing.T) {
	f := newFixture(t, dbtest.NewSQLite(t))
	ctx := context.Background()
	a, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)
	other := scenarioInput()
	other.Email, other.Phone = "b@x.com", "+1-555-0200"
	_, err = f.svc.Create(ctx, other)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, a.ID, UpdateInput{Email: ptr("b@x.com")})
	require.ErrorIs(t, err, ErrConflict)
	_, err = f.svc.Update(ctx, a.ID, UpdateInput{ExpiryDate: ptr(date("2023-01-01"))})
	require.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Update(ctx, a.ID, UpdateInput{Status: ptr(types.MemberStatus("frozen"))})
	require.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Update(ctx, "missing", UpdateInput{Name: ptr("x")})
	require.ErrorIs(t, err, ErrNotFound)

	got, _ := f.mirror.Get(a.ID)
	require.Equal(t, "a@x.com", got.Email)
	require.Equal(t, date("2024-02-01"), got.ExpiryDate)
}

func TestUpdate_StoreFailureKeepsMirror(t *testing.T) {
	gdb, mock := dbtest.NewMock(t)
	f := newFixture(t, gdb)
	seed := models.Member{
		ID: "m1", Name: "A", Email: "a@x.com", Phone: "1",
		MembershipType: types.MembershipTypeMonthly,
		StartDate:      date("2024-01-01"), ExpiryDate: date("2024-02-01"),
		Status: types.MemberStatusActive,
	}
	f.mirror.Put(&seed)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "members"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	updated, err := f.svc.Update(context.Background(), "m1", UpdateInput{Status: ptr(types.MemberStatusSuspended)})
	require.NoError(t, err)
	require.Equal(t, types.MemberStatusSuspended, updated.Status)
	got, _ := f.mirror.Get("m1")
	require.Equal(t, types.MemberStatusSuspended, got.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	f := newFixture(t, dbtest.NewSQLite(t))
	ctx := context.Background()
	m, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, m.ID))
	require.EqualValues(t, 0, countMembers(t, f.db))
	require.Equal(t, 0, f.mirror.Len())

	var entry models.ActivityLog
	require.NoError(t, f.db.Where("action = ?", types.ActivityActionMemberDeleted).First(&entry).Error)
	require.Nil(t, entry.MemberID)
	require.Equal(t, "A", entry.SubjectName)

	require.ErrorIs(t, f.svc.Delete(ctx, m.ID), ErrNotFound)
}

func TestGet_FallsBackToStore(t *testing.T) {
	f := newFixture(t, dbtest.NewSQLite(t))
	ctx := context.Background()
	m, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)
	f.mirror.Replace(nil)

	got, err := f.svc.Get(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)
	require.Equal(t, 1, f.mirror.Len())

	_, err = f.svc.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReload_ReplacesMirrorAndSyncsAll(t *testing.T) {
	f := newFixture(t, dbtest.NewSQLite(t))
	ctx := context.Background()
	m, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)
	stray := models.Member{ID: "stray"}
	f.mirror.Put(&stray)

	n, err := f.svc.Reload(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	_, ok := f.mirror.Get("stray")
	require.False(t, ok)
	_, ok = f.mirror.Get(m.ID)
	require.True(t, ok)
	require.Equal(t, []projection.Section{projection.SectionAll}, f.projector.last())
}
