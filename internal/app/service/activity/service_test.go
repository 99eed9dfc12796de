package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/internal/platform/db/dbtest"
	"github.com/tristarfitness/backend/pkg/logctx"
	"github.com/tristarfitness/backend/pkg/types"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	gdb := dbtest.NewSQLite(t)
	svc := New(gdb, zap.NewNop().Sugar())
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, gdb
}

func TestAppend_FillsActorAndRollsBackWithTx(t *testing.T) {
	svc, gdb := newService(t)
	ctx := context.WithValue(context.Background(), logctx.KeyUserID, "staff-1")
	memberID := "m1"

	row, err := svc.Append(ctx, gdb, Entry{Type: types.ActivityTypeMember, Action: types.ActivityActionMemberRegistered, SubjectName: "A", MemberID: &memberID, Extra: map[string]any{"plan": "monthly"}})
	require.NoError(t, err)
	require.Equal(t, "staff-1", row.Actor)
	require.NotEmpty(t, row.ID)

	err = gdb.Transaction(func(tx *gorm.DB) error {
		if _, err := svc.Append(ctx, tx, Entry{Type: types.ActivityTypeMember, Action: "x", SubjectName: "B"}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	var count int64
	require.NoError(t, gdb.Model(&models.ActivityLog{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	var stored models.ActivityLog
	require.NoError(t, gdb.First(&stored, "id = ?", row.ID).Error)
	require.Equal(t, "monthly", stored.Extra["plan"])
}

func TestAppend_RejectsUnknownType(t *testing.T) {
	svc, gdb := newService(t)
	_, err := svc.Append(context.Background(), gdb, Entry{Type: "gym", Action: "x", SubjectName: "A"})
	require.Error(t, err)
	require.Nil(t, svc.Record(context.Background(), Entry{Type: "gym"}))
}

func TestList_FiltersAndOrdersNewestFirst(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m1, m2 := "m1", "m2"
	svc.Record(ctx, Entry{Type: types.ActivityTypeMember, Action: "a1", SubjectName: "A", MemberID: &m1})
	svc.Record(ctx, Entry{Type: types.ActivityTypeInvoice, Action: "i1", SubjectName: "A", MemberID: &m1})
	svc.Record(ctx, Entry{Type: types.ActivityTypeMember, Action: "a2", SubjectName: "B", MemberID: &m2})
	svc.Record(ctx, Entry{Type: types.ActivityTypeMember, Action: "a3", SubjectName: "A", MemberID: &m1})

	res, err := svc.List(ctx, &ListRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 4, res.Total)
	require.Equal(t, "a3", res.Items[0].Action)

	res, err = svc.List(ctx, &ListRequest{
		Filters: []*types.CommonFilter{
			{Field: "type", Operator: types.CommonFilterOperatorEq, Values: []any{"member"}},
			{Field: "member_id", Operator: types.CommonFilterOperatorEq, Values: []any{"m1"}},
		},
		Size: 1,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, res.Total)
	require.Len(t, res.Items, 1)
	require.Equal(t, "a3", res.Items[0].Action)

	res, err = svc.List(ctx, &ListRequest{Filters: []*types.CommonFilter{{Field: "type", Operator: types.CommonFilterOperatorEq, Values: []any{"member"}}}, From: 2, Size: 5})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Equal(t, "a1", res.Items[0].Action)

	_, err = svc.List(ctx, &ListRequest{Filters: []*types.CommonFilter{{Field: "details; DROP TABLE", Operator: types.CommonFilterOperatorEq, Values: []any{"x"}}}})
	require.Error(t, err)

	recent, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "a3", recent[0].Action)
}
