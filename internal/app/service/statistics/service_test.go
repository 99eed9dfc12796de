package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/internal/platform/db/dbtest"
	"github.com/tristarfitness/backend/pkg/types"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *Service) {
	mk := func(id string, status types.MemberStatus, typ types.MembershipType, visits int, expiresIn int, created time.Time) models.Member {
		return models.Member{
			ID: id, Name: id, Email: id + "@x.com", Phone: id,
			MembershipType: typ, Status: status, TotalVisits: visits,
			StartDate:  now.AddDate(0, -1, 0),
			ExpiryDate: now.AddDate(0, 0, expiresIn),
			CreatedAt:  created, UpdatedAt: created,
		}
	}
	day1 := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 2, 2, 9, 0, 0, 0, time.UTC)
	rows := []models.Member{
		mk("a", types.MemberStatusActive, types.MembershipTypeMonthly, 3, 10, day1),
		mk("b", types.MemberStatusActive, types.MembershipTypeAnnual, 5, 90, day1),
		mk("c", types.MemberStatusSuspended, types.MembershipTypeMonthly, 1, 5, day2),
		mk("d", types.MemberStatusActive, types.MembershipTypeQuarterly, 0, 20, day2),
	}
	require.NoError(t, s.db.Create(&rows).Error)
}

func byLabel(items []ResponseDataItem) map[string]int64 {
	out := map[string]int64{}
	for _, it := range items {
		out[it.Label] = it.Value
	}
	return out
}

func TestGet_Counts(t *testing.T) {
	s := New(dbtest.NewSQLite(t))
	s.now = func() time.Time { return now }
	seed(t, s)

	res, err := s.Get(context.Background(), &Request{DataItems: []*DataItem{
		{ID: StatisticTypeMemberStatusCount},
		{ID: StatisticTypeMembershipTypeCount},
		{ID: StatisticTypeTotalVisits},
		{ID: StatisticTypeExpiringSoonCount},
		{ID: StatisticTypeDailyNewMemberCount},
	}})
	require.NoError(t, err)

	require.Equal(t, map[string]int64{"active": 3, "suspended": 1}, byLabel(res.DataItems[StatisticTypeMemberStatusCount]))
	require.Equal(t, map[string]int64{"monthly": 2, "quarterly": 1, "annual": 1}, byLabel(res.DataItems[StatisticTypeMembershipTypeCount]))
	require.EqualValues(t, 9, res.DataItems[StatisticTypeTotalVisits][0].Value)
	require.EqualValues(t, 2, res.DataItems[StatisticTypeExpiringSoonCount][0].Value)

	daily := res.DataItems[StatisticTypeDailyNewMemberCount]
	require.Len(t, daily, 2)
	require.Equal(t, "2024-02-02", daily[0].Date)
	require.EqualValues(t, 2, daily[0].Value)
}

func TestGet_ExpiringDaysFilter(t *testing.T) {
	s := New(dbtest.NewSQLite(t))
	s.now = func() time.Time { return now }
	seed(t, s)

	res, err := s.Get(context.Background(), &Request{
		Filters:   []*types.CommonFilter{{Field: "days", Operator: types.CommonFilterOperatorEq, Values: []any{100}}},
		DataItems: []*DataItem{{ID: StatisticTypeExpiringSoonCount}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, res.DataItems[StatisticTypeExpiringSoonCount][0].Value)
}

func TestRequestValidate(t *testing.T) {
	require.Error(t, (&Request{}).Validate())
	require.Error(t, (&Request{DataItems: []*DataItem{{ID: "daily_gmv"}}}).Validate())
	require.Error(t, (&Request{
		DataItems: []*DataItem{{ID: StatisticTypeTotalVisits}},
		Filters:   []*types.CommonFilter{{Field: "password_hash", Operator: types.CommonFilterOperatorEq, Values: []any{"x"}}},
	}).Validate())
	require.Error(t, (&Request{
		DataItems: []*DataItem{{ID: StatisticTypeExpiringSoonCount}},
		Filters:   []*types.CommonFilter{{Field: "days", Operator: types.CommonFilterOperatorEq, Values: []any{"soon"}}},
	}).Validate())
}

func TestFiltersFor(t *testing.T) {
	req := &Request{Filters: []*types.CommonFilter{
		{Field: "type", Operator: types.CommonFilterOperatorEq, Values: []any{"member"}},
		{Field: "days", Operator: types.CommonFilterOperatorEq, Values: []any{7}},
	}}
	require.Len(t, req.filtersFor(StatisticTypeDailyActivityCount), 1)
	require.Empty(t, req.filtersFor(StatisticTypeExpiringSoonCount))
	require.Empty(t, req.filtersFor(StatisticTypeDailyNewMemberCount))
}
