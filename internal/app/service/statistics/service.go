// Package statistics computes the dashboard figures straight from the
// durable store. Data items are evaluated concurrently.
package statistics

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/types"
)

type StatisticType string

const (
	StatisticTypeMemberStatusCount   StatisticType = "member_status_count"
	StatisticTypeMembershipTypeCount StatisticType = "membership_type_count"
	StatisticTypeTotalVisits         StatisticType = "total_visits"
	StatisticTypeExpiringSoonCount   StatisticType = "expiring_soon_count"
	StatisticTypeDailyNewMemberCount StatisticType = "daily_new_member_count"
	StatisticTypeDailyActivityCount  StatisticType = "daily_activity_count"
)

var statisticTypes = []StatisticType{
	StatisticTypeMemberStatusCount,
	StatisticTypeMembershipTypeCount,
	StatisticTypeTotalVisits,
	StatisticTypeExpiringSoonCount,
	StatisticTypeDailyNewMemberCount,
	StatisticTypeDailyActivityCount,
}

// Filter fields and the data items they apply to. Filters on other items
// are ignored for that item.
type FilterType string

const (
	FilterTypeActivityType FilterType = "type"
	FilterTypeDays         FilterType = "days"
	FilterTypeCreatedAt    FilterType = "created_at"
	FilterTypeTimestamp    FilterType = "timestamp"
)

var validFilters = map[FilterType][]StatisticType{
	FilterTypeActivityType: {StatisticTypeDailyActivityCount},
	FilterTypeTimestamp:    {StatisticTypeDailyActivityCount},
	FilterTypeDays:         {StatisticTypeExpiringSoonCount},
	FilterTypeCreatedAt:    {StatisticTypeDailyNewMemberCount},
}

const defaultExpiringDays = 30

type DataItem struct {
	ID StatisticType `json:"id"`
}

type Request struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []*DataItem           `json:"data_items"`
}

// filtersFor keeps the filters that apply to statisticType.
func (r *Request) filtersFor(statisticType StatisticType) types.FiltersAnd {
	var out types.FiltersAnd
	for _, f := range r.Filters {
		if f == nil || FilterType(f.Field) == FilterTypeDays {
			continue
		}
		if lo.Contains(validFilters[FilterType(f.Field)], statisticType) {
			out = append(out, f)
		}
	}
	return out
}

func (r *Request) expiringDays() (int, error) {
	for _, f := range r.Filters {
		if f != nil && FilterType(f.Field) == FilterTypeDays && len(f.Values) > 0 {
			days, err := strconv.Atoi(fmt.Sprint(f.Values[0]))
			if err != nil || days < 0 {
				return 0, fmt.Errorf("invalid days filter: %v", f.Values[0])
			}
			return days, nil
		}
	}
	return defaultExpiringDays, nil
}

// Validate rejects unknown data items and filter fields.
func (r *Request) Validate() error {
	if len(r.DataItems) == 0 {
		return fmt.Errorf("data_items is required")
	}
	for _, di := range r.DataItems {
		if di == nil || !lo.Contains(statisticTypes, di.ID) {
			return fmt.Errorf("invalid data item id: %v", di)
		}
	}
	for _, f := range r.Filters {
		if f == nil {
			return fmt.Errorf("nil filter")
		}
		if _, ok := validFilters[FilterType(f.Field)]; !ok {
			return fmt.Errorf("unsupported filter field: %s", f.Field)
		}
	}
	_, err := r.expiringDays()
	return err
}

type ResponseDataItem struct {
	Date  string `json:"date,omitempty"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type Response struct {
	DataItems map[StatisticType][]ResponseDataItem `json:"data_items"`
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Service { return &Service{db: db, now: time.Now} }

// dateExpr buckets column by calendar day in the active dialect.
func (s *Service) dateExpr(column string) string {
	if s.db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD')", column)
	}
	return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", column)
}

func where(f types.FiltersAnd) clause.Where {
	return clause.Where{Exprs: []clause.Expression{f}}
}

func (s *Service) countBy(ctx context.Context, column string) ([]ResponseDataItem, error) {
	var results []ResponseDataItem
	err := s.db.WithContext(ctx).Model(&models.Member{}).
		Select(column + " as label, count(*) as value").
		Group(column).
		Order(column).
		Find(&results).Error
	return results, err
}

func (s *Service) getTotalVisits(ctx context.Context) ([]ResponseDataItem, error) {
	var results []ResponseDataItem
	err := s.db.WithContext(ctx).Model(&models.Member{}).
		Select("COALESCE(SUM(total_visits), 0) as value").
		Find(&results).Error
	return results, err
}

func (s *Service) getExpiringSoonCount(ctx context.Context, req *Request) ([]ResponseDataItem, error) {
	days, err := req.expiringDays()
	if err != nil {
		return nil, err
	}
	var n int64
	err = s.db.WithContext(ctx).Model(&models.Member{}).
		Where("status = ?", types.MemberStatusActive).
		Where("expiry_date <= ?", s.now().UTC().AddDate(0, 0, days)).
		Count(&n).Error
	if err != nil {
		return nil, err
	}
	return []ResponseDataItem{{Label: strconv.Itoa(days), Value: n}}, nil
}

func (s *Service) getDailyNewMemberCount(ctx context.Context, req *Request) ([]ResponseDataItem, error) {
	var results []ResponseDataItem
	day := s.dateExpr("created_at")
	err := s.db.WithContext(ctx).Model(&models.Member{}).
		Select(day + " as date, count(*) as value").
		Where(where(req.filtersFor(StatisticTypeDailyNewMemberCount))).
		Group(day).
		Order("date DESC").
		Find(&results).Error
	return results, err
}

func (s *Service) getDailyActivityCount(ctx context.Context, req *Request) ([]ResponseDataItem, error) {
	var results []ResponseDataItem
	day := s.dateExpr("timestamp")
	err := s.db.WithContext(ctx).Model(&models.ActivityLog{}).
		Select(day + " as date, count(*) as value").
		Where(where(req.filtersFor(StatisticTypeDailyActivityCount))).
		Group(day).
		Order("date DESC").
		Find(&results).Error
	return results, err
}

func (s *Service) getStatistic(ctx context.Context, req *Request, item StatisticType) ([]ResponseDataItem, error) {
	switch item {
	case StatisticTypeMemberStatusCount:
		return s.countBy(ctx, "status")
	case StatisticTypeMembershipTypeCount:
		return s.countBy(ctx, "membership_type")
	case StatisticTypeTotalVisits:
		return s.getTotalVisits(ctx)
	case StatisticTypeExpiringSoonCount:
		return s.getExpiringSoonCount(ctx, req)
	case StatisticTypeDailyNewMemberCount:
		return s.getDailyNewMemberCount(ctx, req)
	case StatisticTypeDailyActivityCount:
		return s.getDailyActivityCount(ctx, req)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", item)
	}
}

// Get evaluates every requested data item concurrently and fails on the
// first error.
func (s *Service) Get(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var wg sync.WaitGroup
	errChan := make(chan error, len(req.DataItems))
	resChan := make(chan lo.Entry[StatisticType, []ResponseDataItem], len(req.DataItems))

	for _, item := range req.DataItems {
		wg.Add(1)
		go func(id StatisticType) {
			defer wg.Done()
			res, err := s.getStatistic(ctx, req, id)
			if err != nil {
				errChan <- fmt.Errorf("%s: %w", id, err)
				return
			}
			if res == nil {
				res = []ResponseDataItem{}
			}
			resChan <- lo.Entry[StatisticType, []ResponseDataItem]{Key: id, Value: res}
		}(item.ID)
	}
	wg.Wait()
	close(errChan)
	close(resChan)

	if err, ok := <-errChan; ok {
		return nil, err
	}
	results := make(map[StatisticType][]ResponseDataItem, len(req.DataItems))
	for entry := range resChan {
		results[entry.Key] = entry.Value
	}
	return &Response{DataItems: results}, nil
}
