package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/tristarfitness/backend/internal/app/service/activity"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/response"
	"github.com/tristarfitness/backend/pkg/types"
)

type ListActivitiesQuery struct {
	Type     string `form:"type" binding:"omitempty,oneof=member visitor trainer invoice followup"`
	MemberID string `form:"memberId"`
	Since    string `form:"since" binding:"omitempty,calendar_date"`
	Until    string `form:"until" binding:"omitempty,calendar_date"`
	From     int    `form:"from" binding:"omitempty,min=0"`
	Size     int    `form:"size" binding:"omitempty,min=1,max=100"`
}

type ListActivitiesResponse struct {
	Items []projection.ActivityView `json:"items"`
	Total int64                     `json:"total"`
}

func (q *ListActivitiesQuery) filters() ([]*types.CommonFilter, error) {
	var out []*types.CommonFilter
	if q.Type != "" {
		out = append(out, &types.CommonFilter{Field: "type", Operator: types.CommonFilterOperatorEq, Values: []any{q.Type}})
	}
	if q.MemberID != "" {
		out = append(out, &types.CommonFilter{Field: "member_id", Operator: types.CommonFilterOperatorEq, Values: []any{q.MemberID}})
	}
	var since, until time.Time
	if q.Since != "" {
		d, err := parseDate(q.Since)
		if err != nil {
			return nil, err
		}
		since = d
		out = append(out, &types.CommonFilter{Field: "timestamp", Operator: types.CommonFilterOperatorGte, Values: []any{since}})
	}
	if q.Until != "" {
		d, err := parseDate(q.Until)
		if err != nil {
			return nil, err
		}
		until = d
		// until covers the whole day
		out = append(out, &types.CommonFilter{Field: "timestamp", Operator: types.CommonFilterOperatorLt, Values: []any{until.AddDate(0, 0, 1)}})
	}
	if !since.IsZero() && !until.IsZero() && since.After(until) {
		return nil, errors.New("since must not be after until")
	}
	return out, nil
}

// @Summary      List activity log
// @Description  Newest first, optionally filtered by type, member and day range.
// @Tags         Activities
// @Produce      json
// @Security     BearerAuth
// @Param        type      query  string  false  "member | visitor | trainer | invoice | followup"
// @Param        memberId  query  string  false  "Member ID"
// @Param        since     query  string  false  "First day (YYYY-MM-DD)"
// @Param        until     query  string  false  "Last day (YYYY-MM-DD)"
// @Param        from      query  int     false  "Offset"
// @Param        size      query  int     false  "Page size (max 100)"
// @Success      200  {object}  handlers.RespActivityList
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/activities [get]
func ApiListActivities(svc *activity.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q ListActivitiesQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			writeBindError(c, err)
			return
		}
		filters, err := q.filters()
		if err != nil {
			writeBindError(c, err)
			return
		}
		res, err := svc.List(c.Request.Context(), &activity.ListRequest{Filters: filters, From: q.From, Size: q.Size})
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListActivitiesResponse{
			Items: lo.Map(res.Items, func(a *models.ActivityLog, _ int) projection.ActivityView { return projection.NewActivityView(a) }),
			Total: res.Total,
		}))
	}
}

func RegisterActivityRoutes(r gin.IRouter, svc *activity.Service, log *zap.SugaredLogger) {
	registerValidators()
	r.GET("/activities", ApiListActivities(svc, log))
}
