package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/tristarfitness/backend/internal/app/service/member"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/response"
	"github.com/tristarfitness/backend/pkg/types"
)

type CreateMemberRequest struct {
	Name             string  `json:"name" binding:"required"`
	Email            string  `json:"email" binding:"required,trimmed_email"`
	Phone            string  `json:"phone" binding:"required"`
	MembershipType   string  `json:"membershipType" binding:"required,oneof=monthly quarterly annual"`
	StartDate        string  `json:"startDate" binding:"required,calendar_date"`
	ExpiryDate       *string `json:"expiryDate" binding:"omitempty,calendar_date"`
	Status           string  `json:"status" binding:"omitempty,oneof=active expired pending suspended"`
	EmergencyContact string  `json:"emergencyContact"`
	Address          string  `json:"address"`
	MedicalNotes     string  `json:"medicalNotes"`
	Goals            string  `json:"goals"`
	AssignedTrainer  *string `json:"assignedTrainer"`
}

// UpdateMemberRequest leaves absent fields untouched. An empty
// assignedTrainer clears the assignment.
type UpdateMemberRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1"`
	Email            *string `json:"email" binding:"omitempty,trimmed_email"`
	Phone            *string `json:"phone" binding:"omitempty,min=1"`
	MembershipType   *string `json:"membershipType" binding:"omitempty,oneof=monthly quarterly annual"`
	StartDate        *string `json:"startDate" binding:"omitempty,calendar_date"`
	ExpiryDate       *string `json:"expiryDate" binding:"omitempty,calendar_date"`
	Status           *string `json:"status" binding:"omitempty,oneof=active expired pending suspended"`
	EmergencyContact *string `json:"emergencyContact"`
	Address          *string `json:"address"`
	MedicalNotes     *string `json:"medicalNotes"`
	Goals            *string `json:"goals"`
	AssignedTrainer  *string `json:"assignedTrainer"`
}

type RenewMemberRequest struct {
	MembershipType string `json:"membershipType" binding:"required,oneof=monthly quarterly annual"`
	// StartDate defaults to today.
	StartDate string `json:"startDate" binding:"omitempty,calendar_date"`
}

type ListMembersQuery struct {
	Status          string `form:"status" binding:"omitempty,oneof=active expired pending suspended"`
	MembershipType  string `form:"membershipType" binding:"omitempty,oneof=monthly quarterly annual"`
	AssignedTrainer string `form:"assignedTrainer"`
	Search          string `form:"search"`
	Page            int    `form:"page" binding:"omitempty,min=1,max=1000000"`
	Limit           int    `form:"limit" binding:"omitempty,min=1,max=100"`
	SortBy          string `form:"sortBy" binding:"omitempty,oneof=name createdAt expiryDate totalVisits"`
	SortOrder       string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

type ReloadMembersResponse struct {
	Count int `json:"count"`
}

func memberView(m *models.Member) projection.MemberView {
	return projection.NewMemberView(m, time.Now())
}

func memberViews(ms []models.Member) []projection.MemberView {
	now := time.Now()
	return lo.Map(ms, func(m models.Member, _ int) projection.MemberView { return projection.NewMemberView(&m, now) })
}

func (r *CreateMemberRequest) toInput() (member.CreateInput, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return member.CreateInput{}, err
	}
	expiry, err := parseOptionalDate(r.ExpiryDate)
	if err != nil {
		return member.CreateInput{}, err
	}
	return member.CreateInput{
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		MembershipType:   types.MembershipType(r.MembershipType),
		StartDate:        start,
		ExpiryDate:       expiry,
		Status:           types.MemberStatus(r.Status),
		EmergencyContact: r.EmergencyContact,
		Address:          r.Address,
		MedicalNotes:     r.MedicalNotes,
		Goals:            r.Goals,
		AssignedTrainer:  r.AssignedTrainer,
	}, nil
}

func (r *UpdateMemberRequest) toInput() (member.UpdateInput, error) {
	start, err := parseOptionalDate(r.StartDate)
	if err != nil {
		return member.UpdateInput{}, err
	}
	expiry, err := parseOptionalDate(r.ExpiryDate)
	if err != nil {
		return member.UpdateInput{}, err
	}
	in := member.UpdateInput{
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		StartDate:        start,
		ExpiryDate:       expiry,
		EmergencyContact: r.EmergencyContact,
		Address:          r.Address,
		MedicalNotes:     r.MedicalNotes,
		Goals:            r.Goals,
		AssignedTrainer:  r.AssignedTrainer,
	}
	if r.MembershipType != nil {
		in.MembershipType = lo.ToPtr(types.MembershipType(*r.MembershipType))
	}
	if r.Status != nil {
		in.Status = lo.ToPtr(types.MemberStatus(*r.Status))
	}
	return in, nil
}

// @Summary      List members
// @Description  Filters, sorts and paginates the member roster.
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Param        status           query  string  false  "Member status"
// @Param        membershipType   query  string  false  "Membership type"
// @Param        assignedTrainer  query  string  false  "Assigned trainer"
// @Param        search           query  string  false  "Name, email or phone substring"
// @Param        page             query  int     false  "Page (1-based)"
// @Param        limit            query  int     false  "Page size (max 100)"
// @Param        sortBy           query  string  false  "name | createdAt | expiryDate | totalVisits"
// @Param        sortOrder        query  string  false  "asc | desc"
// @Success      200  {object}  handlers.RespMemberPage
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/members [get]
func ApiListMembers(svc *member.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q ListMembersQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			writeBindError(c, err)
			return
		}
		page, err := svc.ListFiltered(c.Request.Context(), member.ListQuery{
			Status:          types.MemberStatus(q.Status),
			MembershipType:  types.MembershipType(q.MembershipType),
			AssignedTrainer: q.AssignedTrainer,
			Search:          q.Search,
			Page:            q.Page,
			Limit:           q.Limit,
			SortBy:          types.MemberSortField(q.SortBy),
			SortOrder:       types.SortOrder(q.SortOrder),
		})
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&types.Page[projection.MemberView]{
			Items:       memberViews(page.Items),
			Total:       page.Total,
			Page:        page.Page,
			Limit:       page.Limit,
			TotalPages:  page.TotalPages,
			HasNextPage: page.HasNextPage,
			HasPrevPage: page.HasPrevPage,
		}))
	}
}

// @Summary      List expiring members
// @Description  Active members whose membership ends within the given number of days, soonest first.
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Param        days  query  int  false  "Window in days (default 30)"
// @Success      200  {object}  handlers.RespMemberList
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/members/expiring [get]
func ApiListExpiringMembers(svc *member.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := 30
		if raw := c.Query("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(c, log, member.ErrValidation)
				return
			}
			days = n
		}
		ms, err := svc.ListExpiring(c.Request.Context(), days)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(memberViews(ms)))
	}
}

// @Summary      Get member
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Member ID"
// @Success      200  {object}  handlers.RespMember
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/members/{id} [get]
func ApiGetMember(svc *member.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(memberView(m)))
	}
}

// @Summary      Create member
// @Description  Registers a member. Expiry defaults to one membership period after the start date.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  CreateMemberRequest  true  "New member"
// @Success      201  {object}  handlers.RespMember
// @Failure      400  {object}  handlers.RespError
// @Failure      409  {object}  handlers.RespError
// @Router       /api/v1/members [post]
func ApiCreateMember(svc *member.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeBindError(c, err)
			return
		}
		m, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKMsgT(memberView(m), "Member created"))
	}
}

// @Summary      Update member
// @Description  Applies the supplied fields. Identity, creation time and visit counters cannot change.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string               true  "Member ID"
// @Param        request  body  UpdateMemberRequest  true  "Fields to change"
// @Success      200  {object}  handlers.RespMember
// @Failure      400  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Failure      409  {object}  handlers.RespError
// @Router       /api/v1/members/{id} [patch]
func ApiUpdateMember(svc *member.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeBindError(c, err)
			return
		}
		m, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKMsgT(memberView(m), "Member updated"))
	}
}

// @Summary      Check in member
// @Description  Records a visit. Only active members may check in.
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Member ID"
// @Success      200  {object}  handlers.RespMember
// @Failure      404  {object}  handlers.RespError
// @Failure      409  {object}  handlers.RespError
// @Router       /api/v1/members/{id}/checkin [post]
func ApiCheckInMember(svc *member.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := svc.CheckIn(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKMsgT(memberView(m), "Check-in recorded"))
	}
}

// @Summary      Renew membership
// @Description  Starts a new period of the given type and reactivates the member.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string              true  "Member ID"
// @Param        request  body  RenewMemberRequest  true  "Renewal"
// @Success      200  {object}  handlers.RespMember
// @Failure      400  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/members/{id}/renew [post]
func ApiRenewMember(svc *member.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RenewMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		var start time.Time
		if req.StartDate != "" {
			d, err := parseDate(req.StartDate)
			if err != nil {
				writeBindError(c, err)
				return
			}
			start = d
		}
		m, err := svc.Renew(c.Request.Context(), c.Param("id"), types.MembershipType(req.MembershipType), start)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKMsgT(memberView(m), "Membership renewed"))
	}
}

// @Summary      Delete member
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Member ID"
// @Success      200  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/members/{id} [delete]
func ApiDeleteMember(svc *member.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKMsgT[any](nil, "Member deleted"))
	}
}

// @Summary      Reload member cache
// @Description  Rebuilds the in-memory roster from the database and rewrites every projection file.
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespReload
// @Router       /api/v1/members/reload [post]
func ApiReloadMembers(svc *member.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.Reload(c.Request.Context())
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ReloadMembersResponse{Count: n}))
	}
}

// RegisterMemberRoutes mounts reads on r and mutations on w. w is expected to
// carry role enforcement.
func RegisterMemberRoutes(r, w gin.IRouter, svc *member.Service, log *zap.SugaredLogger) {
	registerValidators()
	r.GET("/members", ApiListMembers(svc, log))
	r.GET("/members/expiring", ApiListExpiringMembers(svc, log))
	r.GET("/members/:id", ApiGetMember(svc, log))

	w.POST("/members", ApiCreateMember(svc, log))
	w.POST("/members/reload", ApiReloadMembers(svc, log))
	w.PATCH("/members/:id", ApiUpdateMember(svc, log))
	w.PUT("/members/:id", ApiUpdateMember(svc, log))
	w.POST("/members/:id/checkin", ApiCheckInMember(svc, log))
	w.POST("/members/:id/renew", ApiRenewMember(svc, log))
	w.DELETE("/members/:id", ApiDeleteMember(svc, log))
}
