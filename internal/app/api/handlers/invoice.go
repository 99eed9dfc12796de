package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/tristarfitness/backend/internal/app/service/invoice"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/response"
	"github.com/tristarfitness/backend/pkg/types"
)

type CreateInvoiceRequest struct {
	MemberID string `json:"memberId" binding:"required"`
	// Amount is in minor currency units (cents).
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" binding:"required,calendar_date"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid overdue cancelled"`
}

type ListInvoicesQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending paid overdue cancelled"`
	MemberID string `form:"memberId"`
}

// @Summary      Create invoice
// @Tags         Invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  CreateInvoiceRequest  true  "Invoice"
// @Success      201  {object}  handlers.RespInvoice
// @Failure      400  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/invoices [post]
func ApiCreateInvoice(svc *invoice.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		due, err := parseDate(req.DueDate)
		if err != nil {
			writeBindError(c, err)
			return
		}
		inv, err := svc.Create(c.Request.Context(), invoice.CreateInput{
			MemberID:    req.MemberID,
			Amount:      req.Amount,
			Currency:    req.Currency,
			Description: req.Description,
			DueDate:     due,
		})
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKMsgT(projection.NewInvoiceView(inv), "Invoice created"))
	}
}

// @Summary      List invoices
// @Tags         Invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status    query  string  false  "pending | paid | overdue | cancelled"
// @Param        memberId  query  string  false  "Member ID"
// @Success      200  {object}  handlers.RespInvoiceList
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/invoices [get]
func ApiListInvoices(svc *invoice.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q ListInvoicesQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			writeBindError(c, err)
			return
		}
		rows, err := svc.List(c.Request.Context(), invoice.ListFilter{Status: types.InvoiceStatus(q.Status), MemberID: q.MemberID})
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(lo.Map(rows, func(i models.Invoice, _ int) projection.InvoiceView {
			return projection.NewInvoiceView(&i)
		})))
	}
}

// @Summary      Get invoice
// @Tags         Invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  handlers.RespInvoice
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/invoices/{id} [get]
func ApiGetInvoice(svc *invoice.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(projection.NewInvoiceView(inv)))
	}
}

// @Summary      Update invoice status
// @Tags         Invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                      true  "Invoice ID"
// @Param        request  body  UpdateInvoiceStatusRequest  true  "New status"
// @Success      200  {object}  handlers.RespInvoice
// @Failure      400  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/invoices/{id}/status [patch]
func ApiUpdateInvoiceStatus(svc *invoice.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateInvoiceStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		inv, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), types.InvoiceStatus(req.Status))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(projection.NewInvoiceView(inv)))
	}
}

func RegisterInvoiceRoutes(r, w gin.IRouter, svc *invoice.Service, log *zap.SugaredLogger) {
	registerValidators()
	r.GET("/invoices", ApiListInvoices(svc, log))
	r.GET("/invoices/:id", ApiGetInvoice(svc, log))
	w.POST("/invoices", ApiCreateInvoice(svc, log))
	w.PATCH("/invoices/:id/status", ApiUpdateInvoiceStatus(svc, log))
}
