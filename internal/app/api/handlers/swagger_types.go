package handlers

import (
	"github.com/tristarfitness/backend/internal/app/service/auth"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/app/service/statistics"
	"github.com/tristarfitness/backend/pkg/types"
)

// Envelope shapes for the generated API docs. Handlers build them through
// response.OKT / response.ErrorT.

type RespOK struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type RespError struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"validation failed"`
	Error   string `json:"error" example:"email must be a valid email address"`
}

type RespHealth struct {
	Success bool              `json:"success"`
	Data    map[string]string `json:"data"`
}

type RespLogin struct {
	Success bool             `json:"success"`
	Data    auth.LoginResult `json:"data"`
}

type RespSubject struct {
	Success bool         `json:"success"`
	Data    auth.Subject `json:"data"`
}

type RespMember struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    projection.MemberView `json:"data"`
}

type RespMemberList struct {
	Success bool                    `json:"success"`
	Data    []projection.MemberView `json:"data"`
}

type RespMemberPage struct {
	Success bool                              `json:"success"`
	Data    types.Page[projection.MemberView] `json:"data"`
}

type RespReload struct {
	Success bool                  `json:"success"`
	Data    ReloadMembersResponse `json:"data"`
}

type RespActivityList struct {
	Success bool                   `json:"success"`
	Data    ListActivitiesResponse `json:"data"`
}

type RespInvoice struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    projection.InvoiceView `json:"data"`
}

type RespInvoiceList struct {
	Success bool                     `json:"success"`
	Data    []projection.InvoiceView `json:"data"`
}

type RespStatistics struct {
	Success bool                `json:"success"`
	Data    statistics.Response `json:"data"`
}

type RespSync struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    SyncResponse `json:"data"`
}
