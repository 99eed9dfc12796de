package projection

import (
	"time"

	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/types"
)

// MemberView is the camelCase shape of a member that the frontend reads,
// both from the API and from members.json.
type MemberView struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	Email            string               `json:"email"`
	Phone            string               `json:"phone"`
	MembershipType   types.MembershipType `json:"membershipType"`
	StartDate        string               `json:"startDate"`
	ExpiryDate       string               `json:"expiryDate"`
	Status           types.MemberStatus   `json:"status"`
	TotalVisits      int                  `json:"totalVisits"`
	LastVisit        *time.Time           `json:"lastVisit"`
	EmergencyContact string               `json:"emergencyContact,omitempty"`
	Address          string               `json:"address,omitempty"`
	MedicalNotes     string               `json:"medicalNotes,omitempty"`
	Goals            string               `json:"goals,omitempty"`
	AssignedTrainer  *string              `json:"assignedTrainer"`
	IsExpired        bool                 `json:"isExpired"`
	DaysUntilExpiry  int                  `json:"daysUntilExpiry"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// NewMemberView renders m as seen at now. Dates are calendar dates.
func NewMemberView(m *models.Member, now time.Time) MemberView {
	return MemberView{
		ID:               m.ID,
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		MembershipType:   m.MembershipType,
		StartDate:        m.StartDate.Format(time.DateOnly),
		ExpiryDate:       m.ExpiryDate.Format(time.DateOnly),
		Status:           m.Status,
		TotalVisits:      m.TotalVisits,
		LastVisit:        m.LastVisit,
		EmergencyContact: m.EmergencyContact,
		Address:          m.Address,
		MedicalNotes:     m.MedicalNotes,
		Goals:            m.Goals,
		AssignedTrainer:  m.AssignedTrainer,
		IsExpired:        m.IsExpired(now),
		DaysUntilExpiry:  m.DaysUntilExpiry(now),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

type ActivityView struct {
	ID          string             `json:"id"`
	Type        types.ActivityType `json:"type"`
	Action      string             `json:"action"`
	SubjectName string             `json:"subjectName"`
	Timestamp   time.Time          `json:"timestamp"`
	MemberID    *string            `json:"memberId"`
	Details     string             `json:"details"`
	Actor       string             `json:"actor,omitempty"`
	Extra       map[string]any     `json:"extra,omitempty"`
}

func NewActivityView(a *models.ActivityLog) ActivityView {
	return ActivityView{
		ID:          a.ID,
		Type:        a.Type,
		Action:      a.Action,
		SubjectName: a.SubjectName,
		Timestamp:   a.Timestamp,
		MemberID:    a.MemberID,
		Details:     a.Details,
		Actor:       a.Actor,
		Extra:       a.Extra,
	}
}

type InvoiceView struct {
	ID          string              `json:"id"`
	MemberID    string              `json:"memberId"`
	MemberName  string              `json:"memberName"`
	Amount      int64               `json:"amount"`
	Currency    string              `json:"currency"`
	Description string              `json:"description"`
	Status      types.InvoiceStatus `json:"status"`
	DueDate     string              `json:"dueDate"`
	PaidAt      *time.Time          `json:"paidAt"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func NewInvoiceView(i *models.Invoice) InvoiceView {
	return InvoiceView{
		ID:          i.ID,
		MemberID:    i.MemberID,
		MemberName:  i.MemberName,
		Amount:      i.Amount,
		Currency:    i.Currency,
		Description: i.Description,
		Status:      i.Status,
		DueDate:     i.DueDate.Format(time.DateOnly),
		PaidAt:      i.PaidAt,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// Snapshot is the envelope of every projection file.
type Snapshot[T any] struct {
	LastSynced time.Time `json:"lastSynced"`
	Data       []T       `json:"data"`
}
