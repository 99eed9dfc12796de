package member

import (
	"strings"
	"time"

	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/pkg/types"
)

type CreateInput struct {
	Name           string
	Email          string
	Phone          string
	MembershipType types.MembershipType
	StartDate      time.Time
	// ExpiryDate defaults to one membership period after StartDate.
	ExpiryDate *time.Time
	// Status defaults to active.
	Status           types.MemberStatus
	EmergencyContact string
	Address          string
	MedicalNotes     string
	Goals            string
	AssignedTrainer  *string
}

// UpdateInput carries only the fields the caller supplied. Identity, creation
// time and visit counters are not updatable.
type UpdateInput struct {
	Name             *string
	Email            *string
	Phone            *string
	MembershipType   *types.MembershipType
	StartDate        *time.Time
	ExpiryDate       *time.Time
	Status           *types.MemberStatus
	EmergencyContact *string
	Address          *string
	MedicalNotes     *string
	Goals            *string
	AssignedTrainer  *string
}

type ListQuery struct {
	Status          types.MemberStatus
	MembershipType  types.MembershipType
	AssignedTrainer string
	Search          string
	Page            int
	Limit           int
	SortBy          types.MemberSortField
	SortOrder       types.SortOrder
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (in *CreateInput) toMember(id string, now time.Time) (*models.Member, error) {
	m := &models.Member{
		ID:               id,
		Name:             strings.TrimSpace(in.Name),
		Email:            normalizeEmail(in.Email),
		Phone:            strings.TrimSpace(in.Phone),
		MembershipType:   in.MembershipType,
		StartDate:        in.StartDate,
		Status:           in.Status,
		TotalVisits:      0,
		EmergencyContact: in.EmergencyContact,
		Address:          in.Address,
		MedicalNotes:     in.MedicalNotes,
		Goals:            in.Goals,
		AssignedTrainer:  in.AssignedTrainer,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if m.Status == "" {
		m.Status = types.MemberStatusActive
	}
	if in.ExpiryDate != nil {
		m.ExpiryDate = *in.ExpiryDate
	} else if in.MembershipType.Valid() {
		m.ExpiryDate = in.MembershipType.ExpiryFrom(in.StartDate)
	}
	if err := validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// applyTo merges the supplied fields into m and returns the changed columns
// keyed by column name.
func (in *UpdateInput) applyTo(m *models.Member) map[string]any {
	changes := map[string]any{}
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
		changes["name"] = m.Name
	}
	if in.Email != nil {
		m.Email = normalizeEmail(*in.Email)
		changes["email"] = m.Email
	}
	if in.Phone != nil {
		m.Phone = strings.TrimSpace(*in.Phone)
		changes["phone"] = m.Phone
	}
	if in.MembershipType != nil {
		m.MembershipType = *in.MembershipType
		changes["membership_type"] = m.MembershipType
	}
	if in.StartDate != nil {
		m.StartDate = *in.StartDate
		changes["start_date"] = m.StartDate
	}
	if in.ExpiryDate != nil {
		m.ExpiryDate = *in.ExpiryDate
		changes["expiry_date"] = m.ExpiryDate
	}
	if in.Status != nil {
		m.Status = *in.Status
		changes["status"] = m.Status
	}
	if in.EmergencyContact != nil {
		m.EmergencyContact = *in.EmergencyContact
		changes["emergency_contact"] = m.EmergencyContact
	}
	if in.Address != nil {
		m.Address = *in.Address
		changes["address"] = m.Address
	}
	if in.MedicalNotes != nil {
		m.MedicalNotes = *in.MedicalNotes
		changes["medical_notes"] = m.MedicalNotes
	}
	if in.Goals != nil {
		m.Goals = *in.Goals
		changes["goals"] = m.Goals
	}
	if in.AssignedTrainer != nil {
		if *in.AssignedTrainer == "" {
			m.AssignedTrainer = nil
		} else {
			v := *in.AssignedTrainer
			m.AssignedTrainer = &v
		}
		changes["assigned_trainer"] = m.AssignedTrainer
	}
	return changes
}

func validate(m *models.Member) error {
	switch {
	case m.Name == "":
		return validationErr("name is required")
	case m.Email == "":
		return validationErr("email is required")
	case m.Phone == "":
		return validationErr("phone is required")
	case !m.MembershipType.Valid():
		return validationErr("unknown membership type %q", m.MembershipType)
	case !m.Status.Valid():
		return validationErr("unknown status %q", m.Status)
	case m.StartDate.IsZero():
		return validationErr("startDate is required")
	case !m.ExpiryDate.After(m.StartDate):
		return validationErr("expiryDate must be after startDate")
	}
	return nil
}
