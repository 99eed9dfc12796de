package models

import (
	"time"

	"github.com/tristarfitness/backend/pkg/types"
)

// Member is the durable member row. Email and phone are unique; the check
// constraints mirror the vocabularies in pkg/types.
type Member struct {
	ID             string               `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Name           string               `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Email          string               `gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_members_email" json:"email"`
	Phone          string               `gorm:"column:phone;type:varchar(64);not null;uniqueIndex:idx_members_phone" json:"phone"`
	MembershipType types.MembershipType `gorm:"column:membership_type;type:varchar(32);not null;check:chk_members_membership_type,membership_type IN ('monthly','quarterly','annual')" json:"membership_type"`
	StartDate      time.Time            `gorm:"column:start_date;not null" json:"start_date"`
	ExpiryDate     time.Time            `gorm:"column:expiry_date;not null;check:chk_members_period,expiry_date > start_date" json:"expiry_date"`
	Status         types.MemberStatus   `gorm:"column:status;type:varchar(32);not null;default:active;index;check:chk_members_status,status IN ('active','expired','pending','suspended')" json:"status"`
	TotalVisits    int                  `gorm:"column:total_visits;not null;default:0;check:chk_members_total_visits,total_visits >= 0" json:"total_visits"`
	LastVisit      *time.Time           `gorm:"column:last_visit" json:"last_visit"`
	// EmergencyContact is free text, typically "name, phone".
	EmergencyContact string `gorm:"column:emergency_contact;type:varchar(255)" json:"emergency_contact"`
	Address          string `gorm:"column:address;type:text" json:"address"`
	MedicalNotes     string `gorm:"column:medical_notes;type:text" json:"medical_notes"`
	Goals            string `gorm:"column:goals;type:text" json:"goals"`
	// AssignedTrainer is a weak reference: a trainer lookup key, not a foreign key.
	AssignedTrainer *string   `gorm:"column:assigned_trainer;type:varchar(64);index" json:"assigned_trainer"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Member) TableName() string { return "members" }

// IsExpired reports whether the membership period has ended at now. It does
// not look at Status, which only explicit writers change.
func (m *Member) IsExpired(now time.Time) bool {
	return m.ExpiryDate.Before(now)
}

// DaysUntilExpiry is negative once the membership has lapsed.
func (m *Member) DaysUntilExpiry(now time.Time) int {
	return int(m.ExpiryDate.Sub(now).Hours() / 24)
}
