package models

import (
	"time"

	"github.com/tristarfitness/backend/pkg/types"
)

// StaffUser is a login account for gym staff. Members do not log in.
type StaffUser struct {
	ID           string     `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Email        string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	Name         string     `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Role         types.Role `gorm:"column:role;type:varchar(32);not null;check:chk_staff_users_role,role IN ('owner','manager','trainer','staff')" json:"role"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(128);not null" json:"-"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (StaffUser) TableName() string { return "staff_users" }
