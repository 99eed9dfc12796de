package models

import (
	"time"

	"github.com/tristarfitness/backend/pkg/types"
)

type Invoice struct {
	ID       string `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	MemberID string `gorm:"column:member_id;type:varchar(64);not null;index" json:"member_id"`
	// MemberName is copied at creation so the invoice survives a member rename or delete.
	MemberName  string              `gorm:"column:member_name;type:varchar(128);not null" json:"member_name"`
	Amount      int64               `gorm:"column:amount;not null;check:chk_invoices_amount,amount > 0" json:"amount"`
	Currency    string              `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Description string              `gorm:"column:description;type:text" json:"description"`
	Status      types.InvoiceStatus `gorm:"column:status;type:varchar(32);not null;index;check:chk_invoices_status,status IN ('pending','paid','overdue','cancelled')" json:"status"`
	DueDate     time.Time           `gorm:"column:due_date;not null" json:"due_date"`
	PaidAt      *time.Time          `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt   time.Time           `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"column:updated_at" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }
