package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/tristarfitness/backend/pkg/types"
)

// ActivityLog is append-only. Rows are never updated or deleted.
type ActivityLog struct {
	ID          string             `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Type        types.ActivityType `gorm:"column:type;type:varchar(32);not null;index;check:chk_activity_logs_type,type IN ('member','visitor','trainer','invoice','followup')" json:"type"`
	Action      string             `gorm:"column:action;type:varchar(128);not null" json:"action"`
	SubjectName string             `gorm:"column:subject_name;type:varchar(128);not null" json:"subject_name"`
	Timestamp   time.Time          `gorm:"column:timestamp;not null;index" json:"timestamp"`
	// MemberID is nil for entries not tied to a live member, e.g. deletions.
	MemberID *string `gorm:"column:member_id;type:varchar(64);index" json:"member_id"`
	Details  string  `gorm:"column:details;type:text" json:"details"`
	// Actor is the subject id of the authenticated caller, empty for system entries.
	Actor     string            `gorm:"column:actor;type:varchar(64)" json:"actor"`
	Extra     datatypes.JSONMap `gorm:"column:extra" json:"extra"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
