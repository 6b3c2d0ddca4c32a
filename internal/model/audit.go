package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionStatusChange = "STATUS_CHANGE"
	ActionBatchUpdate  = "BATCH_UPDATE"
	ActionApprove      = "APPROVE"
	ActionLogin        = "LOGIN"
)

const (
	EntitySale       = "SALE"
	EntityCommission = "COMMISSION"
	EntityMarketing  = "MARKETING"
	EntityUser       = "USER"
)

// FieldDiff is one changed field of an audited entity.
type FieldDiff struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// AuditLog tracks who changed what, and when
type AuditLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      *uuid.UUID     `gorm:"type:uuid;index" json:"user_id"` // nil for system actions
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action      string         `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType  string         `gorm:"type:varchar(30);not null;index" json:"entity_type"`
	EntityID    string         `gorm:"type:varchar(50);index" json:"entity_id"`
	Changes     datatypes.JSON `gorm:"type:jsonb" json:"changes"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}
