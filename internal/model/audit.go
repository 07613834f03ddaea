package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionCreateVehicleRequest = "CREATE_VEHICLE_REQUEST"
	ActionApproveLevel         = "APPROVE_LEVEL"
	ActionRejectLevel          = "REJECT_LEVEL"
	ActionDeleteVehicleRequest = "DELETE_VEHICLE_REQUEST"
)

// AuditLog tracks Who, What, and When for approval chain changes
type AuditLog struct {
	ID         uuid.UUID      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     *uint          `gorm:"index" json:"user_id"` // nil for public submissions
	User       *User          `gorm:"foreignKey:UserID" json:"user"`
	Action     string         `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string         `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string         `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // ticket number
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns the primary key on the application side so the table
// works on both postgres and mysql.
func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
