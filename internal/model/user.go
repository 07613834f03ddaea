package model

import (
	"time"
)

// Roles. The chain roles are bound to approval levels in package approval.
const (
	RoleUser           = "user"
	RoleAdmin          = "admin"
	RoleSuperadmin     = "superadmin"
	RoleHeadDepartemen = "head_departemen"
	RoleGATransport    = "ga_transport"
	RoleGeneralAffair  = "general_affair"
	RoleGeneralService = "general_service"
)

// Department groups users and requests. Only its name is needed by the
// approval flow.
type Department struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// User represents an intranet account. Approvers are matched by Role and,
// for department scoped levels, DepartmentID.
type User struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	Username       string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password       string      `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash
	FullName       string      `gorm:"type:varchar(100);not null" json:"full_name"`
	Email          string      `gorm:"type:varchar(100);index" json:"email"`
	Phone          string      `gorm:"type:varchar(20)" json:"phone"`
	Role           string      `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	DepartmentID   *uint       `gorm:"index" json:"department_id"`
	Department     *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	TelegramChatID *string     `gorm:"type:varchar(50)" json:"telegram_chat_id"`
	IsActive       bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// TelegramSubscriber is a chat that talked to the bot. Linking a NIK lets the
// requester receive ticket receipts without an intranet account.
type TelegramSubscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"chat_id"`
	NIK       *string   `gorm:"column:nik;type:varchar(20);index" json:"nik"`
	Name      string    `gorm:"type:varchar(100)" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
