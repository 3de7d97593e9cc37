package models

import (
	"time"
)

// Staff is a user acting inside one event. Identity data is denormalized
// from the profile service at association time (same pattern as player).
// IsManager marks elevated staff allowed to edit closed sumulas.
type Staff struct {
	ID        string `json:"id" gorm:"primaryKey"`
	UserID    string `json:"user_id" gorm:"not null;index:idx_staff_user_event,unique"`
	EventID   string `json:"event_id" gorm:"not null;index:idx_staff_user_event,unique"`
	Email     string `json:"email" gorm:"not null"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsManager bool   `json:"is_manager" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// PermissionGrant is one row of the explicit policy table: user X may
// perform Action on Resource within Event. The event admin needs no rows
// here, admin-by-email always wins in the evaluator.
type PermissionGrant struct {
	ID       string `json:"id" gorm:"primaryKey"`
	UserID   string `json:"user_id" gorm:"not null;index:idx_grant_lookup"`
	EventID  string `json:"event_id" gorm:"not null;index:idx_grant_lookup"`
	Resource string `json:"resource" gorm:"not null"` // sumula | player | event
	Action   string `json:"action" gorm:"not null"`   // create | view | change | delete

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
