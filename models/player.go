package models

import (
	"time"
)

// Player is a user registered to one event. TotalScore is derived state:
// it is recomputed from the player's score rows inside every transaction
// that writes points, never incremented in memory.
type Player struct {
	ID                string `json:"id" gorm:"primaryKey"`
	UserID            string `json:"user_id" gorm:"not null;index:idx_player_user_event,unique"`
	EventID           string `json:"event_id" gorm:"not null;index:idx_player_user_event,unique"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	RegistrationEmail string `json:"registration_email" gorm:"not null"`
	TotalScore        int    `json:"total_score" gorm:"default:0"`
	IsImortal         bool   `json:"is_imortal" gorm:"default:false"`
	IsPresent         bool   `json:"is_present" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
