package models

import (
	"time"
)

// Event is the root entity. Everything else (staff, players, sumulas,
// grants, token) hangs off an event and is removed with it.
type Event struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	AdminEmail string    `json:"admin_email" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Token                 *Token                  `json:"token,omitempty" gorm:"foreignKey:EventID"`
	Staff                 []Staff                 `json:"staff,omitempty" gorm:"foreignKey:EventID"`
	Players               []Player                `json:"players,omitempty" gorm:"foreignKey:EventID"`
	SumulasClassificatoria []SumulaClassificatoria `json:"sumulas_classificatoria,omitempty" gorm:"foreignKey:EventID"`
	SumulasImortal         []SumulaImortal         `json:"sumulas_imortal,omitempty" gorm:"foreignKey:EventID"`
}

// Token is the opaque per-event credential consumed by the gateway's
// auth flow. Only the code is ever exposed.
type Token struct {
	ID        string    `json:"-" gorm:"primaryKey"`
	EventID   string    `json:"-" gorm:"uniqueIndex;not null"`
	Code      string    `json:"token_code" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"-" gorm:"autoUpdateTime"`
}
