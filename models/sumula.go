package models

import (
	"time"
)

// The two sumula kinds are deliberately separate model families with
// separate score tables. A PlayerScoreClassificatoria can only ever point
// at a SumulaClassificatoria (same for imortal), so the variant-match
// invariant holds by construction instead of by a nullable dual FK.

// SumulaClassificatoria is a qualifying match sheet. Active starts true
// and flips to false exactly once when the sheet is closed.
type SumulaClassificatoria struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	EventID     string     `json:"event_id" gorm:"not null;index"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	Active      bool       `json:"active" gorm:"default:true"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Referees []Staff                     `json:"referees,omitempty" gorm:"many2many:sumula_classificatoria_referees"`
	Scores   []PlayerScoreClassificatoria `json:"scores,omitempty" gorm:"foreignKey:SumulaID"`
}

// SumulaImortal is the match sheet kind reserved for imortal players.
type SumulaImortal struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	EventID     string     `json:"event_id" gorm:"not null;index"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	Active      bool       `json:"active" gorm:"default:true"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Referees []Staff              `json:"referees,omitempty" gorm:"many2many:sumula_imortal_referees"`
	Scores   []PlayerScoreImortal `json:"scores,omitempty" gorm:"foreignKey:SumulaID"`
}

// PlayerScoreClassificatoria links one player to one classificatória
// sumula. Seeded with zero points at creation; Points is the only field
// that ever changes afterwards.
type PlayerScoreClassificatoria struct {
	ID       string `json:"id" gorm:"primaryKey"`
	EventID  string `json:"event_id" gorm:"not null;index"`
	SumulaID string `json:"sumula_id" gorm:"not null;index:idx_score_c_player_sumula,unique"`
	PlayerID string `json:"player_id" gorm:"not null;index:idx_score_c_player_sumula,unique"`
	Points   int    `json:"points" gorm:"default:0;check:points >= 0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Player Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}

// PlayerScoreImortal is the imortal counterpart of
// PlayerScoreClassificatoria.
type PlayerScoreImortal struct {
	ID       string `json:"id" gorm:"primaryKey"`
	EventID  string `json:"event_id" gorm:"not null;index"`
	SumulaID string `json:"sumula_id" gorm:"not null;index:idx_score_i_player_sumula,unique"`
	PlayerID string `json:"player_id" gorm:"not null;index:idx_score_i_player_sumula,unique"`
	Points   int    `json:"points" gorm:"default:0;check:points >= 0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Player Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}
