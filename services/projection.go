package services

import (
	"sumula-system/models"
)

// Response projections. Staff views carry the full score sheet; player
// views never expose a points field; players must not be able to infer
// standings while a sumula is still active.

type UserView struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type PlayerView struct {
	ID                string   `json:"id"`
	TotalScore        int      `json:"total_score"`
	RegistrationEmail string   `json:"registration_email"`
	Event             string   `json:"event"`
	User              UserView `json:"user"`
}

type ScoreView struct {
	ID     string     `json:"id"`
	Points int        `json:"points"`
	Player PlayerView `json:"player"`
}

type SumulaView struct {
	ID           string      `json:"id"`
	Active       bool        `json:"active"`
	Referee      []UserView  `json:"referee"`
	Name         string      `json:"name"`
	PlayersScore []ScoreView `json:"players_score"`
}

type SumulaListResponse struct {
	SumulaClassificatoria []SumulaView `json:"sumula_classificatoria"`
	SumulaImortal         []SumulaView `json:"sumula_imortal"`
}

type RosterEntryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SumulaPlayerView is the reduced, player-facing shape. The roster is
// present for classificatória sumulas only; imortal membership itself
// would leak standings, so the imortal view omits it.
type SumulaPlayerView struct {
	ID      string            `json:"id"`
	Active  bool              `json:"active"`
	Referee []UserView        `json:"referee"`
	Name    string            `json:"name"`
	Players []RosterEntryView `json:"players,omitempty"`
}

func refereeViews(staff []models.Staff) []UserView {
	views := make([]UserView, len(staff))
	for i, st := range staff {
		views[i] = UserView{ID: st.UserID, FirstName: st.FirstName, LastName: st.LastName}
	}
	return views
}

func playerView(p models.Player) PlayerView {
	return PlayerView{
		ID:                p.ID,
		TotalScore:        p.TotalScore,
		RegistrationEmail: p.RegistrationEmail,
		Event:             p.EventID,
		User:              UserView{ID: p.UserID, FirstName: p.FirstName, LastName: p.LastName},
	}
}

func SumulaViewClassificatoria(s models.SumulaClassificatoria) SumulaView {
	scores := make([]ScoreView, len(s.Scores))
	for i, sc := range s.Scores {
		scores[i] = ScoreView{ID: sc.ID, Points: sc.Points, Player: playerView(sc.Player)}
	}
	return SumulaView{
		ID:           s.ID,
		Active:       s.Active,
		Referee:      refereeViews(s.Referees),
		Name:         s.Name,
		PlayersScore: scores,
	}
}

func SumulaViewImortal(s models.SumulaImortal) SumulaView {
	scores := make([]ScoreView, len(s.Scores))
	for i, sc := range s.Scores {
		scores[i] = ScoreView{ID: sc.ID, Points: sc.Points, Player: playerView(sc.Player)}
	}
	return SumulaView{
		ID:           s.ID,
		Active:       s.Active,
		Referee:      refereeViews(s.Referees),
		Name:         s.Name,
		PlayersScore: scores,
	}
}

func PlayerViewClassificatoria(s models.SumulaClassificatoria) SumulaPlayerView {
	roster := make([]RosterEntryView, len(s.Scores))
	for i, sc := range s.Scores {
		roster[i] = RosterEntryView{
			ID:   sc.Player.ID,
			Name: sc.Player.FirstName + " " + sc.Player.LastName,
		}
	}
	return SumulaPlayerView{
		ID:      s.ID,
		Active:  s.Active,
		Referee: refereeViews(s.Referees),
		Name:    s.Name,
		Players: roster,
	}
}

func PlayerViewImortal(s models.SumulaImortal) SumulaPlayerView {
	return SumulaPlayerView{
		ID:      s.ID,
		Active:  s.Active,
		Referee: refereeViews(s.Referees),
		Name:    s.Name,
	}
}
