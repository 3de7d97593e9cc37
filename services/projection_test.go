package services

import (
	"encoding/json"
	"testing"

	"sumula-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleClassificatoria() models.SumulaClassificatoria {
	return models.SumulaClassificatoria{
		ID:     "sum-c1",
		Name:   "Chave A",
		Active: true,
		Referees: []models.Staff{
			{ID: "staff-1", UserID: "user-9", FirstName: "Rui", LastName: "Costa"},
		},
		Scores: []models.PlayerScoreClassificatoria{
			{
				ID:     "score-1",
				Points: 7,
				Player: models.Player{
					ID: "player-1", UserID: "user-1", EventID: "event-1",
					FirstName: "Ana", LastName: "Souza",
					RegistrationEmail: "ana@exemplo.com", TotalScore: 12,
				},
			},
			{
				ID:     "score-2",
				Points: 0,
				Player: models.Player{
					ID: "player-2", UserID: "user-2", EventID: "event-1",
					FirstName: "Bia", LastName: "Lima",
					RegistrationEmail: "bia@exemplo.com", TotalScore: 0,
				},
			},
		},
	}
}

func TestSumulaViewClassificatoria(t *testing.T) {
	view := SumulaViewClassificatoria(sampleClassificatoria())

	assert.Equal(t, "sum-c1", view.ID)
	assert.True(t, view.Active)
	assert.Equal(t, "Chave A", view.Name)

	require.Len(t, view.Referee, 1)
	assert.Equal(t, UserView{ID: "user-9", FirstName: "Rui", LastName: "Costa"}, view.Referee[0])

	require.Len(t, view.PlayersScore, 2)
	assert.Equal(t, 7, view.PlayersScore[0].Points)
	assert.Equal(t, "player-1", view.PlayersScore[0].Player.ID)
	assert.Equal(t, 12, view.PlayersScore[0].Player.TotalScore)
	assert.Equal(t, "event-1", view.PlayersScore[0].Player.Event)
	assert.Equal(t, "Ana", view.PlayersScore[0].Player.User.FirstName)
}

func TestSumulaViewImortal(t *testing.T) {
	view := SumulaViewImortal(models.SumulaImortal{
		ID:     "sum-i1",
		Name:   "Imortal 1",
		Active: false,
		Scores: []models.PlayerScoreImortal{
			{ID: "score-9", Points: 4, Player: models.Player{ID: "player-9", UserID: "user-9"}},
		},
	})

	assert.Equal(t, "sum-i1", view.ID)
	assert.False(t, view.Active)
	require.Len(t, view.PlayersScore, 1)
	assert.Equal(t, 4, view.PlayersScore[0].Points)
	assert.Empty(t, view.Referee)
}

func TestPlayerViewClassificatoria(t *testing.T) {
	view := PlayerViewClassificatoria(sampleClassificatoria())

	assert.Equal(t, "sum-c1", view.ID)
	require.Len(t, view.Players, 2)
	assert.Equal(t, RosterEntryView{ID: "player-1", Name: "Ana Souza"}, view.Players[0])
	assert.Equal(t, RosterEntryView{ID: "player-2", Name: "Bia Lima"}, view.Players[1])

	body, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "points")
	assert.NotContains(t, string(body), "total_score")
}

func TestPlayerViewImortalOmitsRoster(t *testing.T) {
	view := PlayerViewImortal(models.SumulaImortal{
		ID:     "sum-i1",
		Name:   "Imortal 1",
		Active: true,
		Scores: []models.PlayerScoreImortal{
			{ID: "score-9", Points: 4, Player: models.Player{ID: "player-9"}},
		},
	})

	assert.Nil(t, view.Players)

	body, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "players")
	assert.NotContains(t, string(body), "points")
}
