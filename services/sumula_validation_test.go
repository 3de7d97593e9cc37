package services

import (
	"testing"

	"sumula-system/apperr"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int    { return &v }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool { return &b }

func TestValidateCreateSumula(t *testing.T) {
	valid := CreateSumulaRequest{
		Name:     "Chave A",
		Players:  []PlayerRef{{ID: "p1", Name: "Ana"}, {ID: "p2", Name: "Bia"}},
		Referees: []StaffRef{{ID: "s1"}},
	}

	tests := []struct {
		name     string
		mutate   func(r *CreateSumulaRequest)
		wantKind apperr.Kind
	}{
		{
			name:   "valid payload passes",
			mutate: func(r *CreateSumulaRequest) {},
		},
		{
			name:   "referees may be empty",
			mutate: func(r *CreateSumulaRequest) { r.Referees = nil },
		},
		{
			name:     "missing name",
			mutate:   func(r *CreateSumulaRequest) { r.Name = "" },
			wantKind: apperr.InvalidPayload,
		},
		{
			name:     "empty player list",
			mutate:   func(r *CreateSumulaRequest) { r.Players = nil },
			wantKind: apperr.InvalidPayload,
		},
		{
			name:     "player entry without id",
			mutate:   func(r *CreateSumulaRequest) { r.Players[0].ID = "" },
			wantKind: apperr.InvalidPayload,
		},
		{
			name:     "referee entry without id",
			mutate:   func(r *CreateSumulaRequest) { r.Referees[0].ID = "" },
			wantKind: apperr.InvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CreateSumulaRequest{
				Name:     valid.Name,
				Players:  append([]PlayerRef(nil), valid.Players...),
				Referees: append([]StaffRef(nil), valid.Referees...),
			}
			tt.mutate(&req)

			err := ValidateCreateSumula(req)
			if tt.wantKind == apperr.Unknown {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.Is(err, tt.wantKind))
		})
	}
}

func TestValidateCloseSumula(t *testing.T) {
	valid := CloseSumulaRequest{
		ID:          "sum-1",
		Name:        "Chave A - final",
		Description: strPtr("Rodada encerrada"),
		Referees:    []StaffRef{{ID: "s1"}},
		PlayersScore: []ScoreEntry{
			{ID: "score-1", Points: intPtr(3)},
			{ID: "score-2", Points: intPtr(0), IsImortal: boolPtr(true)},
		},
	}

	tests := []struct {
		name     string
		mutate   func(r *CloseSumulaRequest)
		wantKind apperr.Kind
	}{
		{
			name:   "valid payload passes",
			mutate: func(r *CloseSumulaRequest) {},
		},
		{
			name:   "zero points accepted",
			mutate: func(r *CloseSumulaRequest) { r.PlayersScore[0].Points = intPtr(0) },
		},
		{
			name:     "missing name",
			mutate:   func(r *CloseSumulaRequest) { r.Name = "" },
			wantKind: apperr.InvalidPayload,
		},
		{
			name:     "missing description",
			mutate:   func(r *CloseSumulaRequest) { r.Description = nil },
			wantKind: apperr.InvalidPayload,
		},
		{
			name:     "missing sumula id",
			mutate:   func(r *CloseSumulaRequest) { r.ID = "" },
			wantKind: apperr.SumulaIDMissing,
		},
		{
			name:     "score entry without id",
			mutate:   func(r *CloseSumulaRequest) { r.PlayersScore[0].ID = "" },
			wantKind: apperr.InvalidPayload,
		},
		{
			name:     "score entry without points",
			mutate:   func(r *CloseSumulaRequest) { r.PlayersScore[1].Points = nil },
			wantKind: apperr.InvalidPayload,
		},
		{
			name:     "negative points rejected",
			mutate:   func(r *CloseSumulaRequest) { r.PlayersScore[0].Points = intPtr(-1) },
			wantKind: apperr.InvalidPayload,
		},
		{
			name:     "referee entry without id",
			mutate:   func(r *CloseSumulaRequest) { r.Referees[0].ID = "" },
			wantKind: apperr.InvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := make([]ScoreEntry, len(valid.PlayersScore))
			copy(scores, valid.PlayersScore)
			req := CloseSumulaRequest{
				ID:           valid.ID,
				Name:         valid.Name,
				Description:  valid.Description,
				Referees:     append([]StaffRef(nil), valid.Referees...),
				PlayersScore: scores,
			}
			tt.mutate(&req)

			err := ValidateCloseSumula(req)
			if tt.wantKind == apperr.Unknown {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.Is(err, tt.wantKind))
		})
	}
}

func TestValidateScoreBatch(t *testing.T) {
	existing := map[string]bool{"score-1": true, "score-2": true}

	t.Run("all entries resolve", func(t *testing.T) {
		entries := []ScoreEntry{
			{ID: "score-1", Points: intPtr(2)},
			{ID: "score-2", Points: intPtr(5)},
		}
		assert.NoError(t, ValidateScoreBatch(entries, existing))
	})

	t.Run("unknown entry fails the whole batch", func(t *testing.T) {
		entries := []ScoreEntry{
			{ID: "score-1", Points: intPtr(2)},
			{ID: "score-9", Points: intPtr(5)},
		}
		err := ValidateScoreBatch(entries, existing)
		assert.True(t, apperr.Is(err, apperr.PlayerScoreNotFound))
	})

	t.Run("empty batch passes", func(t *testing.T) {
		assert.NoError(t, ValidateScoreBatch(nil, existing))
	})
}

func TestValidateAddReferee(t *testing.T) {
	tests := []struct {
		name     string
		req      AddRefereeRequest
		wantKind apperr.Kind
	}{
		{
			name: "valid classificatoria request",
			req:  AddRefereeRequest{SumulaID: "sum-1", IsImortal: boolPtr(false)},
		},
		{
			name: "valid imortal request",
			req:  AddRefereeRequest{SumulaID: "sum-1", IsImortal: boolPtr(true)},
		},
		{
			name:     "missing variant flag",
			req:      AddRefereeRequest{SumulaID: "sum-1"},
			wantKind: apperr.InvalidPayload,
		},
		{
			name:     "missing sumula id",
			req:      AddRefereeRequest{IsImortal: boolPtr(false)},
			wantKind: apperr.SumulaIDMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddReferee(tt.req)
			if tt.wantKind == apperr.Unknown {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.Is(err, tt.wantKind))
		})
	}
}
