package services

import (
	"sumula-system/apperr"
)

// Request shapes shared by both sumula variants. Pointer fields exist
// where "key absent" and "zero value" must be told apart.

type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StaffRef struct {
	ID string `json:"id"`
}

type CreateSumulaRequest struct {
	Name     string      `json:"name"`
	Players  []PlayerRef `json:"players"`
	Referees []StaffRef  `json:"referees"`
}

type ScoreEntry struct {
	ID     string `json:"id"`
	Points *int   `json:"points"`
	// Only meaningful when closing a classificatória sumula: players not
	// qualifying are flagged imortal for the rest of the event.
	IsImortal *bool `json:"is_imortal,omitempty"`
}

type CloseSumulaRequest struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  *string      `json:"description"`
	Referees     []StaffRef   `json:"referee"`
	PlayersScore []ScoreEntry `json:"players_score"`
}

type AddRefereeRequest struct {
	SumulaID  string `json:"sumula_id"`
	IsImortal *bool  `json:"is_imortal"`
}

// ValidateCreateSumula rejects a create payload before anything touches
// the store: name required, players non-empty with resolvable-looking ids,
// referee entries (optional) must carry ids.
func ValidateCreateSumula(req CreateSumulaRequest) error {
	if req.Name == "" {
		return apperr.New(apperr.InvalidPayload)
	}
	if len(req.Players) == 0 {
		return apperr.New(apperr.InvalidPayload)
	}
	for _, p := range req.Players {
		if p.ID == "" {
			return apperr.New(apperr.InvalidPayload)
		}
	}
	for _, r := range req.Referees {
		if r.ID == "" {
			return apperr.New(apperr.InvalidPayload)
		}
	}
	return nil
}

// ValidateCloseSumula checks the update/close payload shape. The id, name
// and description fields are all required; every score entry must carry
// its own id and a non-negative points value.
func ValidateCloseSumula(req CloseSumulaRequest) error {
	if req.Name == "" || req.Description == nil {
		return apperr.New(apperr.InvalidPayload)
	}
	if req.ID == "" {
		return apperr.New(apperr.SumulaIDMissing)
	}
	for _, e := range req.PlayersScore {
		if e.ID == "" {
			return apperr.New(apperr.InvalidPayload)
		}
		if e.Points == nil || *e.Points < 0 {
			return apperr.New(apperr.InvalidPayload)
		}
	}
	for _, r := range req.Referees {
		if r.ID == "" {
			return apperr.New(apperr.InvalidPayload)
		}
	}
	return nil
}

// ValidateScoreBatch resolves every score entry against the sumula's
// existing score rows. Any miss invalidates the whole batch, nothing may
// be written after a partial check.
func ValidateScoreBatch(entries []ScoreEntry, existing map[string]bool) error {
	for _, e := range entries {
		if !existing[e.ID] {
			return apperr.New(apperr.PlayerScoreNotFound)
		}
	}
	return nil
}

// ValidateAddReferee requires both the sumula id and the variant flag.
func ValidateAddReferee(req AddRefereeRequest) error {
	if req.IsImortal == nil {
		return apperr.New(apperr.InvalidPayload)
	}
	if req.SumulaID == "" {
		return apperr.New(apperr.SumulaIDMissing)
	}
	return nil
}
