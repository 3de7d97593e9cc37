package services

import (
	"errors"
	"log"

	"sumula-system/apperr"
	"sumula-system/middleware"
	"sumula-system/models"
	"sumula-system/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SumulaService struct {
	DB *gorm.DB
}

func NewSumulaService(db *gorm.DB) *SumulaService {
	return &SumulaService{DB: db}
}

// resolveEvent loads the event named by the ?event_id= query parameter.
// Every sumula operation runs inside an event context.
func (s *SumulaService) resolveEvent(c *fiber.Ctx) (*models.Event, error) {
	eventID := c.Query("event_id")
	if eventID == "" {
		return nil, apperr.New(apperr.EventIDMissing)
	}
	var event models.Event
	if err := s.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.EventNotFound)
		}
		return nil, err
	}
	return &event, nil
}

// snapshot gathers the caller's capabilities on the event for the policy
// evaluator: admin email match plus the explicit grant rows.
func (s *SumulaService) snapshot(c *fiber.Ctx, event *models.Event) policy.Snapshot {
	var grants []models.PermissionGrant
	if err := s.DB.Where("user_id = ? AND event_id = ?", middleware.UserID(c), event.ID).
		Find(&grants).Error; err != nil {
		log.Printf("ERROR loading grants for user %s on event %s: %v", middleware.UserID(c), event.ID, err)
	}
	snap := policy.Snapshot{
		UserEmail:       middleware.UserEmail(c),
		EventAdminEmail: event.AdminEmail,
		Grants:          make([]policy.Grant, len(grants)),
	}
	for i, g := range grants {
		snap.Grants[i] = policy.Grant{Resource: g.Resource, Action: g.Action}
	}
	return snap
}

func (s *SumulaService) staffFor(userID, eventID string) (*models.Staff, error) {
	var staff models.Staff
	err := s.DB.Where("user_id = ? AND event_id = ?", userID, eventID).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.StaffNotFound)
		}
		return nil, err
	}
	return &staff, nil
}

// recomputeTotalScore rewrites the player's total as the sum of all their
// score rows within the event, both variants. Must run inside the same
// transaction as the points writes.
func recomputeTotalScore(tx *gorm.DB, playerID string) error {
	var sumC, sumI int64
	if err := tx.Model(&models.PlayerScoreClassificatoria{}).
		Where("player_id = ?", playerID).
		Select("COALESCE(SUM(points), 0)").Scan(&sumC).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.PlayerScoreImortal{}).
		Where("player_id = ?", playerID).
		Select("COALESCE(SUM(points), 0)").Scan(&sumI).Error; err != nil {
		return err
	}
	return tx.Model(&models.Player{}).
		Where("id = ?", playerID).
		Update("total_score", sumC+sumI).Error
}

// resolveStaffRefs loads the staff rows for a referee list, requiring
// every reference to resolve within the event.
func resolveStaffRefs(tx *gorm.DB, eventID string, refs []StaffRef) ([]models.Staff, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	var staff []models.Staff
	if err := tx.Where("event_id = ? AND id IN ?", eventID, ids).Find(&staff).Error; err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(staff))
	for _, st := range staff {
		found[st.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, apperr.New(apperr.StaffNotFound)
		}
	}
	return staff, nil
}

// resolvePlayers loads and checks the roster for a create request. The
// eligibility class of every player must match the variant being created.
func resolvePlayers(tx *gorm.DB, eventID string, refs []PlayerRef, wantImortal bool) ([]models.Player, error) {
	ids := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		if !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	var players []models.Player
	if err := tx.Where("event_id = ? AND id IN ?", eventID, ids).Find(&players).Error; err != nil {
		return nil, err
	}
	if len(players) != len(ids) {
		return nil, apperr.New(apperr.PlayerNotFound)
	}
	for _, p := range players {
		if p.IsImortal != wantImortal {
			return nil, apperr.New(apperr.InvalidPayload)
		}
	}
	return players, nil
}

/* ------------------------- Create ------------------------- */

// CreateClassificatoria creates a sumula plus one zero-point score row per
// player, atomically: an unresolvable player or referee rolls everything
// back.
func (s *SumulaService) CreateClassificatoria(c *fiber.Ctx) error {
	var req CreateSumulaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.New(apperr.InvalidPayload))
	}
	if err := ValidateCreateSumula(req); err != nil {
		return apperr.Respond(c, err)
	}
	event, err := s.resolveEvent(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	snap := s.snapshot(c, event)
	if !policy.Allows(snap, policy.ResourceSumula, policy.ActionCreate) {
		return apperr.Respond(c, apperr.New(apperr.PermissionDenied))
	}

	sumula := models.SumulaClassificatoria{
		ID:      uuid.NewString(),
		EventID: event.ID,
		Name:    req.Name,
		Active:  true,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		players, err := resolvePlayers(tx, event.ID, req.Players, false)
		if err != nil {
			return err
		}
		referees, err := resolveStaffRefs(tx, event.ID, req.Referees)
		if err != nil {
			return err
		}
		if err := tx.Create(&sumula).Error; err != nil {
			return err
		}
		for _, p := range players {
			score := models.PlayerScoreClassificatoria{
				ID:       uuid.NewString(),
				EventID:  event.ID,
				SumulaID: sumula.ID,
				PlayerID: p.ID,
			}
			if err := tx.Create(&score).Error; err != nil {
				return err
			}
		}
		if len(referees) > 0 {
			if err := tx.Model(&sumula).Association("Referees").Append(&referees); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.Respond(c, err)
	}

	if err := s.DB.Preload("Referees").Preload("Scores.Player").
		First(&sumula, "id = ?", sumula.ID).Error; err != nil {
		log.Printf("ERROR refetching sumula %s: %v", sumula.ID, err)
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(SumulaViewClassificatoria(sumula))
}

// CreateImortal mirrors CreateClassificatoria for the imortal family.
func (s *SumulaService) CreateImortal(c *fiber.Ctx) error {
	var req CreateSumulaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.New(apperr.InvalidPayload))
	}
	if err := ValidateCreateSumula(req); err != nil {
		return apperr.Respond(c, err)
	}
	event, err := s.resolveEvent(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	snap := s.snapshot(c, event)
	if !policy.Allows(snap, policy.ResourceSumula, policy.ActionCreate) {
		return apperr.Respond(c, apperr.New(apperr.PermissionDenied))
	}

	sumula := models.SumulaImortal{
		ID:      uuid.NewString(),
		EventID: event.ID,
		Name:    req.Name,
		Active:  true,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		players, err := resolvePlayers(tx, event.ID, req.Players, true)
		if err != nil {
			return err
		}
		referees, err := resolveStaffRefs(tx, event.ID, req.Referees)
		if err != nil {
			return err
		}
		if err := tx.Create(&sumula).Error; err != nil {
			return err
		}
		for _, p := range players {
			score := models.PlayerScoreImortal{
				ID:       uuid.NewString(),
				EventID:  event.ID,
				SumulaID: sumula.ID,
				PlayerID: p.ID,
			}
			if err := tx.Create(&score).Error; err != nil {
				return err
			}
		}
		if len(referees) > 0 {
			if err := tx.Model(&sumula).Association("Referees").Append(&referees); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.Respond(c, err)
	}

	if err := s.DB.Preload("Referees").Preload("Scores.Player").
		First(&sumula, "id = ?", sumula.ID).Error; err != nil {
		log.Printf("ERROR refetching sumula %s: %v", sumula.ID, err)
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(SumulaViewImortal(sumula))
}

/* ----------------------- Update/Close ----------------------- */

// authorizeClose applies the permission gate for update/close: base change
// capability, then, for non-admins, referee membership on this sumula
// and the closed-sumula manager rule.
func (s *SumulaService) authorizeClose(c *fiber.Ctx, event *models.Event, active bool, refereeStaffIDs map[string]bool) error {
	snap := s.snapshot(c, event)
	if !policy.Allows(snap, policy.ResourceSumula, policy.ActionChange) {
		return apperr.New(apperr.PermissionDenied)
	}
	if snap.IsAdmin() {
		return nil
	}
	staff, err := s.staffFor(middleware.UserID(c), event.ID)
	if err != nil {
		return err
	}
	if !refereeStaffIDs[staff.ID] {
		return apperr.New(apperr.NotSumulaReferee)
	}
	if !policy.CanEditSumula(snap, active, &policy.StaffInfo{IsManager: staff.IsManager}) {
		return apperr.New(apperr.SumulaClosed)
	}
	return nil
}

// CloseClassificatoria saves the score sheet and marks the sumula as
// closed. All four effects (name/description, referee replacement, points,
// active=false) land in one transaction or not at all; the whole batch is
// validated before the first write. Score entries may carry is_imortal to
// reclassify non-qualifying players for the rest of the event.
func (s *SumulaService) CloseClassificatoria(c *fiber.Ctx) error {
	var req CloseSumulaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.New(apperr.InvalidPayload))
	}
	if err := ValidateCloseSumula(req); err != nil {
		return apperr.Respond(c, err)
	}

	var sumula models.SumulaClassificatoria
	if err := s.DB.Preload("Referees").First(&sumula, "id = ?", req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Respond(c, apperr.New(apperr.SumulaNotFound))
		}
		return apperr.Respond(c, err)
	}
	event, err := s.resolveEvent(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if sumula.EventID != event.ID {
		return apperr.Respond(c, apperr.New(apperr.SumulaNotFound))
	}

	refereeIDs := make(map[string]bool, len(sumula.Referees))
	for _, st := range sumula.Referees {
		refereeIDs[st.ID] = true
	}
	if err := s.authorizeClose(c, event, sumula.Active, refereeIDs); err != nil {
		return apperr.Respond(c, err)
	}

	// Resolve the full batch before any mutation.
	var existing []models.PlayerScoreClassificatoria
	if err := s.DB.Where("sumula_id = ?", sumula.ID).Find(&existing).Error; err != nil {
		return apperr.Respond(c, err)
	}
	scoreOwner := make(map[string]string, len(existing))
	known := make(map[string]bool, len(existing))
	for _, sc := range existing {
		known[sc.ID] = true
		scoreOwner[sc.ID] = sc.PlayerID
	}
	if err := ValidateScoreBatch(req.PlayersScore, known); err != nil {
		return apperr.Respond(c, err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		referees, err := resolveStaffRefs(tx, event.ID, req.Referees)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"name":        req.Name,
			"description": *req.Description,
			"active":      false,
		}
		if err := tx.Model(&sumula).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&sumula).Association("Referees").Replace(&referees); err != nil {
			return err
		}
		affected := make(map[string]bool, len(req.PlayersScore))
		for _, e := range req.PlayersScore {
			if err := tx.Model(&models.PlayerScoreClassificatoria{}).
				Where("id = ?", e.ID).
				Update("points", *e.Points).Error; err != nil {
				return err
			}
			playerID := scoreOwner[e.ID]
			affected[playerID] = true
			if e.IsImortal != nil {
				if err := tx.Model(&models.Player{}).
					Where("id = ?", playerID).
					Update("is_imortal", *e.IsImortal).Error; err != nil {
					return err
				}
			}
		}
		for playerID := range affected {
			if err := recomputeTotalScore(tx, playerID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR closing sumula %s: %v", sumula.ID, err)
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// CloseImortal is the imortal counterpart of CloseClassificatoria; the
// is_imortal reclassification flag does not apply here.
func (s *SumulaService) CloseImortal(c *fiber.Ctx) error {
	var req CloseSumulaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.New(apperr.InvalidPayload))
	}
	if err := ValidateCloseSumula(req); err != nil {
		return apperr.Respond(c, err)
	}

	var sumula models.SumulaImortal
	if err := s.DB.Preload("Referees").First(&sumula, "id = ?", req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Respond(c, apperr.New(apperr.SumulaNotFound))
		}
		return apperr.Respond(c, err)
	}
	event, err := s.resolveEvent(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if sumula.EventID != event.ID {
		return apperr.Respond(c, apperr.New(apperr.SumulaNotFound))
	}

	refereeIDs := make(map[string]bool, len(sumula.Referees))
	for _, st := range sumula.Referees {
		refereeIDs[st.ID] = true
	}
	if err := s.authorizeClose(c, event, sumula.Active, refereeIDs); err != nil {
		return apperr.Respond(c, err)
	}

	var existing []models.PlayerScoreImortal
	if err := s.DB.Where("sumula_id = ?", sumula.ID).Find(&existing).Error; err != nil {
		return apperr.Respond(c, err)
	}
	scoreOwner := make(map[string]string, len(existing))
	known := make(map[string]bool, len(existing))
	for _, sc := range existing {
		known[sc.ID] = true
		scoreOwner[sc.ID] = sc.PlayerID
	}
	if err := ValidateScoreBatch(req.PlayersScore, known); err != nil {
		return apperr.Respond(c, err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		referees, err := resolveStaffRefs(tx, event.ID, req.Referees)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"name":        req.Name,
			"description": *req.Description,
			"active":      false,
		}
		if err := tx.Model(&sumula).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&sumula).Association("Referees").Replace(&referees); err != nil {
			return err
		}
		affected := make(map[string]bool, len(req.PlayersScore))
		for _, e := range req.PlayersScore {
			if err := tx.Model(&models.PlayerScoreImortal{}).
				Where("id = ?", e.ID).
				Update("points", *e.Points).Error; err != nil {
				return err
			}
			affected[scoreOwner[e.ID]] = true
		}
		for playerID := range affected {
			if err := recomputeTotalScore(tx, playerID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR closing sumula %s: %v", sumula.ID, err)
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

/* ----------------------- AddReferee ----------------------- */

// AddReferee lets a monitor claim an unrefereed sumula for themselves.
// The zero-referee check runs under a row lock so two concurrent claims
// serialize: exactly one wins, the other gets the conflict error.
func (s *SumulaService) AddReferee(c *fiber.Ctx) error {
	var req AddRefereeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.New(apperr.InvalidPayload))
	}
	if err := ValidateAddReferee(req); err != nil {
		return apperr.Respond(c, err)
	}
	event, err := s.resolveEvent(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	snap := s.snapshot(c, event)
	if !policy.Allows(snap, policy.ResourceSumula, policy.ActionChange) {
		return apperr.Respond(c, apperr.New(apperr.PermissionDenied))
	}
	// Self-service only: the requester must hold a staff record, admins
	// without one cannot claim a sumula either.
	staff, err := s.staffFor(middleware.UserID(c), event.ID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if *req.IsImortal {
			var sumula models.SumulaImortal
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&sumula, "id = ?", req.SumulaID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.SumulaNotFound)
				}
				return err
			}
			if sumula.EventID != event.ID {
				return apperr.New(apperr.SumulaNotFound)
			}
			if tx.Model(&sumula).Association("Referees").Count() > 0 {
				return apperr.New(apperr.RefereeConflict)
			}
			return tx.Model(&sumula).Association("Referees").Append(staff)
		}
		var sumula models.SumulaClassificatoria
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sumula, "id = ?", req.SumulaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.SumulaNotFound)
			}
			return err
		}
		if sumula.EventID != event.ID {
			return apperr.New(apperr.SumulaNotFound)
		}
		if tx.Model(&sumula).Association("Referees").Count() > 0 {
			return apperr.New(apperr.RefereeConflict)
		}
		return tx.Model(&sumula).Association("Referees").Append(staff)
	})
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

/* ------------------------- Queries ------------------------- */

func (s *SumulaService) listSumulas(c *fiber.Ctx, active *bool) error {
	event, err := s.resolveEvent(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	snap := s.snapshot(c, event)
	if !policy.Allows(snap, policy.ResourceSumula, policy.ActionView) {
		return apperr.Respond(c, apperr.New(apperr.PermissionDenied))
	}

	queryC := s.DB.Preload("Referees").Preload("Scores.Player").Where("event_id = ?", event.ID)
	queryI := s.DB.Preload("Referees").Preload("Scores.Player").Where("event_id = ?", event.ID)
	if active != nil {
		queryC = queryC.Where("active = ?", *active)
		queryI = queryI.Where("active = ?", *active)
	}

	var sumulasC []models.SumulaClassificatoria
	if err := queryC.Find(&sumulasC).Error; err != nil {
		log.Printf("ERROR fetching classificatoria sumulas for event %s: %v", event.ID, err)
		return apperr.Respond(c, err)
	}
	var sumulasI []models.SumulaImortal
	if err := queryI.Find(&sumulasI).Error; err != nil {
		log.Printf("ERROR fetching imortal sumulas for event %s: %v", event.ID, err)
		return apperr.Respond(c, err)
	}

	resp := SumulaListResponse{
		SumulaClassificatoria: make([]SumulaView, len(sumulasC)),
		SumulaImortal:         make([]SumulaView, len(sumulasI)),
	}
	for i, sm := range sumulasC {
		resp.SumulaClassificatoria[i] = SumulaViewClassificatoria(sm)
	}
	for i, sm := range sumulasI {
		resp.SumulaImortal[i] = SumulaViewImortal(sm)
	}
	return c.JSON(resp)
}

// GetSumulas returns every sumula of the event, both variants.
func (s *SumulaService) GetSumulas(c *fiber.Ctx) error {
	return s.listSumulas(c, nil)
}

// GetActiveSumulas returns only the open sumulas.
func (s *SumulaService) GetActiveSumulas(c *fiber.Ctx) error {
	active := true
	return s.listSumulas(c, &active)
}

// GetFinishedSumulas returns only the closed sumulas.
func (s *SumulaService) GetFinishedSumulas(c *fiber.Ctx) error {
	active := false
	return s.listSumulas(c, &active)
}

/* ----------------------- Player view ----------------------- */

// GetSumulasForPlayer returns the caller's active sumulas in the reduced
// player shape. The variant follows the player's eligibility class, and
// no points are ever included. A player with no active sumula gets a
// domain not-found, not an empty list.
func (s *SumulaService) GetSumulasForPlayer(c *fiber.Ctx) error {
	event, err := s.resolveEvent(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	snap := s.snapshot(c, event)
	if !policy.Allows(snap, policy.ResourceEvent, policy.ActionView) {
		return apperr.Respond(c, apperr.New(apperr.PermissionDenied))
	}

	var player models.Player
	if err := s.DB.Where("user_id = ? AND event_id = ?", middleware.UserID(c), event.ID).
		First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Respond(c, apperr.New(apperr.PlayerNotFound))
		}
		return apperr.Respond(c, err)
	}

	if player.IsImortal {
		var scores []models.PlayerScoreImortal
		if err := s.DB.Where("player_id = ?", player.ID).Find(&scores).Error; err != nil {
			return apperr.Respond(c, err)
		}
		sumulaIDs := make([]string, len(scores))
		for i, sc := range scores {
			sumulaIDs[i] = sc.SumulaID
		}
		var sumulas []models.SumulaImortal
		if len(sumulaIDs) > 0 {
			if err := s.DB.Preload("Referees").
				Where("id IN ? AND active = ?", sumulaIDs, true).
				Find(&sumulas).Error; err != nil {
				return apperr.Respond(c, err)
			}
		}
		if len(sumulas) == 0 {
			return apperr.Respond(c, apperr.New(apperr.NoActiveSumula))
		}
		views := make([]SumulaPlayerView, len(sumulas))
		for i, sm := range sumulas {
			views[i] = PlayerViewImortal(sm)
		}
		return c.JSON(views)
	}

	var scores []models.PlayerScoreClassificatoria
	if err := s.DB.Where("player_id = ?", player.ID).Find(&scores).Error; err != nil {
		return apperr.Respond(c, err)
	}
	sumulaIDs := make([]string, len(scores))
	for i, sc := range scores {
		sumulaIDs[i] = sc.SumulaID
	}
	var sumulas []models.SumulaClassificatoria
	if len(sumulaIDs) > 0 {
		if err := s.DB.Preload("Referees").Preload("Scores.Player").
			Where("id IN ? AND active = ?", sumulaIDs, true).
			Find(&sumulas).Error; err != nil {
			return apperr.Respond(c, err)
		}
	}
	if len(sumulas) == 0 {
		return apperr.Respond(c, apperr.New(apperr.NoActiveSumula))
	}
	views := make([]SumulaPlayerView, len(sumulas))
	for i, sm := range sumulas {
		views[i] = PlayerViewClassificatoria(sm)
	}
	return c.JSON(views)
}
