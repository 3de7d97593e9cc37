package services

import (
	"strings"

	"sumula-system/apperr"
	"sumula-system/middleware"
	"sumula-system/models"
	"sumula-system/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

// foldName normalizes a name for matching: NFC first so composed and
// decomposed accents compare equal, then ASCII transliteration and
// lowercasing. Domain names are Portuguese, "João" must match "joao".
func foldName(s string) string {
	return strings.ToLower(unidecode.Unidecode(norm.NFC.String(strings.TrimSpace(s))))
}

// ListPlayers returns the event's players for staff, optionally filtered
// by an accent-insensitive ?q= substring over name and registration email.
func (s *PlayerService) ListPlayers(c *fiber.Ctx) error {
	eventID := c.Query("event_id")
	if eventID == "" {
		return apperr.Respond(c, apperr.New(apperr.EventIDMissing))
	}
	var event models.Event
	if err := s.DB.First(&event, "id = ?", eventID).Error; err != nil {
		return apperr.Respond(c, apperr.New(apperr.EventNotFound))
	}

	var grants []models.PermissionGrant
	s.DB.Where("user_id = ? AND event_id = ?", middleware.UserID(c), event.ID).Find(&grants)
	snap := policy.Snapshot{
		UserEmail:       middleware.UserEmail(c),
		EventAdminEmail: event.AdminEmail,
		Grants:          make([]policy.Grant, len(grants)),
	}
	for i, g := range grants {
		snap.Grants[i] = policy.Grant{Resource: g.Resource, Action: g.Action}
	}
	if !policy.Allows(snap, policy.ResourcePlayer, policy.ActionView) {
		return apperr.Respond(c, apperr.New(apperr.PermissionDenied))
	}

	var players []models.Player
	if err := s.DB.Where("event_id = ?", event.ID).Find(&players).Error; err != nil {
		return apperr.Respond(c, err)
	}

	query := foldName(c.Query("q"))
	if query != "" {
		filtered := players[:0]
		for _, p := range players {
			haystack := foldName(p.FirstName+" "+p.LastName) + " " + foldName(p.RegistrationEmail)
			if strings.Contains(haystack, query) {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}

	views := make([]PlayerView, len(players))
	for i, p := range players {
		views[i] = playerView(p)
	}
	return c.JSON(views)
}
