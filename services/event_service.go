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
)

type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

func (s *EventService) resolveEvent(c *fiber.Ctx) (*models.Event, error) {
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

// GetEvent returns the event's public fields.
func (s *EventService) GetEvent(c *fiber.Ctx) error {
	event, err := s.resolveEvent(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"id": event.ID, "name": event.Name})
}

// DeleteEvent removes an event and everything it owns. Children are
// deleted in dependency order inside one transaction: score rows, referee
// join rows, sumulas, players, staff, grants, token, event. Admin only.
func (s *EventService) DeleteEvent(c *fiber.Ctx) error {
	event, err := s.resolveEvent(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	snap := policy.Snapshot{
		UserEmail:       middleware.UserEmail(c),
		EventAdminEmail: event.AdminEmail,
	}
	if !snap.IsAdmin() {
		return apperr.Respond(c, apperr.New(apperr.PermissionDenied))
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).
			Delete(&models.PlayerScoreClassificatoria{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).
			Delete(&models.PlayerScoreImortal{}).Error; err != nil {
			return err
		}
		// many2many join rows have no model, clear them by subquery
		if err := tx.Exec(
			"DELETE FROM sumula_classificatoria_referees WHERE sumula_classificatoria_id IN (SELECT id FROM sumula_classificatorias WHERE event_id = ?)",
			event.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM sumula_imortal_referees WHERE sumula_imortal_id IN (SELECT id FROM sumula_imortals WHERE event_id = ?)",
			event.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).
			Delete(&models.SumulaClassificatoria{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).
			Delete(&models.SumulaImortal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Player{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Staff{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.PermissionGrant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Token{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, "id = ?", event.ID).Error
	})
	if err != nil {
		log.Printf("ERROR deleting event %s: %v", event.ID, err)
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// RotateToken regenerates the event's access token code. Admin only.
func (s *EventService) RotateToken(c *fiber.Ctx) error {
	event, err := s.resolveEvent(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	snap := policy.Snapshot{
		UserEmail:       middleware.UserEmail(c),
		EventAdminEmail: event.AdminEmail,
	}
	if !snap.IsAdmin() {
		return apperr.Respond(c, apperr.New(apperr.PermissionDenied))
	}

	code := uuid.NewString()
	result := s.DB.Model(&models.Token{}).
		Where("event_id = ?", event.ID).
		Update("code", code)
	if result.Error != nil {
		return apperr.Respond(c, result.Error)
	}
	if result.RowsAffected == 0 {
		token := models.Token{ID: uuid.NewString(), EventID: event.ID, Code: code}
		if err := s.DB.Create(&token).Error; err != nil {
			return apperr.Respond(c, err)
		}
	}
	return c.JSON(fiber.Map{"token_code": code})
}
