package workers

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"sumula-system/models"
	"sumula-system/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ArchiveWorker periodically uploads the score sheets of closed sumulas
// to R2 and stamps archived_at. It only ever reads scores and writes the
// archive timestamp, never points, referees or the active flag. Failed
// uploads are retried on the next tick.
type ArchiveWorker struct {
	DB       *gorm.DB
	Interval time.Duration
}

func NewArchiveWorker(db *gorm.DB, interval time.Duration) *ArchiveWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &ArchiveWorker{DB: db, Interval: interval}
}

// ScoreSheet is the archived representation of a closed sumula. Archives
// are staff-facing, so points are included.
type ScoreSheet struct {
	SumulaID  string            `json:"sumula_id"`
	Kind      string            `json:"kind"` // classificatoria | imortal
	Name      string            `json:"name"`
	EventID   string            `json:"event_id"`
	EventName string            `json:"event_name"`
	ClosedAt  time.Time         `json:"closed_at"`
	Referees  []string          `json:"referees"`
	Scores    []ScoreSheetEntry `json:"scores"`
}

type ScoreSheetEntry struct {
	PlayerID          string `json:"player_id"`
	Name              string `json:"name"`
	RegistrationEmail string `json:"registration_email"`
	Points            int    `json:"points"`
}

// ArchiveKey builds the R2 object key for one sumula. Names are slugged,
// accented Portuguese names come out ASCII-safe.
func ArchiveKey(eventName, kind, sumulaName, sumulaID string) string {
	return fmt.Sprintf("events/%s/sumulas/%s/%s-%s.json",
		slug.Make(eventName), kind, slug.Make(sumulaName), sumulaID)
}

// Start schedules the archive job. The scheduler owns its own goroutine;
// Shutdown is left to process exit, matching the rest of the service.
func (w *ArchiveWorker) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(w.Interval),
		gocron.NewTask(w.runOnce),
	)
	if err != nil {
		return err
	}
	sched.Start()
	log.Printf("[Archiver] running every %s", w.Interval)
	return nil
}

func (w *ArchiveWorker) runOnce() {
	w.archiveClassificatoria()
	w.archiveImortal()
}

func (w *ArchiveWorker) archiveClassificatoria() {
	var sumulas []models.SumulaClassificatoria
	err := w.DB.Preload("Referees").Preload("Scores.Player").
		Where("active = ? AND archived_at IS NULL", false).
		Find(&sumulas).Error
	if err != nil {
		log.Printf("[Archiver] DB error: %v", err)
		return
	}
	for _, sm := range sumulas {
		sheet := ScoreSheet{
			SumulaID: sm.ID,
			Kind:     "classificatoria",
			Name:     sm.Name,
			EventID:  sm.EventID,
			ClosedAt: sm.UpdatedAt,
		}
		for _, st := range sm.Referees {
			sheet.Referees = append(sheet.Referees, st.FirstName+" "+st.LastName)
		}
		for _, sc := range sm.Scores {
			sheet.Scores = append(sheet.Scores, ScoreSheetEntry{
				PlayerID:          sc.PlayerID,
				Name:              sc.Player.FirstName + " " + sc.Player.LastName,
				RegistrationEmail: sc.Player.RegistrationEmail,
				Points:            sc.Points,
			})
		}
		if err := w.uploadSheet(&sheet); err != nil {
			log.Printf("[Archiver] failed to archive sumula %s: %v", sm.ID, err)
			continue
		}
		now := time.Now()
		if err := w.DB.Model(&models.SumulaClassificatoria{}).
			Where("id = ?", sm.ID).
			Update("archived_at", &now).Error; err != nil {
			log.Printf("[Archiver] failed to stamp sumula %s: %v", sm.ID, err)
		}
	}
}

func (w *ArchiveWorker) archiveImortal() {
	var sumulas []models.SumulaImortal
	err := w.DB.Preload("Referees").Preload("Scores.Player").
		Where("active = ? AND archived_at IS NULL", false).
		Find(&sumulas).Error
	if err != nil {
		log.Printf("[Archiver] DB error: %v", err)
		return
	}
	for _, sm := range sumulas {
		sheet := ScoreSheet{
			SumulaID: sm.ID,
			Kind:     "imortal",
			Name:     sm.Name,
			EventID:  sm.EventID,
			ClosedAt: sm.UpdatedAt,
		}
		for _, st := range sm.Referees {
			sheet.Referees = append(sheet.Referees, st.FirstName+" "+st.LastName)
		}
		for _, sc := range sm.Scores {
			sheet.Scores = append(sheet.Scores, ScoreSheetEntry{
				PlayerID:          sc.PlayerID,
				Name:              sc.Player.FirstName + " " + sc.Player.LastName,
				RegistrationEmail: sc.Player.RegistrationEmail,
				Points:            sc.Points,
			})
		}
		if err := w.uploadSheet(&sheet); err != nil {
			log.Printf("[Archiver] failed to archive sumula %s: %v", sm.ID, err)
			continue
		}
		now := time.Now()
		if err := w.DB.Model(&models.SumulaImortal{}).
			Where("id = ?", sm.ID).
			Update("archived_at", &now).Error; err != nil {
			log.Printf("[Archiver] failed to stamp sumula %s: %v", sm.ID, err)
		}
	}
}

func (w *ArchiveWorker) uploadSheet(sheet *ScoreSheet) error {
	var event models.Event
	if err := w.DB.First(&event, "id = ?", sheet.EventID).Error; err != nil {
		return err
	}
	sheet.EventName = event.Name

	data, err := json.Marshal(sheet)
	if err != nil {
		return err
	}
	key := ArchiveKey(event.Name, sheet.Kind, sheet.Name, sheet.SumulaID)
	return utils.UploadBytesToR2(key, data, "application/json")
}
