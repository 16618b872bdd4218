package utils

import (
	"log"
	"time"

	"medintern/database"
	"medintern/models"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializeRoundScheduler sets up the internship round status scheduler
func InitializeRoundScheduler() {
	log.Println("[ROUND-SCHEDULER] Initializing round scheduler...")

	c := cron.New()

	// Run daily at midnight to roll round statuses forward
	c.AddFunc("0 0 * * *", func() {
		log.Println("[ROUND-SCHEDULER] Running daily round status check...")
		ActivateRounds()
		CompleteRounds()
	})

	c.Start()
	log.Println("[ROUND-SCHEDULER] Round scheduler started - runs daily at midnight")

	// Catch up immediately on boot so a restart never leaves stale statuses
	ActivateRounds()
	CompleteRounds()
}

// ActivateRounds marks upcoming rounds whose start date has arrived as ACTIVE
func ActivateRounds() {
	db := database.Database.Db
	today := now.BeginningOfDay()

	result := db.Model(&models.Round{}).
		Where("status = ? AND is_deleted = ? AND start_date <= ?", models.RoundUpcoming, false, today).
		Updates(map[string]interface{}{"status": models.RoundActive})

	if result.Error != nil {
		log.Printf("[ROUND-SCHEDULER] Error activating rounds: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[ROUND-SCHEDULER] Activated %d rounds", result.RowsAffected)
	}
}

// CompleteRounds marks active rounds whose end date has passed as COMPLETED
func CompleteRounds() {
	db := database.Database.Db
	endOfYesterday := now.With(time.Now().AddDate(0, 0, -1)).EndOfDay()

	result := db.Model(&models.Round{}).
		Where("status = ? AND is_deleted = ? AND end_date <= ?", models.RoundActive, false, endOfYesterday).
		Updates(map[string]interface{}{"status": models.RoundCompleted})

	if result.Error != nil {
		log.Printf("[ROUND-SCHEDULER] Error completing rounds: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[ROUND-SCHEDULER] Completed %d rounds", result.RowsAffected)
	}
}
