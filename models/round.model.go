package models

import (
	"time"

	"gorm.io/gorm"
)

// Round statuses.
const (
	RoundUpcoming  = "UPCOMING"
	RoundActive    = "ACTIVE"
	RoundCompleted = "COMPLETED"
)

// Round is a training rotation window interns are assigned to.
type Round struct {
	gorm.Model
	Name       string    `json:"name"`
	WaveNumber int       `json:"wave_number" gorm:"default:1"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Status     string    `json:"status" gorm:"default:'UPCOMING'"` // UPCOMING, ACTIVE, COMPLETED
	IsDeleted  bool      `gorm:"default:false"`
}
