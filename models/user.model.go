package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage    string    `gorm:"default:''"`
	Name            string    `gorm:"default:''"`
	Email           string    `gorm:"unique;not null"`
	Mobile          string    `gorm:"default:''"`
	Role            string    `gorm:"default:'INTERN'"` // INTERN, SUPERVISOR, ADMIN
	Password        string    `gorm:"not null"`
	Specialty       string    `gorm:"default:''"`
	Hospital        string    `gorm:"default:''"`
	RoundID         *uint     `json:"round_id"`
	IsEmailVerified bool      `gorm:"default:false"`
	LastLogin       time.Time `gorm:"default:NULL"`
	IsBlocked       bool      `gorm:"default:false"`
	IsDeleted       bool      `gorm:"default:false"`
}
