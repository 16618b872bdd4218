package course

import "gorm.io/gorm"

// Course represents a training course of ordered videos with attached quizzes
type Course struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	Mentor      string `json:"mentor"`
	BannerURL   string `json:"banner_url"`
	Tags        string `json:"tags"` // comma separated
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
