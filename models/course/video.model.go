package course

import "gorm.io/gorm"

// Video is one lecture video of a course. QuizID is set when completing the
// video requires passing a quiz before the next video unlocks.
type Video struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	QuizID      *uint  `json:"quiz_id" gorm:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level" gorm:"default:'entry'"` // entry, intermediate, advanced
	URL         string `json:"url" gorm:"unique"`
	Duration    string `json:"duration"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `gorm:"default:false"`
}
