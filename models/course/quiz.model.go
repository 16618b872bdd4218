package course

import "gorm.io/gorm"

// Quiz belongs to one course video; its questions gate progression.
type Quiz struct {
	gorm.Model
	CourseID   uint `json:"course_id" gorm:"index;not null"`
	VideoID    uint `json:"video_id" gorm:"index;not null"`
	OrderIndex int  `json:"order_index" gorm:"default:0"`
	IsDeleted  bool `gorm:"default:false"`
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	gorm.Model
	QuizID        uint   `json:"quiz_id" gorm:"index;not null"`
	QuestionText  string `json:"question_text"`
	Options       string `json:"options"` // JSON array of option strings
	CorrectAnswer string `json:"correct_answer"`
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
	IsDeleted     bool   `gorm:"default:false"`
}
