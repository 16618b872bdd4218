package course

import (
	"time"

	"gorm.io/gorm"
)

// FinalAssessmentInfo is the single final-assessment slot embedded in a
// progress row.
type FinalAssessmentInfo struct {
	IsUnlocked    bool       `json:"is_unlocked" gorm:"default:false"`
	IsCompleted   bool       `json:"is_completed" gorm:"default:false"`
	Score         int        `json:"score" gorm:"default:0"`
	CompletedAt   *time.Time `json:"completed_at"`
	Attempts      int        `json:"attempts" gorm:"default:0"`
	IsLocked      bool       `json:"is_locked" gorm:"default:false"`
	LockedUntil   *time.Time `json:"locked_until"`
	LastAttemptAt *time.Time `json:"last_attempt_at"`
}

// CertificateInfo is set once, when the final assessment is passed.
type CertificateInfo struct {
	IsEarned bool       `json:"is_earned" gorm:"default:false"`
	EarnedAt *time.Time `json:"earned_at"`
	URL      string     `json:"url"`
}

// CourseProgress is the per-(user, course) progress document. Version backs
// the optimistic write guard; concurrent writers must not both succeed.
type CourseProgress struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
	Version     uint       `json:"-" gorm:"default:1;not null"`

	Final       FinalAssessmentInfo `json:"final_assessment" gorm:"embedded;embeddedPrefix:final_"`
	Certificate CertificateInfo     `json:"certificate" gorm:"embedded;embeddedPrefix:certificate_"`
}

// VideoProgress is one tracked video of a progress document, stored in
// course order.
type VideoProgress struct {
	gorm.Model
	ProgressID  uint       `json:"progress_id" gorm:"index;not null"`
	VideoID     uint       `json:"video_id" gorm:"index;not null"`
	OrderIndex  int        `json:"order_index" gorm:"default:0"`
	IsUnlocked  bool       `json:"is_unlocked" gorm:"default:false"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
}

// QuizPassRecord is a passed quiz of a progress document.
type QuizPassRecord struct {
	gorm.Model
	ProgressID  uint      `json:"progress_id" gorm:"index;not null"`
	QuizID      uint      `json:"quiz_id" gorm:"index;not null"`
	Score       int       `json:"score" gorm:"default:0"`
	CompletedAt time.Time `json:"completed_at"`
	Attempts    int       `json:"attempts" gorm:"default:1"`
}

// QuizFailureRecord tracks failed attempts on a quiz not yet passed. The row
// is removed when the quiz is passed.
type QuizFailureRecord struct {
	gorm.Model
	ProgressID    uint       `json:"progress_id" gorm:"index;not null"`
	QuizID        uint       `json:"quiz_id" gorm:"index;not null"`
	Attempts      int        `json:"attempts" gorm:"default:0"`
	IsLocked      bool       `json:"is_locked" gorm:"default:false"`
	LockedUntil   *time.Time `json:"locked_until"`
	LastAttemptAt *time.Time `json:"last_attempt_at"`
}
