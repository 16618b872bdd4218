package progress

import (
	"context"
	"time"
)

// VideoRef is one entry of a course's ordered video list. QuizID is zero when
// the video has no quiz attached.
type VideoRef struct {
	VideoID uint
	QuizID  uint
}

// Question is a single quiz question as served by the content provider.
type Question struct {
	Text          string
	Options       []string
	CorrectAnswer string
}

// QuizContent is a quiz with its question set. VideoID is the video the quiz
// belongs to.
type QuizContent struct {
	ID        uint
	VideoID   uint
	Questions []Question
}

// ContentProvider serves read-only course content: the ordered video list,
// individual quizzes and the ordered quiz list used for the final assessment.
type ContentProvider interface {
	CourseTitle(ctx context.Context, courseID uint) (string, error)
	OrderedVideos(ctx context.Context, courseID uint) ([]VideoRef, error)
	Quiz(ctx context.Context, quizID uint) (*QuizContent, error)
	CourseQuizzes(ctx context.Context, courseID uint) ([]QuizContent, error)
}

// Store persists one Record per (user, course) pair.
//
// Load returns ErrNotEnrolled when no record exists. Save must reject a write
// whose Version no longer matches the stored row with
// ErrConcurrentModification; Create must do the same for a duplicate
// (user, course) key so the engine can reload and retry.
type Store interface {
	Load(ctx context.Context, userID, courseID uint) (*Record, error)
	Create(ctx context.Context, rec *Record) error
	Save(ctx context.Context, rec *Record) error
}

// CertificateIssuer produces a certificate reference for a user who passed a
// course's final assessment.
type CertificateIssuer interface {
	Issue(ctx context.Context, userID, courseID uint) (string, error)
}

// Clock returns the current time. Injected so lockout windows are testable.
type Clock func() time.Time
