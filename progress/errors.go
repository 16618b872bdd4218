package progress

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors surfaced by engine operations. Callers classify them with
// errors.Is / errors.As and translate them to transport responses.
var (
	// ErrNotEnrolled: no progress record exists for the (user, course) pair.
	ErrNotEnrolled = errors.New("not enrolled in this course")

	// ErrCourseNotFound / ErrQuizNotFound: the content provider has no such
	// entity.
	ErrCourseNotFound = errors.New("course not found")
	ErrQuizNotFound   = errors.New("quiz not found")

	// ErrVideoNotFound: the video does not belong to the tracked course.
	ErrVideoNotFound = errors.New("video not found in this course")

	// ErrVideoLocked: the previous video or its quiz has not been completed.
	ErrVideoLocked = errors.New("video is locked, complete the previous video and its quiz first")

	// ErrVideoAlreadyCompleted: completion is a one-way transition.
	ErrVideoAlreadyCompleted = errors.New("video is already completed")

	// ErrIncompleteAnswers: a submission did not answer every question.
	ErrIncompleteAnswers = errors.New("all questions must be answered")

	// ErrAssessmentNotUnlocked: final assessment attempted before all videos
	// and quizzes are done.
	ErrAssessmentNotUnlocked = errors.New("complete all course videos and quizzes first")

	// ErrCertificateNotEarned: certificate requested before the final
	// assessment was passed.
	ErrCertificateNotEarned = errors.New("certificate not earned yet")

	// ErrConcurrentModification: the record changed underneath a
	// read-modify-write and retries were exhausted.
	ErrConcurrentModification = errors.New("progress record was modified concurrently")
)

// LockedError rejects a quiz or final-assessment submission while a failure
// lockout is in force. No attempt is recorded.
type LockedError struct {
	UnlockTime time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("locked due to multiple failed attempts, try again after %s", e.UnlockTime.Format(time.RFC3339))
}

// AlreadyPassedError rejects a re-submission of a passed quiz when no retake
// was requested.
type AlreadyPassedError struct {
	PreviousScore int
	PassedAt      time.Time
}

func (e *AlreadyPassedError) Error() string {
	return fmt.Sprintf("quiz already passed with %d%%", e.PreviousScore)
}

// AlreadyCompletedError is the final-assessment counterpart of
// AlreadyPassedError.
type AlreadyCompletedError struct {
	PreviousScore int
	CompletedAt   time.Time
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("final assessment already completed with %d%%", e.PreviousScore)
}

// DependencyError wraps a failure of an external collaborator (content
// provider, certificate issuer, store backend). The operation is aborted and
// no partial state is persisted.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
