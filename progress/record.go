package progress

import "time"

// Record is the full progress state of one user in one course. It is loaded,
// mutated by exactly one engine transition and written back under an
// optimistic version check.
type Record struct {
	ID          uint
	UserID      uint
	CourseID    uint
	IsCompleted bool
	CompletedAt *time.Time

	Videos []VideoState
	Passed []QuizPass
	Failed []QuizFailure

	Final       FinalAssessmentState
	Certificate CertificateState

	Version uint
}

// VideoState tracks a single course video. Exactly the first video of a
// course is unlocked at enrollment; IsCompleted flips false to true at most
// once.
type VideoState struct {
	VideoID     uint
	IsUnlocked  bool
	IsCompleted bool
	CompletedAt *time.Time
}

// QuizPass is the record of a passed quiz. At most one entry per quiz.
type QuizPass struct {
	QuizID      uint
	Score       int
	CompletedAt time.Time
	Attempts    int
}

// QuizFailure tracks failed attempts on a quiz that has not been passed yet.
// The entry is removed entirely once the quiz is passed. IsLocked implies
// LockedUntil is set and Attempts >= MaxAttempts.
type QuizFailure struct {
	QuizID        uint
	Attempts      int
	IsLocked      bool
	LockedUntil   *time.Time
	LastAttemptAt *time.Time
}

// FinalAssessmentState has the same lockout shape as QuizFailure but is a
// single slot, since there is one final assessment per course.
type FinalAssessmentState struct {
	IsUnlocked    bool
	IsCompleted   bool
	Score         int
	CompletedAt   *time.Time
	Attempts      int
	IsLocked      bool
	LockedUntil   *time.Time
	LastAttemptAt *time.Time
}

// CertificateState is set exactly once, when the final assessment is passed.
type CertificateState struct {
	IsEarned       bool
	EarnedAt       *time.Time
	CertificateURL string
}

// NewRecord builds the enrollment-time record for a course's ordered video
// list: one VideoState per video, only the first unlocked, no quiz entries.
func NewRecord(userID, courseID uint, videos []VideoRef) *Record {
	rec := &Record{
		UserID:   userID,
		CourseID: courseID,
		Videos:   make([]VideoState, len(videos)),
	}
	for i, v := range videos {
		rec.Videos[i] = VideoState{
			VideoID:    v.VideoID,
			IsUnlocked: i == 0,
		}
	}
	return rec
}

// video returns the state entry for videoID, or nil.
func (r *Record) video(videoID uint) *VideoState {
	for i := range r.Videos {
		if r.Videos[i].VideoID == videoID {
			return &r.Videos[i]
		}
	}
	return nil
}

// pass returns the pass entry for quizID, or nil.
func (r *Record) pass(quizID uint) *QuizPass {
	for i := range r.Passed {
		if r.Passed[i].QuizID == quizID {
			return &r.Passed[i]
		}
	}
	return nil
}

// failure returns the failure entry for quizID, or nil.
func (r *Record) failure(quizID uint) *QuizFailure {
	for i := range r.Failed {
		if r.Failed[i].QuizID == quizID {
			return &r.Failed[i]
		}
	}
	return nil
}

// removeFailure drops the failure entry for quizID, if any.
func (r *Record) removeFailure(quizID uint) {
	kept := r.Failed[:0]
	for _, f := range r.Failed {
		if f.QuizID != quizID {
			kept = append(kept, f)
		}
	}
	r.Failed = kept
}

// allVideosCompleted reports whether every tracked video is completed.
func (r *Record) allVideosCompleted() bool {
	for _, v := range r.Videos {
		if !v.IsCompleted {
			return false
		}
	}
	return true
}

// allQuizzesPassed reports whether every quiz in the course list has a pass
// entry.
func (r *Record) allQuizzesPassed(quizzes []QuizContent) bool {
	for _, q := range quizzes {
		if r.pass(q.ID) == nil {
			return false
		}
	}
	return true
}

// LockActive reports whether a failure lock is still in force at now. A
// lapsed lock is treated as cleared; the stored flags are rewritten on the
// next mutation.
func (f *QuizFailure) LockActive(now time.Time) bool {
	return f != nil && f.IsLocked && f.LockedUntil != nil && now.Before(*f.LockedUntil)
}

// LockActive is the final-assessment counterpart of QuizFailure.LockActive.
func (a *FinalAssessmentState) LockActive(now time.Time) bool {
	return a.IsLocked && a.LockedUntil != nil && now.Before(*a.LockedUntil)
}
