package progress

import (
	"context"
	"errors"
	"time"
)

// Summary is the read-side view of a user's standing in a course. Pure
// transformation; nothing is mutated.
type Summary struct {
	Enrolled        bool
	CourseCompleted bool
	Videos          CountSummary
	Quizzes         QuizSummary
	Final           FinalSummary
	Certificate     CertificateSummary
}

type CountSummary struct {
	Completed  int
	Total      int
	Percentage int
}

type QuizSummary struct {
	Passed     int
	Failed     int
	Total      int
	Percentage int
}

type FinalSummary struct {
	Unlocked   bool
	Completed  bool
	Score      int
	Locked     bool
	UnlockTime *time.Time
}

type CertificateSummary struct {
	Earned   bool
	URL      string
	EarnedAt *time.Time
}

// Summary builds the progress summary for (user, course). A user with no
// record yet is reported as not enrolled rather than an error.
func (e *Engine) Summary(ctx context.Context, userID, courseID uint) (*Summary, error) {
	rec, err := e.store.Load(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, ErrNotEnrolled) {
			return &Summary{}, nil
		}
		return nil, err
	}

	videos, err := e.content.OrderedVideos(ctx, courseID)
	if err != nil {
		return nil, wrapDependency("load course videos", err)
	}
	quizzes, err := e.content.CourseQuizzes(ctx, courseID)
	if err != nil {
		return nil, wrapDependency("load course quizzes", err)
	}

	completed := 0
	for _, v := range rec.Videos {
		if v.IsCompleted {
			completed++
		}
	}

	// Failure entries whose lock has lapsed still count as failed quizzes;
	// only the lock overlay self-clears on read.
	now := e.now()
	s := &Summary{
		Enrolled:        true,
		CourseCompleted: rec.IsCompleted,
		Videos: CountSummary{
			Completed:  completed,
			Total:      len(videos),
			Percentage: percentage(completed, len(videos)),
		},
		Quizzes: QuizSummary{
			Passed:     len(rec.Passed),
			Failed:     len(rec.Failed),
			Total:      len(quizzes),
			Percentage: percentage(len(rec.Passed), len(quizzes)),
		},
		Final: FinalSummary{
			Unlocked:  rec.Final.IsUnlocked,
			Completed: rec.Final.IsCompleted,
			Score:     rec.Final.Score,
			Locked:    rec.Final.LockActive(now),
		},
		Certificate: CertificateSummary{
			Earned:   rec.Certificate.IsEarned,
			URL:      rec.Certificate.CertificateURL,
			EarnedAt: rec.Certificate.EarnedAt,
		},
	}
	if s.Final.Locked {
		s.Final.UnlockTime = rec.Final.LockedUntil
	}
	return s, nil
}
