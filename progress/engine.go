package progress

import (
	"context"
	"errors"
	"math"
	"time"
)

const (
	// PassThreshold is the minimum percentage score for a quiz or the final
	// assessment to count as passed.
	PassThreshold = 70

	// MaxAttempts failures in a row lock a quiz for LockDuration.
	MaxAttempts  = 3
	LockDuration = 10 * time.Minute

	// saveRetries bounds the load-apply-save loop on version conflicts.
	saveRetries = 3
)

// Engine owns every transition of a user's course progress. It holds no
// state of its own; each operation is load record, apply one transition,
// save under the record's version guard.
type Engine struct {
	store   Store
	content ContentProvider
	certs   CertificateIssuer
	now     Clock
}

func NewEngine(store Store, content ContentProvider, certs CertificateIssuer) *Engine {
	return &Engine{
		store:   store,
		content: content,
		certs:   certs,
		now:     time.Now,
	}
}

// VideoResult reports what a video completion unlocked.
type VideoResult struct {
	VideoCompleted          bool
	QuizUnlocked            bool
	QuizID                  uint
	NextVideoUnlocked       bool
	NextVideoID             uint
	FinalAssessmentUnlocked bool
}

// QuizResult is the outcome of a quiz submission. A failed score is a valid
// business result, not an error.
type QuizResult struct {
	Passed                  bool
	Score                   int
	Attempts                int
	AttemptsRemaining       int
	NextVideoUnlocked       bool
	NextVideoID             uint
	FinalAssessmentUnlocked bool
	IsLocked                bool
	UnlockTime              *time.Time
}

// AssessmentResult is the outcome of a final-assessment submission.
type AssessmentResult struct {
	Passed            bool
	Score             int
	Attempts          int
	AttemptsRemaining int
	IsLocked          bool
	UnlockTime        *time.Time
	CourseCompleted   bool
	CertificateEarned bool
	CertificateURL    string
}

// CertificateView is the read model for an earned certificate.
type CertificateView struct {
	CourseTitle    string
	EarnedAt       time.Time
	CertificateURL string
	FinalScore     int
}

// Enroll returns the existing record for (user, course) or creates a fresh
// one with one video entry per course video and only the first unlocked.
// Idempotent: a concurrent first enrollment resolves to the stored record.
func (e *Engine) Enroll(ctx context.Context, userID, courseID uint) (*Record, error) {
	rec, err := e.store.Load(ctx, userID, courseID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotEnrolled) {
		return nil, err
	}

	videos, err := e.content.OrderedVideos(ctx, courseID)
	if err != nil {
		return nil, wrapDependency("load course videos", err)
	}

	rec = NewRecord(userID, courseID, videos)
	if err := e.store.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrConcurrentModification) {
			// Lost the race to another enrollment; the stored record wins.
			return e.store.Load(ctx, userID, courseID)
		}
		return nil, err
	}
	return rec, nil
}

// CompleteVideo marks an unlocked video as completed and advances the unlock
// chain: a video with a quiz unlocks that quiz, a video without one unlocks
// the next video, and the last video of a quizless course unlocks the final
// assessment.
func (e *Engine) CompleteVideo(ctx context.Context, userID, courseID, videoID uint) (*VideoResult, error) {
	videos, err := e.content.OrderedVideos(ctx, courseID)
	if err != nil {
		return nil, wrapDependency("load course videos", err)
	}

	var res *VideoResult
	_, err = e.updateRecord(ctx, userID, courseID, func(rec *Record) error {
		vs := rec.video(videoID)
		if vs == nil {
			return ErrVideoNotFound
		}
		if !vs.IsUnlocked {
			return ErrVideoLocked
		}
		if vs.IsCompleted {
			return ErrVideoAlreadyCompleted
		}

		now := e.now()
		vs.IsCompleted = true
		vs.CompletedAt = &now
		res = &VideoResult{VideoCompleted: true}

		idx := videoIndex(videos, videoID)
		if idx >= 0 && videos[idx].QuizID != 0 {
			// The quiz gates further progress; nothing else unlocks yet.
			res.QuizUnlocked = true
			res.QuizID = videos[idx].QuizID
			return nil
		}

		if idx >= 0 && idx+1 < len(videos) {
			if next := rec.video(videos[idx+1].VideoID); next != nil {
				next.IsUnlocked = true
				res.NextVideoUnlocked = true
				res.NextVideoID = next.VideoID
			}
			return nil
		}

		// Last video with no quiz attached: the final assessment opens once
		// every video is completed and every course quiz is passed. A course
		// without quizzes unlocks it on video completion alone.
		quizzes, qerr := e.content.CourseQuizzes(ctx, courseID)
		if qerr != nil {
			return wrapDependency("load course quizzes", qerr)
		}
		if rec.allVideosCompleted() && rec.allQuizzesPassed(quizzes) {
			rec.Final.IsUnlocked = true
			res.FinalAssessmentUnlocked = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SubmitQuiz scores a quiz submission, applies the pass or fail transition
// and advances the unlock chain on a pass. The lockout check runs before
// anything else; a locked submission records no attempt.
func (e *Engine) SubmitQuiz(ctx context.Context, userID, courseID, quizID uint, answers map[int]string, forceRetake bool) (*QuizResult, error) {
	quiz, err := e.content.Quiz(ctx, quizID)
	if err != nil {
		return nil, wrapDependency("load quiz", err)
	}
	if err := checkAnswersComplete(answers, len(quiz.Questions)); err != nil {
		return nil, err
	}

	videos, err := e.content.OrderedVideos(ctx, courseID)
	if err != nil {
		return nil, wrapDependency("load course videos", err)
	}

	var res *QuizResult
	_, err = e.updateRecord(ctx, userID, courseID, func(rec *Record) error {
		now := e.now()

		failure := rec.failure(quizID)
		if failure.LockActive(now) {
			return &LockedError{UnlockTime: *failure.LockedUntil}
		}
		if pass := rec.pass(quizID); pass != nil && !forceRetake {
			return &AlreadyPassedError{PreviousScore: pass.Score, PassedAt: pass.CompletedAt}
		}

		correct := 0
		for i, q := range quiz.Questions {
			if answers[i] == q.CorrectAnswer {
				correct++
			}
		}
		score := percentage(correct, len(quiz.Questions))
		attempts := 1
		if failure != nil {
			attempts = failure.Attempts + 1
		}

		if score >= PassThreshold {
			res = &QuizResult{Passed: true, Score: score, Attempts: attempts}
			if pass := rec.pass(quizID); pass != nil {
				pass.Score = score
				pass.CompletedAt = now
				pass.Attempts = attempts
			} else {
				rec.Passed = append(rec.Passed, QuizPass{
					QuizID:      quizID,
					Score:       score,
					CompletedAt: now,
					Attempts:    attempts,
				})
			}
			rec.removeFailure(quizID)

			idx := -1
			for i, v := range videos {
				if v.QuizID == quizID {
					idx = i
					break
				}
			}
			if idx >= 0 && idx+1 < len(videos) {
				if next := rec.video(videos[idx+1].VideoID); next != nil {
					next.IsUnlocked = true
					res.NextVideoUnlocked = true
					res.NextVideoID = next.VideoID
				}
				return nil
			}

			// Last video's quiz: the final assessment opens once every video
			// is completed and every course quiz is passed.
			quizzes, qerr := e.content.CourseQuizzes(ctx, courseID)
			if qerr != nil {
				return wrapDependency("load course quizzes", qerr)
			}
			if rec.allVideosCompleted() && rec.allQuizzesPassed(quizzes) {
				rec.Final.IsUnlocked = true
				res.FinalAssessmentUnlocked = true
			}
			return nil
		}

		// Failed attempt.
		if failure == nil {
			rec.Failed = append(rec.Failed, QuizFailure{QuizID: quizID})
			failure = &rec.Failed[len(rec.Failed)-1]
		}
		failure.Attempts = attempts
		failure.LastAttemptAt = &now
		res = &QuizResult{
			Passed:            false,
			Score:             score,
			Attempts:          attempts,
			AttemptsRemaining: remaining(attempts),
		}
		if attempts >= MaxAttempts {
			until := now.Add(LockDuration)
			failure.IsLocked = true
			failure.LockedUntil = &until
			res.IsLocked = true
			res.UnlockTime = &until
		} else {
			failure.IsLocked = false
			failure.LockedUntil = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SubmitFinalAssessment scores a submission over every course quiz question
// concatenated in course-quiz order. A pass completes the course and issues
// the certificate; if issuance fails the whole operation fails and nothing
// is persisted.
func (e *Engine) SubmitFinalAssessment(ctx context.Context, userID, courseID uint, answers map[int]string, forceRetake bool) (*AssessmentResult, error) {
	quizzes, err := e.content.CourseQuizzes(ctx, courseID)
	if err != nil {
		return nil, wrapDependency("load course quizzes", err)
	}
	total := 0
	for _, q := range quizzes {
		total += len(q.Questions)
	}

	var res *AssessmentResult
	_, err = e.updateRecord(ctx, userID, courseID, func(rec *Record) error {
		now := e.now()

		if !rec.Final.IsUnlocked {
			return ErrAssessmentNotUnlocked
		}
		if rec.Final.LockActive(now) {
			return &LockedError{UnlockTime: *rec.Final.LockedUntil}
		}
		if err := checkAnswersComplete(answers, total); err != nil {
			return err
		}
		if rec.Final.IsCompleted && !forceRetake {
			return &AlreadyCompletedError{
				PreviousScore: rec.Final.Score,
				CompletedAt:   *rec.Final.CompletedAt,
			}
		}

		correct := 0
		index := 0
		for _, quiz := range quizzes {
			for _, q := range quiz.Questions {
				if answers[index] == q.CorrectAnswer {
					correct++
				}
				index++
			}
		}
		score := percentage(correct, total)
		attempts := rec.Final.Attempts + 1

		if score >= PassThreshold {
			if !rec.Certificate.IsEarned {
				url, ierr := e.certs.Issue(ctx, userID, courseID)
				if ierr != nil {
					return &DependencyError{Op: "issue certificate", Err: ierr}
				}
				rec.Certificate.IsEarned = true
				rec.Certificate.EarnedAt = &now
				rec.Certificate.CertificateURL = url
			}

			rec.Final.IsCompleted = true
			rec.Final.Score = score
			rec.Final.CompletedAt = &now
			rec.Final.Attempts = attempts
			rec.Final.IsLocked = false
			rec.Final.LockedUntil = nil

			rec.IsCompleted = true
			rec.CompletedAt = &now

			res = &AssessmentResult{
				Passed:            true,
				Score:             score,
				Attempts:          attempts,
				CourseCompleted:   true,
				CertificateEarned: true,
				CertificateURL:    rec.Certificate.CertificateURL,
			}
			return nil
		}

		rec.Final.Attempts = attempts
		rec.Final.LastAttemptAt = &now
		res = &AssessmentResult{
			Passed:            false,
			Score:             score,
			Attempts:          attempts,
			AttemptsRemaining: remaining(attempts),
		}
		if attempts >= MaxAttempts {
			until := now.Add(LockDuration)
			rec.Final.IsLocked = true
			rec.Final.LockedUntil = &until
			res.IsLocked = true
			res.UnlockTime = &until
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Certificate returns the earned-certificate view for a course.
func (e *Engine) Certificate(ctx context.Context, userID, courseID uint) (*CertificateView, error) {
	rec, err := e.store.Load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !rec.Certificate.IsEarned {
		return nil, ErrCertificateNotEarned
	}
	title, err := e.content.CourseTitle(ctx, courseID)
	if err != nil {
		return nil, wrapDependency("load course", err)
	}
	return &CertificateView{
		CourseTitle:    title,
		EarnedAt:       *rec.Certificate.EarnedAt,
		CertificateURL: rec.Certificate.CertificateURL,
		FinalScore:     rec.Final.Score,
	}, nil
}

// ResetQuizAttempts clears the failure counters and lockout for one quiz.
// Administrative override; a missing failure entry is a no-op.
func (e *Engine) ResetQuizAttempts(ctx context.Context, userID, courseID, quizID uint) error {
	_, err := e.updateRecord(ctx, userID, courseID, func(rec *Record) error {
		failure := rec.failure(quizID)
		if failure == nil {
			return nil
		}
		failure.Attempts = 0
		failure.IsLocked = false
		failure.LockedUntil = nil
		failure.LastAttemptAt = nil
		return nil
	})
	return err
}

// updateRecord runs one load-apply-save cycle, retrying against fresh state
// when the save loses a version race.
func (e *Engine) updateRecord(ctx context.Context, userID, courseID uint, apply func(rec *Record) error) (*Record, error) {
	for attempt := 0; attempt < saveRetries; attempt++ {
		rec, err := e.store.Load(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		if err := apply(rec); err != nil {
			return nil, err
		}
		if err := e.store.Save(ctx, rec); err != nil {
			if errors.Is(err, ErrConcurrentModification) {
				continue
			}
			return nil, err
		}
		return rec, nil
	}
	return nil, ErrConcurrentModification
}

// checkAnswersComplete requires an answer for every question index.
func checkAnswersComplete(answers map[int]string, total int) error {
	for i := 0; i < total; i++ {
		if _, ok := answers[i]; !ok {
			return ErrIncompleteAnswers
		}
	}
	return nil
}

func percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func remaining(attempts int) int {
	if attempts >= MaxAttempts {
		return 0
	}
	return MaxAttempts - attempts
}

func videoIndex(videos []VideoRef, videoID uint) int {
	for i, v := range videos {
		if v.VideoID == videoID {
			return i
		}
	}
	return -1
}

// wrapDependency keeps not-found sentinels intact and wraps everything else
// as an external-collaborator failure.
func wrapDependency(op string, err error) error {
	if errors.Is(err, ErrCourseNotFound) || errors.Is(err, ErrQuizNotFound) {
		return err
	}
	return &DependencyError{Op: op, Err: err}
}
