package controllers

import (
	"errors"
	"time"

	"medintern/middleware"
	"medintern/progress"

	"github.com/gofiber/fiber/v2"
)

// engine is wired once at startup from main.
var engine *progress.Engine

func SetupEngine(e *progress.Engine) {
	engine = e
}

// engineErrorResponse translates an engine error into the JSON envelope.
// Scoring outcomes (a failed quiz, a failed assessment) are not errors and
// never reach this function.
func engineErrorResponse(c *fiber.Ctx, err error) error {
	var locked *progress.LockedError
	if errors.As(err, &locked) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Locked due to multiple failed attempts!", fiber.Map{
			"unlock_time": locked.UnlockTime,
		})
	}

	var passed *progress.AlreadyPassedError
	if errors.As(err, &passed) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz already passed!", fiber.Map{
			"previous_score": passed.PreviousScore,
			"passed_at":      passed.PassedAt,
		})
	}

	var completed *progress.AlreadyCompletedError
	if errors.As(err, &completed) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Final assessment already completed!", fiber.Map{
			"previous_score": completed.PreviousScore,
			"completed_at":   completed.CompletedAt,
		})
	}

	switch {
	case errors.Is(err, progress.ErrCourseNotFound),
		errors.Is(err, progress.ErrQuizNotFound),
		errors.Is(err, progress.ErrVideoNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, progress.ErrVideoLocked),
		errors.Is(err, progress.ErrAssessmentNotUnlocked),
		errors.Is(err, progress.ErrCertificateNotEarned):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, err.Error(), nil)
	case errors.Is(err, progress.ErrNotEnrolled),
		errors.Is(err, progress.ErrVideoAlreadyCompleted):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, progress.ErrIncompleteAnswers):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	case errors.Is(err, progress.ErrConcurrentModification):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Progress was updated by another request, please retry!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong, please try again later!", nil)
}

// recordView shapes a progress record for API responses. Lapsed lockouts are
// reported as clear, matching the summary read path.
func recordView(rec *progress.Record) fiber.Map {
	now := time.Now()

	videos := make([]fiber.Map, len(rec.Videos))
	for i, v := range rec.Videos {
		videos[i] = fiber.Map{
			"video_id":     v.VideoID,
			"is_unlocked":  v.IsUnlocked,
			"is_completed": v.IsCompleted,
			"completed_at": v.CompletedAt,
		}
	}

	passedQuizzes := make([]fiber.Map, len(rec.Passed))
	for i, p := range rec.Passed {
		passedQuizzes[i] = fiber.Map{
			"quiz_id":      p.QuizID,
			"score":        p.Score,
			"attempts":     p.Attempts,
			"completed_at": p.CompletedAt,
		}
	}

	failedQuizzes := make([]fiber.Map, len(rec.Failed))
	for i, f := range rec.Failed {
		locked := f.LockActive(now)
		var lockedUntil *time.Time
		if locked {
			lockedUntil = f.LockedUntil
		}
		failedQuizzes[i] = fiber.Map{
			"quiz_id":         f.QuizID,
			"attempts":        f.Attempts,
			"is_locked":       locked,
			"locked_until":    lockedUntil,
			"last_attempt_at": f.LastAttemptAt,
		}
	}

	finalLocked := rec.Final.LockActive(now)
	var finalLockedUntil *time.Time
	if finalLocked {
		finalLockedUntil = rec.Final.LockedUntil
	}

	return fiber.Map{
		"course_id":      rec.CourseID,
		"is_completed":   rec.IsCompleted,
		"completed_at":   rec.CompletedAt,
		"videos":         videos,
		"passed_quizzes": passedQuizzes,
		"failed_quizzes": failedQuizzes,
		"final_assessment": fiber.Map{
			"is_unlocked":  rec.Final.IsUnlocked,
			"is_completed": rec.Final.IsCompleted,
			"score":        rec.Final.Score,
			"attempts":     rec.Final.Attempts,
			"is_locked":    finalLocked,
			"locked_until": finalLockedUntil,
		},
		"certificate": fiber.Map{
			"is_earned":       rec.Certificate.IsEarned,
			"earned_at":       rec.Certificate.EarnedAt,
			"certificate_url": rec.Certificate.CertificateURL,
		},
	}
}

// GetCourseProgress enrolls the user on first access and returns the full
// progress record.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	rec, err := engine.Enroll(c.Context(), userID, courseID)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", recordView(rec))
}

// SubmitVideoCompletion marks a video as watched and reports what it unlocked.
func SubmitVideoCompletion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	videoID := c.Locals("videoID").(uint)

	res, err := engine.CompleteVideo(c.Context(), userID, courseID, videoID)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	data := fiber.Map{
		"video_completed":           res.VideoCompleted,
		"quiz_unlocked":             res.QuizUnlocked,
		"next_video_unlocked":       res.NextVideoUnlocked,
		"final_assessment_unlocked": res.FinalAssessmentUnlocked,
	}
	if res.QuizUnlocked {
		data["quiz_id"] = res.QuizID
	}
	if res.NextVideoUnlocked {
		data["next_video_id"] = res.NextVideoID
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video marked as completed!", data)
}

// SubmitQuiz scores a quiz attempt. Pass and fail both return 200; the body
// carries the outcome.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)
	answers := c.Locals("answers").(map[int]string)
	forceRetake := c.Locals("forceRetake").(bool)

	res, err := engine.SubmitQuiz(c.Context(), userID, courseID, quizID, answers, forceRetake)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	data := fiber.Map{
		"passed":   res.Passed,
		"score":    res.Score,
		"attempts": res.Attempts,
	}
	message := "Quiz passed!"
	if res.Passed {
		data["next_video_unlocked"] = res.NextVideoUnlocked
		if res.NextVideoUnlocked {
			data["next_video_id"] = res.NextVideoID
		}
		data["final_assessment_unlocked"] = res.FinalAssessmentUnlocked
	} else {
		message = "Quiz failed, review the material and try again!"
		data["attempts_remaining"] = res.AttemptsRemaining
		data["is_locked"] = res.IsLocked
		if res.IsLocked {
			message = "Quiz failed, locked for 10 minutes!"
			data["unlock_time"] = res.UnlockTime
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, data)
}

// SubmitFinalAssessment scores the final assessment. A pass completes the
// course and returns the issued certificate URL.
func SubmitFinalAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	answers := c.Locals("answers").(map[int]string)
	forceRetake := c.Locals("forceRetake").(bool)

	res, err := engine.SubmitFinalAssessment(c.Context(), userID, courseID, answers, forceRetake)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	data := fiber.Map{
		"passed":   res.Passed,
		"score":    res.Score,
		"attempts": res.Attempts,
	}
	message := "Congratulations, course completed!"
	if res.Passed {
		data["course_completed"] = res.CourseCompleted
		data["certificate_earned"] = res.CertificateEarned
		data["certificate_url"] = res.CertificateURL
	} else {
		message = "Final assessment failed, try again!"
		data["attempts_remaining"] = res.AttemptsRemaining
		data["is_locked"] = res.IsLocked
		if res.IsLocked {
			message = "Final assessment failed, locked for 10 minutes!"
			data["unlock_time"] = res.UnlockTime
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, data)
}

// GetCertificate returns the earned certificate for a completed course.
func GetCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	cert, err := engine.Certificate(c.Context(), userID, courseID)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", fiber.Map{
		"course_title":    cert.CourseTitle,
		"earned_at":       cert.EarnedAt,
		"certificate_url": cert.CertificateURL,
		"final_score":     cert.FinalScore,
	})
}

// GetProgressSummary returns the aggregate completion view for a course.
func GetProgressSummary(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	s, err := engine.Summary(c.Context(), userID, courseID)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress summary fetched successfully!", fiber.Map{
		"enrolled":         s.Enrolled,
		"course_completed": s.CourseCompleted,
		"videos": fiber.Map{
			"completed":  s.Videos.Completed,
			"total":      s.Videos.Total,
			"percentage": s.Videos.Percentage,
		},
		"quizzes": fiber.Map{
			"passed":     s.Quizzes.Passed,
			"failed":     s.Quizzes.Failed,
			"total":      s.Quizzes.Total,
			"percentage": s.Quizzes.Percentage,
		},
		"final_assessment": fiber.Map{
			"unlocked":    s.Final.Unlocked,
			"completed":   s.Final.Completed,
			"score":       s.Final.Score,
			"is_locked":   s.Final.Locked,
			"unlock_time": s.Final.UnlockTime,
		},
		"certificate": fiber.Map{
			"earned":          s.Certificate.Earned,
			"certificate_url": s.Certificate.URL,
			"earned_at":       s.Certificate.EarnedAt,
		},
	})
}

// ResetQuizAttempts clears another user's failure counters and lockout for
// one quiz. Admin only; the target user comes from the request body.
func ResetQuizAttempts(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)
	targetUserID := c.Locals("targetUserID").(uint)

	if err := engine.ResetQuizAttempts(c.Context(), targetUserID, courseID, quizID); err != nil {
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempts reset successfully!", nil)
}
