package controllers

import (
	"testing"
	"time"

	"medintern/progress"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestRecordViewReportsLapsedLocksAsClear(t *testing.T) {
	lapsed := time.Now().Add(-time.Minute)
	rec := &progress.Record{
		CourseID: 1,
		Failed: []progress.QuizFailure{
			{QuizID: 10, Attempts: 3, IsLocked: true, LockedUntil: &lapsed},
		},
		Final: progress.FinalAssessmentState{
			IsUnlocked:  true,
			Attempts:    3,
			IsLocked:    true,
			LockedUntil: &lapsed,
		},
	}

	view := recordView(rec)

	failed := view["failed_quizzes"].([]fiber.Map)
	require.Len(t, failed, 1)
	require.False(t, failed[0]["is_locked"].(bool), "a lapsed quiz lock self-clears on read")
	require.Nil(t, failed[0]["locked_until"])

	final := view["final_assessment"].(fiber.Map)
	require.False(t, final["is_locked"].(bool), "a lapsed final lock self-clears on read")
	require.Nil(t, final["locked_until"])
}

func TestRecordViewKeepsActiveLocks(t *testing.T) {
	until := time.Now().Add(5 * time.Minute)
	rec := &progress.Record{
		CourseID: 1,
		Failed: []progress.QuizFailure{
			{QuizID: 10, Attempts: 3, IsLocked: true, LockedUntil: &until},
		},
		Final: progress.FinalAssessmentState{
			IsUnlocked:  true,
			Attempts:    3,
			IsLocked:    true,
			LockedUntil: &until,
		},
	}

	view := recordView(rec)

	failed := view["failed_quizzes"].([]fiber.Map)
	require.True(t, failed[0]["is_locked"].(bool))
	require.Equal(t, &until, failed[0]["locked_until"])

	final := view["final_assessment"].(fiber.Map)
	require.True(t, final["is_locked"].(bool))
	require.Equal(t, &until, final["locked_until"])
}
