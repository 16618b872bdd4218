package store

import (
	"context"
	"testing"
	"time"

	courseModels "medintern/models/course"
	"medintern/progress"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&courseModels.Course{},
		&courseModels.Video{},
		&courseModels.Quiz{},
		&courseModels.QuizQuestion{},
		&courseModels.CourseProgress{},
		&courseModels.VideoProgress{},
		&courseModels.QuizPassRecord{},
		&courseModels.QuizFailureRecord{},
	))
	return db
}

func TestProgressStoreRoundTrip(t *testing.T) {
	s := NewProgressStore(testDB(t))
	ctx := context.Background()

	_, err := s.Load(ctx, 7, 1)
	require.ErrorIs(t, err, progress.ErrNotEnrolled)

	rec := progress.NewRecord(7, 1, []progress.VideoRef{{VideoID: 11, QuizID: 21}, {VideoID: 12}})
	require.NoError(t, s.Create(ctx, rec))
	require.NotZero(t, rec.ID)
	require.Equal(t, uint(1), rec.Version)

	loaded, err := s.Load(ctx, 7, 1)
	require.NoError(t, err)
	require.Len(t, loaded.Videos, 2)
	require.Equal(t, uint(11), loaded.Videos[0].VideoID)
	require.True(t, loaded.Videos[0].IsUnlocked)
	require.False(t, loaded.Videos[1].IsUnlocked)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	until := now.Add(10 * time.Minute)
	loaded.Videos[0].IsCompleted = true
	loaded.Videos[0].CompletedAt = &now
	loaded.Passed = append(loaded.Passed, progress.QuizPass{QuizID: 21, Score: 80, CompletedAt: now, Attempts: 2})
	loaded.Failed = append(loaded.Failed, progress.QuizFailure{QuizID: 22, Attempts: 3, IsLocked: true, LockedUntil: &until, LastAttemptAt: &now})
	loaded.Final.IsUnlocked = true
	loaded.Certificate.IsEarned = true
	loaded.Certificate.EarnedAt = &now
	loaded.Certificate.CertificateURL = "/certificates/7_1_1714564800000.pdf"
	require.NoError(t, s.Save(ctx, loaded))
	require.Equal(t, uint(2), loaded.Version)

	again, err := s.Load(ctx, 7, 1)
	require.NoError(t, err)
	require.True(t, again.Videos[0].IsCompleted)
	require.Len(t, again.Passed, 1)
	require.Equal(t, 80, again.Passed[0].Score)
	require.Len(t, again.Failed, 1)
	require.True(t, again.Failed[0].IsLocked)
	require.Equal(t, until.Unix(), again.Failed[0].LockedUntil.Unix())
	require.True(t, again.Final.IsUnlocked)
	require.Equal(t, "/certificates/7_1_1714564800000.pdf", again.Certificate.CertificateURL)
	require.Equal(t, uint(2), again.Version)
}

func TestProgressStoreVersionConflict(t *testing.T) {
	s := NewProgressStore(testDB(t))
	ctx := context.Background()

	rec := progress.NewRecord(7, 1, []progress.VideoRef{{VideoID: 11}})
	require.NoError(t, s.Create(ctx, rec))

	first, err := s.Load(ctx, 7, 1)
	require.NoError(t, err)
	second, err := s.Load(ctx, 7, 1)
	require.NoError(t, err)

	first.IsCompleted = true
	require.NoError(t, s.Save(ctx, first))

	second.Final.IsUnlocked = true
	err = s.Save(ctx, second)
	require.ErrorIs(t, err, progress.ErrConcurrentModification)

	// The losing write must not have clobbered the winner.
	current, err := s.Load(ctx, 7, 1)
	require.NoError(t, err)
	require.True(t, current.IsCompleted)
	require.False(t, current.Final.IsUnlocked)
}

func TestProgressStoreDuplicateEnrollment(t *testing.T) {
	s := NewProgressStore(testDB(t))
	ctx := context.Background()

	rec := progress.NewRecord(7, 1, []progress.VideoRef{{VideoID: 11}})
	require.NoError(t, s.Create(ctx, rec))

	dup := progress.NewRecord(7, 1, []progress.VideoRef{{VideoID: 11}})
	err := s.Create(ctx, dup)
	require.ErrorIs(t, err, progress.ErrConcurrentModification)
}

func TestProgressStoreFailureRemoval(t *testing.T) {
	s := NewProgressStore(testDB(t))
	ctx := context.Background()

	rec := progress.NewRecord(7, 1, []progress.VideoRef{{VideoID: 11, QuizID: 21}})
	require.NoError(t, s.Create(ctx, rec))

	loaded, err := s.Load(ctx, 7, 1)
	require.NoError(t, err)
	now := time.Now().UTC()
	loaded.Failed = append(loaded.Failed, progress.QuizFailure{QuizID: 21, Attempts: 1, LastAttemptAt: &now})
	require.NoError(t, s.Save(ctx, loaded))

	loaded, err = s.Load(ctx, 7, 1)
	require.NoError(t, err)
	require.Len(t, loaded.Failed, 1)
	loaded.Failed = nil
	loaded.Passed = append(loaded.Passed, progress.QuizPass{QuizID: 21, Score: 100, CompletedAt: now, Attempts: 2})
	require.NoError(t, s.Save(ctx, loaded))

	final, err := s.Load(ctx, 7, 1)
	require.NoError(t, err)
	require.Empty(t, final.Failed)
	require.Len(t, final.Passed, 1)
}
