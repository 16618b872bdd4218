package store

import (
	"context"
	"errors"

	courseModels "medintern/models/course"
	"medintern/progress"

	"gorm.io/gorm"
)

// ProgressStore persists progress.Record as one course_progresses row plus
// child rows for videos and quiz pass/failure entries. Writes go through an
// optimistic version guard so concurrent transitions on the same record
// cannot both apply.
type ProgressStore struct {
	db *gorm.DB
}

func NewProgressStore(db *gorm.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

func (s *ProgressStore) Load(ctx context.Context, userID, courseID uint) (*progress.Record, error) {
	var row courseModels.CourseProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, progress.ErrNotEnrolled
		}
		return nil, err
	}

	var videos []courseModels.VideoProgress
	if err := s.db.WithContext(ctx).Where("progress_id = ?", row.ID).Order("order_index asc").Find(&videos).Error; err != nil {
		return nil, err
	}
	var passed []courseModels.QuizPassRecord
	if err := s.db.WithContext(ctx).Where("progress_id = ?", row.ID).Order("completed_at asc").Find(&passed).Error; err != nil {
		return nil, err
	}
	var failed []courseModels.QuizFailureRecord
	if err := s.db.WithContext(ctx).Where("progress_id = ?", row.ID).Find(&failed).Error; err != nil {
		return nil, err
	}

	rec := &progress.Record{
		ID:          row.ID,
		UserID:      row.UserID,
		CourseID:    row.CourseID,
		IsCompleted: row.IsCompleted,
		CompletedAt: row.CompletedAt,
		Version:     row.Version,
		Final: progress.FinalAssessmentState{
			IsUnlocked:    row.Final.IsUnlocked,
			IsCompleted:   row.Final.IsCompleted,
			Score:         row.Final.Score,
			CompletedAt:   row.Final.CompletedAt,
			Attempts:      row.Final.Attempts,
			IsLocked:      row.Final.IsLocked,
			LockedUntil:   row.Final.LockedUntil,
			LastAttemptAt: row.Final.LastAttemptAt,
		},
		Certificate: progress.CertificateState{
			IsEarned:       row.Certificate.IsEarned,
			EarnedAt:       row.Certificate.EarnedAt,
			CertificateURL: row.Certificate.URL,
		},
	}
	for _, v := range videos {
		rec.Videos = append(rec.Videos, progress.VideoState{
			VideoID:     v.VideoID,
			IsUnlocked:  v.IsUnlocked,
			IsCompleted: v.IsCompleted,
			CompletedAt: v.CompletedAt,
		})
	}
	for _, p := range passed {
		rec.Passed = append(rec.Passed, progress.QuizPass{
			QuizID:      p.QuizID,
			Score:       p.Score,
			CompletedAt: p.CompletedAt,
			Attempts:    p.Attempts,
		})
	}
	for _, f := range failed {
		rec.Failed = append(rec.Failed, progress.QuizFailure{
			QuizID:        f.QuizID,
			Attempts:      f.Attempts,
			IsLocked:      f.IsLocked,
			LockedUntil:   f.LockedUntil,
			LastAttemptAt: f.LastAttemptAt,
		})
	}
	return rec, nil
}

func (s *ProgressStore) Create(ctx context.Context, rec *progress.Record) error {
	row := courseModels.CourseProgress{
		UserID:   rec.UserID,
		CourseID: rec.CourseID,
		Version:  1,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return writeChildren(tx, row.ID, rec)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another enrollment won the unique (user_id, course_id) race.
			return progress.ErrConcurrentModification
		}
		return err
	}
	rec.ID = row.ID
	rec.Version = row.Version
	return nil
}

func (s *ProgressStore) Save(ctx context.Context, rec *progress.Record) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&courseModels.CourseProgress{}).
			Where("id = ? AND version = ?", rec.ID, rec.Version).
			Updates(map[string]interface{}{
				"version":      rec.Version + 1,
				"is_completed": rec.IsCompleted,
				"completed_at": rec.CompletedAt,

				"final_is_unlocked":     rec.Final.IsUnlocked,
				"final_is_completed":    rec.Final.IsCompleted,
				"final_score":           rec.Final.Score,
				"final_completed_at":    rec.Final.CompletedAt,
				"final_attempts":        rec.Final.Attempts,
				"final_is_locked":       rec.Final.IsLocked,
				"final_locked_until":    rec.Final.LockedUntil,
				"final_last_attempt_at": rec.Final.LastAttemptAt,
				"certificate_is_earned": rec.Certificate.IsEarned,
				"certificate_earned_at": rec.Certificate.EarnedAt,
				"certificate_url":       rec.Certificate.CertificateURL,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return progress.ErrConcurrentModification
		}

		// Child rows are few per record; rewriting them keeps the save atomic
		// with the version bump.
		if err := tx.Unscoped().Where("progress_id = ?", rec.ID).Delete(&courseModels.VideoProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("progress_id = ?", rec.ID).Delete(&courseModels.QuizPassRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("progress_id = ?", rec.ID).Delete(&courseModels.QuizFailureRecord{}).Error; err != nil {
			return err
		}
		return writeChildren(tx, rec.ID, rec)
	})
	if err != nil {
		return err
	}
	rec.Version++
	return nil
}

func writeChildren(tx *gorm.DB, progressID uint, rec *progress.Record) error {
	for i, v := range rec.Videos {
		row := courseModels.VideoProgress{
			ProgressID:  progressID,
			VideoID:     v.VideoID,
			OrderIndex:  i,
			IsUnlocked:  v.IsUnlocked,
			IsCompleted: v.IsCompleted,
			CompletedAt: v.CompletedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, p := range rec.Passed {
		row := courseModels.QuizPassRecord{
			ProgressID:  progressID,
			QuizID:      p.QuizID,
			Score:       p.Score,
			CompletedAt: p.CompletedAt,
			Attempts:    p.Attempts,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, f := range rec.Failed {
		row := courseModels.QuizFailureRecord{
			ProgressID:    progressID,
			QuizID:        f.QuizID,
			Attempts:      f.Attempts,
			IsLocked:      f.IsLocked,
			LockedUntil:   f.LockedUntil,
			LastAttemptAt: f.LastAttemptAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
