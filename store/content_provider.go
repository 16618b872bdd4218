package store

import (
	"context"
	"encoding/json"
	"errors"

	courseModels "medintern/models/course"
	"medintern/progress"

	"gorm.io/gorm"
)

// ContentProvider serves course content to the progress engine, read-only.
type ContentProvider struct {
	db *gorm.DB
}

func NewContentProvider(db *gorm.DB) *ContentProvider {
	return &ContentProvider{db: db}
}

func (p *ContentProvider) CourseTitle(ctx context.Context, courseID uint) (string, error) {
	var c courseModels.Course
	err := p.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", courseID, false).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", progress.ErrCourseNotFound
		}
		return "", err
	}
	return c.Title, nil
}

func (p *ContentProvider) OrderedVideos(ctx context.Context, courseID uint) ([]progress.VideoRef, error) {
	var c courseModels.Course
	err := p.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", courseID, false).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, progress.ErrCourseNotFound
		}
		return nil, err
	}

	var videos []courseModels.Video
	err = p.db.WithContext(ctx).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc, id asc").
		Find(&videos).Error
	if err != nil {
		return nil, err
	}

	refs := make([]progress.VideoRef, len(videos))
	for i, v := range videos {
		refs[i] = progress.VideoRef{VideoID: v.ID}
		if v.QuizID != nil {
			refs[i].QuizID = *v.QuizID
		}
	}
	return refs, nil
}

func (p *ContentProvider) Quiz(ctx context.Context, quizID uint) (*progress.QuizContent, error) {
	var q courseModels.Quiz
	err := p.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, progress.ErrQuizNotFound
		}
		return nil, err
	}
	return p.loadQuiz(ctx, &q)
}

func (p *ContentProvider) CourseQuizzes(ctx context.Context, courseID uint) ([]progress.QuizContent, error) {
	var rows []courseModels.Quiz
	err := p.db.WithContext(ctx).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	quizzes := make([]progress.QuizContent, 0, len(rows))
	for i := range rows {
		quiz, err := p.loadQuiz(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *quiz)
	}
	return quizzes, nil
}

func (p *ContentProvider) loadQuiz(ctx context.Context, row *courseModels.Quiz) (*progress.QuizContent, error) {
	var questions []courseModels.QuizQuestion
	err := p.db.WithContext(ctx).
		Where("quiz_id = ? AND is_deleted = ?", row.ID, false).
		Order("order_index asc, id asc").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	quiz := &progress.QuizContent{ID: row.ID, VideoID: row.VideoID}
	for _, q := range questions {
		var options []string
		if q.Options != "" {
			if err := json.Unmarshal([]byte(q.Options), &options); err != nil {
				return nil, err
			}
		}
		quiz.Questions = append(quiz.Questions, progress.Question{
			Text:          q.QuestionText,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return quiz, nil
}
