package store

import (
	"context"
	"testing"

	courseModels "medintern/models/course"
	"medintern/progress"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCourse(t *testing.T, db *gorm.DB) (courseID uint, quizID uint) {
	t.Helper()
	course := courseModels.Course{Title: "Suturing Basics", Mentor: "Dr. Hale", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	v1 := courseModels.Video{CourseID: course.ID, Title: "Knots", URL: "/videos/knots.mp4", OrderIndex: 0}
	require.NoError(t, db.Create(&v1).Error)
	v2 := courseModels.Video{CourseID: course.ID, Title: "Closure", URL: "/videos/closure.mp4", OrderIndex: 1}
	require.NoError(t, db.Create(&v2).Error)

	quiz := courseModels.Quiz{CourseID: course.ID, VideoID: v1.ID, OrderIndex: 0}
	require.NoError(t, db.Create(&quiz).Error)
	require.NoError(t, db.Model(&v1).Update("quiz_id", quiz.ID).Error)

	questions := []courseModels.QuizQuestion{
		{QuizID: quiz.ID, QuestionText: "Which knot anchors a running suture?", Options: `["Square","Granny","Slip"]`, CorrectAnswer: "Square", OrderIndex: 0},
		{QuizID: quiz.ID, QuestionText: "How many throws secure monofilament?", Options: `["2","4","6"]`, CorrectAnswer: "4", OrderIndex: 1},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}
	return course.ID, quiz.ID
}

func TestContentProviderOrderedVideos(t *testing.T) {
	db := testDB(t)
	courseID, quizID := seedCourse(t, db)
	p := NewContentProvider(db)
	ctx := context.Background()

	refs, err := p.OrderedVideos(ctx, courseID)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, quizID, refs[0].QuizID)
	require.Zero(t, refs[1].QuizID)

	_, err = p.OrderedVideos(ctx, courseID+100)
	require.ErrorIs(t, err, progress.ErrCourseNotFound)
}

func TestContentProviderQuiz(t *testing.T) {
	db := testDB(t)
	_, quizID := seedCourse(t, db)
	p := NewContentProvider(db)
	ctx := context.Background()

	quiz, err := p.Quiz(ctx, quizID)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 2)
	require.Equal(t, "Square", quiz.Questions[0].CorrectAnswer)
	require.Equal(t, []string{"Square", "Granny", "Slip"}, quiz.Questions[0].Options)

	_, err = p.Quiz(ctx, quizID+100)
	require.ErrorIs(t, err, progress.ErrQuizNotFound)
}

func TestContentProviderCourseQuizzes(t *testing.T) {
	db := testDB(t)
	courseID, quizID := seedCourse(t, db)
	p := NewContentProvider(db)

	quizzes, err := p.CourseQuizzes(context.Background(), courseID)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	require.Equal(t, quizID, quizzes[0].ID)
	require.Len(t, quizzes[0].Questions, 2)
}

func TestContentProviderCourseTitle(t *testing.T) {
	db := testDB(t)
	courseID, _ := seedCourse(t, db)
	p := NewContentProvider(db)

	title, err := p.CourseTitle(context.Background(), courseID)
	require.NoError(t, err)
	require.Equal(t, "Suturing Basics", title)
}
