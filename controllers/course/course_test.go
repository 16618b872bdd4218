package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"medintern/config"
	"medintern/database"
	"medintern/middleware"
	"medintern/models"
	courseModels "medintern/models/course"
	courseValidator "medintern/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCourseAPI(t *testing.T) (*fiber.App, string, uint) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Video{},
		&courseModels.Quiz{},
		&courseModels.QuizQuestion{},
		&courseModels.CourseProgress{},
	))
	database.Database = database.DbInstance{Db: db}

	user := models.User{Name: "Riley", Email: "riley@example.com", Password: "x", Role: "INTERN"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Suturing Basics", Mentor: "Dr. Hale", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	video := courseModels.Video{CourseID: course.ID, Title: "Knots", URL: "/videos/knots.mp4", OrderIndex: 0}
	require.NoError(t, db.Create(&video).Error)
	quiz := courseModels.Quiz{CourseID: course.ID, VideoID: video.ID}
	require.NoError(t, db.Create(&quiz).Error)
	require.NoError(t, db.Model(&video).Update("quiz_id", quiz.ID).Error)

	questions := []courseModels.QuizQuestion{
		{QuizID: quiz.ID, QuestionText: "Which knot anchors a running suture?", Options: `["Square","Granny"]`, CorrectAnswer: "Square", OrderIndex: 0},
		{QuizID: quiz.ID, QuestionText: "How many throws secure monofilament?", Options: `not-json`, CorrectAnswer: "4", OrderIndex: 1},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Role, user.Specialty)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/course/:id", middleware.JWTMiddleware, courseValidator.GetCourseDetail(), GetCourseDetails)
	return app, token, course.ID
}

func TestGetCourseDetailsStripsAnswersAndSurvivesBadOptions(t *testing.T) {
	app, token, courseID := setupCourseAPI(t)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/course/%d", courseID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status bool `json:"status"`
		Data   struct {
			Course struct {
				ID uint `json:"ID"`
			} `json:"course"`
			Videos []struct {
				Quiz *struct {
					Questions []struct {
						Question      string   `json:"question"`
						Options       []string `json:"options"`
						CorrectAnswer *string  `json:"correct_answer"`
					} `json:"questions"`
				} `json:"quiz"`
			} `json:"videos"`
			IsEnrolled bool `json:"is_enrolled"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Status)
	require.Equal(t, courseID, body.Data.Course.ID)
	require.Len(t, body.Data.Videos, 1)
	require.NotNil(t, body.Data.Videos[0].Quiz)

	qs := body.Data.Videos[0].Quiz.Questions
	require.Len(t, qs, 2)
	require.Equal(t, []string{"Square", "Granny"}, qs[0].Options)
	// A row with undecodable options is served without them, not dropped.
	require.Empty(t, qs[1].Options)
	for _, q := range qs {
		require.Nil(t, q.CorrectAnswer, "correct answers must not leave the server")
	}
}

func TestGetCourseDetailsUnknownCourse(t *testing.T) {
	app, token, _ := setupCourseAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/course/999", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
