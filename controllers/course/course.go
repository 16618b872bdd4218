package controllers

import (
	"encoding/json"
	"log"

	"medintern/database"
	"medintern/middleware"
	"medintern/models"
	courseModels "medintern/models/course"

	"github.com/gofiber/fiber/v2"
)

func GetAllCourses(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	// Retrieve validated pagination request
	reqData, ok := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND is_published = ?", false, true)

	// Get total count
	var total int64
	db.Count(&total)

	// Fetch paginated data
	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseDetails returns a published course with its ordered videos and the
// quiz attached to each video. Correct answers never leave the server.
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var videos []courseModels.Video
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc, id asc").Find(&videos)

	type QuestionView struct {
		ID       uint     `json:"id"`
		Question string   `json:"question"`
		Options  []string `json:"options"`
	}
	type QuizView struct {
		ID        uint           `json:"id"`
		Questions []QuestionView `json:"questions"`
	}
	type VideoWithQuiz struct {
		courseModels.Video
		Quiz *QuizView `json:"quiz,omitempty"`
	}

	result := make([]VideoWithQuiz, len(videos))
	for i, video := range videos {
		result[i] = VideoWithQuiz{Video: video}
		if video.QuizID == nil {
			continue
		}

		var questions []courseModels.QuizQuestion
		database.Database.Db.Where("quiz_id = ? AND is_deleted = ?", *video.QuizID, false).
			Order("order_index asc, id asc").Find(&questions)

		quiz := &QuizView{ID: *video.QuizID}
		for _, q := range questions {
			var options []string
			if q.Options != "" {
				if err := json.Unmarshal([]byte(q.Options), &options); err != nil {
					// Serve the question without options rather than failing
					// the whole catalog read over one bad row.
					log.Printf("Failed to decode options for question %d: %v", q.ID, err)
					options = nil
				}
			}
			quiz.Questions = append(quiz.Questions, QuestionView{
				ID:       q.ID,
				Question: q.QuestionText,
				Options:  options,
			})
		}
		result[i].Quiz = quiz
	}

	// Check if user is enrolled
	var enrollment courseModels.CourseProgress
	isEnrolled := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error == nil

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":      course,
		"videos":      result,
		"is_enrolled": isEnrolled,
	})
}
