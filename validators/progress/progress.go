package progressValidator

import (
	"strconv"
	"strings"

	"medintern/middleware"

	"github.com/gofiber/fiber/v2"
)

// parseIDParam reads a positive integer route parameter into Locals under key.
// Returns false with the response already written when the parameter is bad.
func parseIDParam(c *fiber.Ctx, param, key string) (bool, error) {
	idStr := strings.TrimSpace(c.Params(param))
	if idStr == "" {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing "+param+" parameter!", nil)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+param+" parameter!", nil)
	}

	c.Locals(key, uint(id))
	return true, nil
}

// parseAnswers converts the JSON answers object (string keys) into the
// zero-based question index map the engine scores against.
func parseAnswers(raw map[string]string) (map[int]string, bool) {
	answers := make(map[int]string, len(raw))
	for key, value := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return nil, false
		}
		answers[idx] = strings.TrimSpace(value)
	}
	return answers, true
}

// parseAnswerBody validates the shared answers payload for quiz and final
// assessment submissions and stashes it with the force_retake flag.
func parseAnswerBody(c *fiber.Ctx) (bool, error) {
	reqData := new(struct {
		Answers map[string]string `json:"answers"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	errors := make(map[string]string)
	if len(reqData.Answers) == 0 {
		errors["answers"] = "Answers are required!"
	}

	answers, ok := parseAnswers(reqData.Answers)
	if !ok {
		errors["answers"] = "Answer keys must be non-negative question indexes!"
	}

	if len(errors) > 0 {
		return false, middleware.ValidationErrorResponse(c, errors)
	}

	c.Locals("answers", answers)
	c.Locals("forceRetake", c.QueryBool("force_retake"))
	return true, nil
}

func CourseParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "id", "courseID"); !ok {
			return err
		}
		return c.Next()
	}
}

func CompleteVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "id", "courseID"); !ok {
			return err
		}
		if ok, err := parseIDParam(c, "video_id", "videoID"); !ok {
			return err
		}
		return c.Next()
	}
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "id", "courseID"); !ok {
			return err
		}
		if ok, err := parseIDParam(c, "quiz_id", "quizID"); !ok {
			return err
		}
		if ok, err := parseAnswerBody(c); !ok {
			return err
		}
		return c.Next()
	}
}

func SubmitAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "id", "courseID"); !ok {
			return err
		}
		if ok, err := parseAnswerBody(c); !ok {
			return err
		}
		return c.Next()
	}
}

func ResetQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "id", "courseID"); !ok {
			return err
		}
		if ok, err := parseIDParam(c, "quiz_id", "quizID"); !ok {
			return err
		}

		reqData := new(struct {
			UserID *uint `json:"user_id"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.UserID == nil || *reqData.UserID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"user_id": "User ID is required!",
			})
		}

		c.Locals("targetUserID", *reqData.UserID)
		return c.Next()
	}
}
