package roundValidator

import (
	"strings"

	"medintern/middleware"

	"github.com/gofiber/fiber/v2"
)

func RoundList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page   *int   `json:"page"`
			Limit  *int   `json:"limit"`
			Status string `json:"status"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		// Validate Status filter when present
		if reqData.Status != "" {
			status := strings.ToUpper(strings.TrimSpace(reqData.Status))
			if status != "UPCOMING" && status != "ACTIVE" && status != "COMPLETED" {
				errors["status"] = "Status must be UPCOMING, ACTIVE or COMPLETED!"
			}
			reqData.Status = status
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRoundList", reqData)
		return c.Next()
	}
}
