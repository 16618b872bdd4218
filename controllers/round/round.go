package controllers

import (
	"medintern/database"
	"medintern/middleware"
	"medintern/models"

	"github.com/gofiber/fiber/v2"
)

// GetRounds lists internship rounds, newest wave first, with an optional
// status filter.
func GetRounds(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedRoundList").(*struct {
		Page   *int   `json:"page"`
		Limit  *int   `json:"limit"`
		Status string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Round{}).Where("is_deleted = ?", false)
	if reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var total int64
	db.Count(&total)

	var rounds []models.Round
	if err := db.Offset(offset).Limit(limit).Order("wave_number desc").Find(&rounds).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch rounds!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rounds fetched successfully!", fiber.Map{
		"rounds": rounds,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
