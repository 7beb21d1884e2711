package refdata

import (
	"strings"

	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EducationLevelRequest struct {
	Name string `json:"name"`
}

type EducationLevelResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// POST /api/admin/education-levels (admin)
func CreateEducationLevelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EducationLevelRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}

		lvl := models.EducationLevel{Name: body.Name}
		if err := database.DB.Create(&lvl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Eğitim seviyesi oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(EducationLevelResponse{ID: lvl.ID, Name: lvl.Name})
	}
}

// GET /api/education-levels
func ListEducationLevelsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var levels []models.EducationLevel
		if err := database.DB.Order("id asc").Find(&levels).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Eğitim seviyeleri listelenemedi")
		}

		res := make([]EducationLevelResponse, 0, len(levels))
		for _, lvl := range levels {
			res = append(res, EducationLevelResponse{ID: lvl.ID, Name: lvl.Name})
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/education-levels/:id (admin)
func UpdateEducationLevelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lvl models.EducationLevel
		if err := database.DB.First(&lvl, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Eğitim seviyesi bulunamadı")
		}

		var body EducationLevelRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
		}
		lvl.Name = body.Name

		if err := database.DB.Save(&lvl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Eğitim seviyesi güncellenemedi")
		}

		return c.JSON(EducationLevelResponse{ID: lvl.ID, Name: lvl.Name})
	}
}

// DELETE /api/admin/education-levels/:id (admin)
// Seviyeyi kullanan yetimlerin education_level_id alanı NULL'a çekilir;
// yetim kaydı silinmez.
func DeleteEducationLevelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lvl models.EducationLevel
		if err := database.DB.First(&lvl, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Eğitim seviyesi bulunamadı")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Orphan{}).
				Where("education_level_id = ?", lvl.ID).
				UpdateColumn("education_level_id", nil).Error; err != nil {
				return err
			}
			return tx.Delete(&lvl).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Eğitim seviyesi silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
