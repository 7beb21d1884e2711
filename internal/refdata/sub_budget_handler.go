package refdata

import (
	"strings"

	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SubBudgetRequest struct {
	Name string `json:"name"`
}

type SubBudgetResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// POST /api/admin/sub-budgets (admin)
func CreateSubBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SubBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}

		sb := models.SubBudget{Name: body.Name}
		if err := database.DB.Create(&sb).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt bütçe oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(SubBudgetResponse{ID: sb.ID, Name: sb.Name})
	}
}

// GET /api/sub-budgets
func ListSubBudgetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var budgets []models.SubBudget
		if err := database.DB.Order("name asc").Find(&budgets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt bütçeler listelenemedi")
		}

		res := make([]SubBudgetResponse, 0, len(budgets))
		for _, sb := range budgets {
			res = append(res, SubBudgetResponse{ID: sb.ID, Name: sb.Name})
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/sub-budgets/:id (admin)
func UpdateSubBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sb models.SubBudget
		if err := database.DB.First(&sb, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Alt bütçe bulunamadı")
		}

		var body SubBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
		}
		sb.Name = body.Name

		if err := database.DB.Save(&sb).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt bütçe güncellenemedi")
		}

		return c.JSON(SubBudgetResponse{ID: sb.ID, Name: sb.Name})
	}
}

// DELETE /api/admin/sub-budgets/:id (admin)
// Kategorisi veya mali kaydı olan alt bütçe silinemez.
func DeleteSubBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sb models.SubBudget
		if err := database.DB.First(&sb, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Alt bütçe bulunamadı")
		}
		if sb.ID == models.SentinelCategoryID {
			return fiber.NewError(fiber.StatusForbidden, "Varsayılan alt bütçe silinemez")
		}

		var refCount int64
		database.DB.Model(&models.IncomeCategory{}).Where("sub_budget_id = ?", sb.ID).Count(&refCount)
		if refCount == 0 {
			database.DB.Model(&models.ExpenseCategory{}).Where("sub_budget_id = ?", sb.ID).Count(&refCount)
		}
		if refCount == 0 {
			database.DB.Model(&models.Income{}).Where("sub_budget_id = ?", sb.ID).Count(&refCount)
		}
		if refCount == 0 {
			database.DB.Model(&models.Expense{}).Where("sub_budget_id = ?", sb.ID).Count(&refCount)
		}
		if refCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Kullanımda olan alt bütçe silinemez")
		}

		if err := database.DB.Delete(&sb).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt bütçe silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
