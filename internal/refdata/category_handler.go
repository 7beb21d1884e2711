package refdata

import (
	"strings"

	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name        string `json:"name"`
	SubBudgetID uint   `json:"sub_budget_id"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	SubBudgetID *uint   `json:"sub_budget_id"`
}

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	SubBudgetID uint   `json:"sub_budget_id"`
}

// -------------------------
// Income Category CRUD
// -------------------------

// POST /api/admin/income-categories (admin)
func CreateIncomeCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.SubBudgetID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name ve sub_budget_id zorunlu")
		}

		if err := database.DB.First(&models.SubBudget{}, "id = ?", body.SubBudgetID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Alt bütçe bulunamadı")
		}

		cat := models.IncomeCategory{Name: body.Name, SubBudgetID: body.SubBudgetID}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(CategoryResponse{
			ID: cat.ID, Name: cat.Name, SubBudgetID: cat.SubBudgetID,
		})
	}
}

// GET /api/income-categories
func ListIncomeCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cats []models.IncomeCategory
		if err := database.DB.Order("name asc").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		res := make([]CategoryResponse, 0, len(cats))
		for _, cat := range cats {
			res = append(res, CategoryResponse{ID: cat.ID, Name: cat.Name, SubBudgetID: cat.SubBudgetID})
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/income-categories/:id (admin)
func UpdateIncomeCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.IncomeCategory
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}
		if cat.ID == models.SentinelCategoryID {
			return fiber.NewError(fiber.StatusForbidden, "Varsayılan kategori düzenlenemez")
		}

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			cat.Name = name
		}
		if body.SubBudgetID != nil {
			if err := database.DB.First(&models.SubBudget{}, "id = ?", *body.SubBudgetID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Alt bütçe bulunamadı")
			}
			cat.SubBudgetID = *body.SubBudgetID
		}

		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori güncellenemedi")
		}

		return c.JSON(CategoryResponse{ID: cat.ID, Name: cat.Name, SubBudgetID: cat.SubBudgetID})
	}
}

// DELETE /api/admin/income-categories/:id (admin)
// Kullanımdaki kategori silinirse bağlı gelirler cascade silinmez;
// sentinel "Silinmiş Kategori (Varsayılan)" kaydına yönlendirilir.
func DeleteIncomeCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.IncomeCategory
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}
		if cat.ID == models.SentinelCategoryID {
			return fiber.NewError(fiber.StatusForbidden, "Varsayılan kategori silinemez")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Income{}).
				Where("income_category_id = ?", cat.ID).
				UpdateColumn("income_category_id", models.SentinelCategoryID).Error; err != nil {
				return err
			}
			return tx.Delete(&cat).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Expense Category CRUD
// -------------------------

// POST /api/admin/expense-categories (admin)
func CreateExpenseCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.SubBudgetID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name ve sub_budget_id zorunlu")
		}

		if err := database.DB.First(&models.SubBudget{}, "id = ?", body.SubBudgetID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Alt bütçe bulunamadı")
		}

		cat := models.ExpenseCategory{Name: body.Name, SubBudgetID: body.SubBudgetID}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(CategoryResponse{
			ID: cat.ID, Name: cat.Name, SubBudgetID: cat.SubBudgetID,
		})
	}
}

// GET /api/expense-categories
func ListExpenseCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cats []models.ExpenseCategory
		if err := database.DB.Order("name asc").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		res := make([]CategoryResponse, 0, len(cats))
		for _, cat := range cats {
			res = append(res, CategoryResponse{ID: cat.ID, Name: cat.Name, SubBudgetID: cat.SubBudgetID})
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/expense-categories/:id (admin)
func UpdateExpenseCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}
		if cat.ID == models.SentinelCategoryID {
			return fiber.NewError(fiber.StatusForbidden, "Varsayılan kategori düzenlenemez")
		}

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			cat.Name = name
		}
		if body.SubBudgetID != nil {
			if err := database.DB.First(&models.SubBudget{}, "id = ?", *body.SubBudgetID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Alt bütçe bulunamadı")
			}
			cat.SubBudgetID = *body.SubBudgetID
		}

		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori güncellenemedi")
		}

		return c.JSON(CategoryResponse{ID: cat.ID, Name: cat.Name, SubBudgetID: cat.SubBudgetID})
	}
}

// DELETE /api/admin/expense-categories/:id (admin)
func DeleteExpenseCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}
		if cat.ID == models.SentinelCategoryID {
			return fiber.NewError(fiber.StatusForbidden, "Varsayılan kategori silinemez")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Expense{}).
				Where("expense_category_id = ?", cat.ID).
				UpdateColumn("expense_category_id", models.SentinelCategoryID).Error; err != nil {
				return err
			}
			return tx.Delete(&cat).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
