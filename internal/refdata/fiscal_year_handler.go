// Package refdata, referans verilerin (mali yıl, alt bütçe, kategoriler,
// eğitim seviyeleri, ortak kuruluşlar) CRUD'unu ve silme kurallarını içerir.
package refdata

import (
	"strings"

	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FiscalYearRequest struct {
	Year string `json:"year"`
}

type FiscalYearResponse struct {
	ID       uint   `json:"id"`
	Year     string `json:"year"`
	IsActive bool   `json:"is_active"`
}

// POST /api/admin/fiscal-years (admin)
func CreateFiscalYearHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body FiscalYearRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Year = strings.TrimSpace(body.Year)
		if body.Year == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Year zorunlu")
		}

		fy := models.FiscalYear{Year: body.Year}
		if err := database.DB.Create(&fy).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mali yıl oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(FiscalYearResponse{
			ID: fy.ID, Year: fy.Year, IsActive: fy.IsActive,
		})
	}
}

// GET /api/fiscal-years
func ListFiscalYearsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var years []models.FiscalYear
		if err := database.DB.Order("year desc").Find(&years).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mali yıllar listelenemedi")
		}

		res := make([]FiscalYearResponse, 0, len(years))
		for _, fy := range years {
			res = append(res, FiscalYearResponse{ID: fy.ID, Year: fy.Year, IsActive: fy.IsActive})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/fiscal-years/:id/activate (admin)
// Aynı anda tek aktif mali yıl olabilir: önceki aktif yıl aynı
// transaction'da pasife çekilir.
func ActivateFiscalYearHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fy models.FiscalYear
		if err := database.DB.First(&fy, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mali yıl bulunamadı")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.FiscalYear{}).
				Where("is_active = ?", true).
				UpdateColumn("is_active", false).Error; err != nil {
				return err
			}
			return tx.Model(&fy).UpdateColumn("is_active", true).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mali yıl aktifleştirilemedi")
		}

		return c.JSON(FiscalYearResponse{ID: fy.ID, Year: fy.Year, IsActive: true})
	}
}

// PUT /api/admin/fiscal-years/:id (admin)
// Mali kayıtlar tarafından referans edilen yılda sadece etiket düzenlenebilir;
// zaten başka alan yok.
func UpdateFiscalYearHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fy models.FiscalYear
		if err := database.DB.First(&fy, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mali yıl bulunamadı")
		}

		var body FiscalYearRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Year = strings.TrimSpace(body.Year)
		if body.Year == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Year boş olamaz")
		}
		fy.Year = body.Year

		if err := database.DB.Save(&fy).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mali yıl güncellenemedi")
		}

		return c.JSON(FiscalYearResponse{ID: fy.ID, Year: fy.Year, IsActive: fy.IsActive})
	}
}

// DELETE /api/admin/fiscal-years/:id (admin)
// Üzerinde mali kayıt olan yıl silinemez.
func DeleteFiscalYearHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fy models.FiscalYear
		if err := database.DB.First(&fy, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mali yıl bulunamadı")
		}

		var refCount int64
		database.DB.Model(&models.Income{}).Where("fiscal_year_id = ?", fy.ID).Count(&refCount)
		if refCount == 0 {
			database.DB.Model(&models.Expense{}).Where("fiscal_year_id = ?", fy.ID).Count(&refCount)
		}
		if refCount == 0 {
			database.DB.Model(&models.Transfer{}).Where("fiscal_year_id = ?", fy.ID).Count(&refCount)
		}
		if refCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Üzerinde mali kayıt olan mali yıl silinemez")
		}

		if err := database.DB.Delete(&fy).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mali yıl silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
