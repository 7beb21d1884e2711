package widow

import (
	"strings"
	"time"

	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateOrphanRequest struct {
	WidowID          uint          `json:"widow_id"`
	Name             string        `json:"name"`
	Gender           models.Gender `json:"gender"`
	BirthDate        *string       `json:"birth_date"`
	EducationLevelID *uint         `json:"education_level_id"`
}

type UpdateOrphanRequest struct {
	Name             *string        `json:"name"`
	Gender           *models.Gender `json:"gender"`
	BirthDate        *string        `json:"birth_date"`
	EducationLevelID *uint          `json:"education_level_id"`
}

type OrphanResponse struct {
	ID               uint          `json:"id"`
	WidowID          uint          `json:"widow_id"`
	Name             string        `json:"name"`
	Gender           models.Gender `json:"gender"`
	BirthDate        *string       `json:"birth_date"`
	EducationLevelID *uint         `json:"education_level_id"`
	EducationLevel   string        `json:"education_level,omitempty"`
}

func orphanToResponse(o *models.Orphan) OrphanResponse {
	var birthDate *string
	if o.BirthDate != nil {
		s := o.BirthDate.Format("2006-01-02")
		birthDate = &s
	}
	res := OrphanResponse{
		ID:               o.ID,
		WidowID:          o.WidowID,
		Name:             o.Name,
		Gender:           o.Gender,
		BirthDate:        birthDate,
		EducationLevelID: o.EducationLevelID,
	}
	if o.EducationLevel != nil {
		res.EducationLevel = o.EducationLevel.Name
	}
	return res
}

// POST /api/orphans
func CreateOrphanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrphanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.WidowID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "widow_id ve name zorunlu")
		}
		if body.Gender != "" && body.Gender != models.GenderMale && body.Gender != models.GenderFemale {
			return fiber.NewError(fiber.StatusBadRequest, "gender 'male' veya 'female' olmalı")
		}

		// Veli var mı?
		if err := database.DB.First(&models.Widow{}, "id = ?", body.WidowID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dul kadın kaydı bulunamadı")
		}

		if body.EducationLevelID != nil {
			if err := database.DB.First(&models.EducationLevel{}, "id = ?", *body.EducationLevelID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Eğitim seviyesi bulunamadı")
			}
		}

		o := models.Orphan{
			WidowID:          body.WidowID,
			Name:             body.Name,
			Gender:           body.Gender,
			EducationLevelID: body.EducationLevelID,
		}

		if body.BirthDate != nil && *body.BirthDate != "" {
			d, err := time.Parse("2006-01-02", *body.BirthDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "birth_date formatı 'YYYY-MM-DD' olmalı")
			}
			o.BirthDate = &d
		}

		if err := database.DB.Create(&o).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(orphanToResponse(&o))
	}
}

// GET /api/orphans?widow_id=...
func ListOrphansHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Orphan{}).Preload("EducationLevel")

		if wStr := c.Query("widow_id"); wStr != "" {
			dbq = dbq.Where("widow_id = ?", wStr)
		}

		var rows []models.Orphan
		if err := dbq.Order("name asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıtlar listelenemedi")
		}

		res := make([]OrphanResponse, 0, len(rows))
		for i := range rows {
			res = append(res, orphanToResponse(&rows[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/orphans/:id
func UpdateOrphanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var o models.Orphan
		if err := database.DB.First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}

		var body UpdateOrphanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			o.Name = name
		}
		if body.Gender != nil {
			if *body.Gender != models.GenderMale && *body.Gender != models.GenderFemale {
				return fiber.NewError(fiber.StatusBadRequest, "gender 'male' veya 'female' olmalı")
			}
			o.Gender = *body.Gender
		}
		if body.BirthDate != nil {
			if *body.BirthDate == "" {
				o.BirthDate = nil
			} else {
				d, err := time.Parse("2006-01-02", *body.BirthDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "birth_date formatı 'YYYY-MM-DD' olmalı")
				}
				o.BirthDate = &d
			}
		}
		if body.EducationLevelID != nil {
			if *body.EducationLevelID == 0 {
				o.EducationLevelID = nil
			} else {
				if err := database.DB.First(&models.EducationLevel{}, "id = ?", *body.EducationLevelID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Eğitim seviyesi bulunamadı")
				}
				o.EducationLevelID = body.EducationLevelID
			}
		}

		if err := database.DB.Save(&o).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt güncellenemedi")
		}

		return c.JSON(orphanToResponse(&o))
	}
}

// DELETE /api/orphans/:id
func DeleteOrphanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var o models.Orphan
		if err := database.DB.First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}

		// Grup üyelikleriyle birlikte sil
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.BeneficiaryGroupMember{},
				"beneficiary_type = ? AND beneficiary_id = ?",
				models.BeneficiaryTypeOrphan, o.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&o).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
