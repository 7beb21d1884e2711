package donor

import (
	"strings"

	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateDonorRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type UpdateDonorRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type DonorResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	IsKafil    bool   `json:"is_kafil"`
	TotalGiven string `json:"total_given"`
}

func donorToResponse(d *models.Donor) DonorResponse {
	return DonorResponse{
		ID:         d.ID,
		Name:       d.Name,
		Phone:      d.Phone,
		Email:      d.Email,
		Address:    d.Address,
		IsKafil:    d.IsKafil,
		TotalGiven: d.TotalGiven.StringFixed(2),
	}
}

// POST /api/donors
func CreateDonorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDonorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}

		d := models.Donor{
			Name:    body.Name,
			Phone:   body.Phone,
			Email:   body.Email,
			Address: body.Address,
		}

		if err := database.DB.Create(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bağışçı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(donorToResponse(&d))
	}
}

// GET /api/donors?q=...&is_kafil=...
func ListDonorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Donor{})

		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
		}
		if ik := c.Query("is_kafil"); ik != "" {
			dbq = dbq.Where("is_kafil = ?", ik == "true")
		}

		var rows []models.Donor
		if err := dbq.Order("name asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bağışçılar listelenemedi")
		}

		res := make([]DonorResponse, 0, len(rows))
		for i := range rows {
			res = append(res, donorToResponse(&rows[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/donors/:id
func GetDonorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var d models.Donor
		if err := database.DB.First(&d, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bağışçı bulunamadı")
		}
		return c.JSON(donorToResponse(&d))
	}
}

// PUT /api/donors/:id
func UpdateDonorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var d models.Donor
		if err := database.DB.First(&d, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bağışçı bulunamadı")
		}

		var body UpdateDonorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			d.Name = name
		}
		if body.Phone != nil {
			d.Phone = *body.Phone
		}
		if body.Email != nil {
			d.Email = *body.Email
		}
		if body.Address != nil {
			d.Address = *body.Address
		}

		if err := database.DB.Save(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bağışçı güncellenemedi")
		}

		return c.JSON(donorToResponse(&d))
	}
}

// DELETE /api/donors/:id
// Kefil olan veya üzerinde gelir kaydı olan bağışçı silinemez.
func DeleteDonorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var d models.Donor
		if err := database.DB.First(&d, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bağışçı bulunamadı")
		}

		if d.IsKafil {
			return fiber.NewError(fiber.StatusConflict, "Kefil olan bağışçı silinemez, önce kefilliği kaldırın")
		}

		var incomeCount int64
		database.DB.Model(&models.Income{}).Where("donor_id = ?", d.ID).Count(&incomeCount)
		if incomeCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Üzerinde gelir kaydı olan bağışçı silinemez")
		}

		if err := database.DB.Delete(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bağışçı silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
