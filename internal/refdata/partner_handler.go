package refdata

import (
	"strings"

	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PartnerRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

type PartnerResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

func partnerToResponse(p *models.Partner) PartnerResponse {
	return PartnerResponse{
		ID:          p.ID,
		Name:        p.Name,
		ContactName: p.ContactName,
		Phone:       p.Phone,
		Email:       p.Email,
		Address:     p.Address,
	}
}

// POST /api/partners
func CreatePartnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PartnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}

		p := models.Partner{
			Name:        body.Name,
			ContactName: body.ContactName,
			Phone:       body.Phone,
			Email:       body.Email,
			Address:     body.Address,
		}
		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kuruluş oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(partnerToResponse(&p))
	}
}

// GET /api/partners?q=...
func ListPartnersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Partner{})
		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("name LIKE ? OR contact_name LIKE ?", like, like)
		}

		var rows []models.Partner
		if err := dbq.Order("name asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kuruluşlar listelenemedi")
		}

		res := make([]PartnerResponse, 0, len(rows))
		for i := range rows {
			res = append(res, partnerToResponse(&rows[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/partners/:id
func UpdatePartnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Partner
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kuruluş bulunamadı")
		}

		var body PartnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
		}
		p.Name = body.Name
		p.ContactName = body.ContactName
		p.Phone = body.Phone
		p.Email = body.Email
		p.Address = body.Address

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kuruluş güncellenemedi")
		}

		return c.JSON(partnerToResponse(&p))
	}
}

// DELETE /api/partners/:id
// Üzerinde gider kaydı olan kuruluş silinemez.
func DeletePartnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Partner
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kuruluş bulunamadı")
		}

		var refCount int64
		database.DB.Model(&models.Expense{}).Where("partner_id = ?", p.ID).Count(&refCount)
		if refCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Üzerinde gider kaydı olan kuruluş silinemez")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kuruluş silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
