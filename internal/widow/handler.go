package widow

import (
	"fmt"
	"strings"
	"time"

	"dernek-backend/internal/audit"
	"dernek-backend/internal/auth"
	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateWidowRequest struct {
	Name         string  `json:"name"`
	NationalID   string  `json:"national_id"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	Neighborhood string  `json:"neighborhood"`
	BirthDate    *string `json:"birth_date"` // "1980-05-01"
	Notes        string  `json:"notes"`
}

type UpdateWidowRequest struct {
	Name         *string `json:"name"`
	NationalID   *string `json:"national_id"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Neighborhood *string `json:"neighborhood"`
	BirthDate    *string `json:"birth_date"`
	Notes        *string `json:"notes"`
}

type WidowResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	NationalID   string  `json:"national_id"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	Neighborhood string  `json:"neighborhood"`
	BirthDate    *string `json:"birth_date"`
	Notes        string  `json:"notes"`
	OrphanCount  int     `json:"orphan_count"`
}

func widowToResponse(w *models.Widow) WidowResponse {
	var birthDate *string
	if w.BirthDate != nil {
		s := w.BirthDate.Format("2006-01-02")
		birthDate = &s
	}
	return WidowResponse{
		ID:           w.ID,
		Name:         w.Name,
		NationalID:   w.NationalID,
		Phone:        w.Phone,
		Address:      w.Address,
		Neighborhood: w.Neighborhood,
		BirthDate:    birthDate,
		Notes:        w.Notes,
		OrphanCount:  len(w.Orphans),
	}
}

// POST /api/widows
func CreateWidowHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWidowRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}

		w := models.Widow{
			Name:         body.Name,
			NationalID:   body.NationalID,
			Phone:        body.Phone,
			Address:      body.Address,
			Neighborhood: body.Neighborhood,
			Notes:        body.Notes,
		}

		if body.BirthDate != nil && *body.BirthDate != "" {
			d, err := time.Parse("2006-01-02", *body.BirthDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "birth_date formatı 'YYYY-MM-DD' olmalı")
			}
			w.BirthDate = &d
		}

		if err := database.DB.Create(&w).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt oluşturulamadı")
		}

		if user, uErr := auth.CurrentUser(c); uErr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "widow",
				EntityID:    w.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Dul kadın kaydı eklendi: %s", w.Name),
				After:       widowToResponse(&w),
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(widowToResponse(&w))
	}
}

// GET /api/widows?neighborhood=...&q=...
func ListWidowsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Widow{}).Preload("Orphans")

		if n := c.Query("neighborhood"); n != "" {
			dbq = dbq.Where("neighborhood = ?", n)
		}
		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("name LIKE ? OR phone LIKE ? OR national_id LIKE ?", like, like, like)
		}

		var rows []models.Widow
		if err := dbq.Order("name asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıtlar listelenemedi")
		}

		res := make([]WidowResponse, 0, len(rows))
		for i := range rows {
			res = append(res, widowToResponse(&rows[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/widows/:id
func GetWidowHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var w models.Widow
		if err := database.DB.Preload("Orphans").First(&w, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}
		return c.JSON(widowToResponse(&w))
	}
}

// PUT /api/widows/:id
func UpdateWidowHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var w models.Widow
		if err := database.DB.First(&w, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}

		var body UpdateWidowRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			w.Name = name
		}
		if body.NationalID != nil {
			w.NationalID = *body.NationalID
		}
		if body.Phone != nil {
			w.Phone = *body.Phone
		}
		if body.Address != nil {
			w.Address = *body.Address
		}
		if body.Neighborhood != nil {
			w.Neighborhood = *body.Neighborhood
		}
		if body.Notes != nil {
			w.Notes = *body.Notes
		}
		if body.BirthDate != nil {
			if *body.BirthDate == "" {
				w.BirthDate = nil
			} else {
				d, err := time.Parse("2006-01-02", *body.BirthDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "birth_date formatı 'YYYY-MM-DD' olmalı")
				}
				w.BirthDate = &d
			}
		}

		if err := database.DB.Save(&w).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt güncellenemedi")
		}

		return c.JSON(widowToResponse(&w))
	}
}

// DELETE /api/widows/:id
// Yetimler, kefaletler ve grup üyelikleriyle birlikte siler.
func DeleteWidowHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var w models.Widow
		if err := database.DB.First(&w, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}

		if err := DeleteWidow(database.DB, id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt silinemedi")
		}

		if user, uErr := auth.CurrentUser(c); uErr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "widow",
				EntityID:    id,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Dul kadın kaydı silindi: %s", w.Name),
				Before:      widowToResponse(&w),
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
