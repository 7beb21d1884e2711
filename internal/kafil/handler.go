package kafil

import (
	"errors"
	"fmt"

	"dernek-backend/internal/apperr"
	"dernek-backend/internal/audit"
	"dernek-backend/internal/auth"
	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SponsorshipRequest struct {
	WidowID uint            `json:"widow_id"`
	Amount  decimal.Decimal `json:"amount"`
}

type CreateKafilRequest struct {
	DonorID       uint                 `json:"donor_id"`
	MonthlyPledge decimal.Decimal      `json:"monthly_pledge"`
	Sponsorships  []SponsorshipRequest `json:"sponsorships"`
}

type UpdateSponsorshipRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type SponsorshipResponse struct {
	ID      uint   `json:"id"`
	WidowID uint   `json:"widow_id"`
	Widow   string `json:"widow,omitempty"`
	Amount  string `json:"amount"`
}

type KafilResponse struct {
	ID                     uint                  `json:"id"`
	DonorID                uint                  `json:"donor_id"`
	DonorName              string                `json:"donor_name"`
	MonthlyPledge          string                `json:"monthly_pledge"`
	TotalSponsorshipAmount string                `json:"total_sponsorship_amount"`
	RemainingPledgeAmount  string                `json:"remaining_pledge_amount"`
	SponsorshipUtilization string                `json:"sponsorship_utilization"`
	Sponsorships           []SponsorshipResponse `json:"sponsorships"`
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
	case errors.Is(err, apperr.ErrStateConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
	}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params(name), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" geçersiz")
	}
	return id, nil
}

func kafilToResponse(k *models.Kafil) KafilResponse {
	summary := Summarize(k)

	sponsorships := make([]SponsorshipResponse, 0, len(k.Sponsorships))
	for _, s := range k.Sponsorships {
		sponsorships = append(sponsorships, SponsorshipResponse{
			ID:      s.ID,
			WidowID: s.WidowID,
			Widow:   s.Widow.Name,
			Amount:  s.Amount.StringFixed(2),
		})
	}

	return KafilResponse{
		ID:                     k.ID,
		DonorID:                k.DonorID,
		DonorName:              k.Donor.Name,
		MonthlyPledge:          k.MonthlyPledge.StringFixed(2),
		TotalSponsorshipAmount: summary.TotalSponsorshipAmount.StringFixed(2),
		RemainingPledgeAmount:  summary.RemainingPledgeAmount.StringFixed(2),
		SponsorshipUtilization: summary.SponsorshipUtilization.StringFixed(2),
		Sponsorships:           sponsorships,
	}
}

// POST /api/kafils
// Bağışçıyı kefile dönüştürür; kefaletlerle birlikte tek transaction.
func CreateKafilHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateKafilRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.DonorID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "donor_id zorunlu")
		}

		inputs := make([]SponsorshipInput, 0, len(body.Sponsorships))
		for _, s := range body.Sponsorships {
			inputs = append(inputs, SponsorshipInput{WidowID: s.WidowID, Amount: s.Amount})
		}

		kafilRec, err := CreateKafil(database.DB, body.DonorID, body.MonthlyPledge, inputs)
		if err != nil {
			return mapErr(err)
		}

		if user, uErr := auth.CurrentUser(c); uErr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "kafil",
				EntityID:    kafilRec.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Kefil oluşturuldu: %s - aylık %s TL", kafilRec.Donor.Name, kafilRec.MonthlyPledge.StringFixed(2)),
				After:       kafilToResponse(kafilRec),
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(kafilToResponse(kafilRec))
	}
}

// GET /api/kafils
func ListKafilsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var kafils []models.Kafil
		if err := database.DB.
			Preload("Donor").
			Preload("Sponsorships").
			Preload("Sponsorships.Widow").
			Find(&kafils).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kefiller listelenemedi")
		}

		res := make([]KafilResponse, 0, len(kafils))
		for i := range kafils {
			res = append(res, kafilToResponse(&kafils[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/kafils/:id
func GetKafilHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		var kafilRec models.Kafil
		if err := database.DB.
			Preload("Donor").
			Preload("Sponsorships").
			Preload("Sponsorships.Widow").
			First(&kafilRec, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kefil bulunamadı")
		}

		return c.JSON(kafilToResponse(&kafilRec))
	}
}

// POST /api/kafils/:id/sponsorships
func AddSponsorshipHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		var body SponsorshipRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.WidowID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "widow_id zorunlu")
		}

		sp, err := AddSponsorship(database.DB, id, SponsorshipInput{
			WidowID: body.WidowID,
			Amount:  body.Amount,
		})
		if err != nil {
			return mapErr(err)
		}

		return c.Status(fiber.StatusCreated).JSON(SponsorshipResponse{
			ID:      sp.ID,
			WidowID: sp.WidowID,
			Amount:  sp.Amount.StringFixed(2),
		})
	}
}

// PUT /api/kafils/:id/sponsorships/:sid
func UpdateSponsorshipHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		sid, err := parseID(c, "sid")
		if err != nil {
			return err
		}

		var body UpdateSponsorshipRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		sp, err := UpdateSponsorship(database.DB, id, sid, body.Amount)
		if err != nil {
			return mapErr(err)
		}

		return c.JSON(SponsorshipResponse{
			ID:      sp.ID,
			WidowID: sp.WidowID,
			Amount:  sp.Amount.StringFixed(2),
		})
	}
}

// DELETE /api/kafils/:id/sponsorships/:sid
func RemoveSponsorshipHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		sid, err := parseID(c, "sid")
		if err != nil {
			return err
		}

		if err := RemoveSponsorship(database.DB, id, sid); err != nil {
			return mapErr(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DELETE /api/kafils/:id
// Kefilliği kaldırır, bağışçı sade bağışçıya döner.
func RemoveKafilStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		if err := RemoveKafilStatus(database.DB, id); err != nil {
			return mapErr(err)
		}

		if user, uErr := auth.CurrentUser(c); uErr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "kafil",
				EntityID:    id,
				Action:      models.AuditActionDelete,
				Description: "Kefillik kaldırıldı",
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
