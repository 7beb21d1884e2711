// Package transfer, hesaplar arası virman kayıtlarının CRUD'unu içerir.
// Bakiye hareketi yalnızca onayda olur (approval paketi).
package transfer

import (
	"fmt"
	"time"

	"dernek-backend/internal/audit"
	"dernek-backend/internal/auth"
	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateTransferRequest struct {
	FiscalYearID  uint            `json:"fiscal_year_id"`
	TransferDate  string          `json:"transfer_date"`
	FromAccountID uint            `json:"from_account_id"`
	ToAccountID   uint            `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Remarks       string          `json:"remarks"`
}

type UpdateTransferRequest struct {
	FiscalYearID  *uint            `json:"fiscal_year_id"`
	TransferDate  *string          `json:"transfer_date"`
	FromAccountID *uint            `json:"from_account_id"`
	ToAccountID   *uint            `json:"to_account_id"`
	Amount        *decimal.Decimal `json:"amount"`
	Remarks       *string          `json:"remarks"`
}

type TransferResponse struct {
	ID              uint    `json:"id"`
	FiscalYearID    uint    `json:"fiscal_year_id"`
	TransferDate    string  `json:"transfer_date"`
	FromAccountID   uint    `json:"from_account_id"`
	FromAccountName string  `json:"from_account_name,omitempty"`
	ToAccountID     uint    `json:"to_account_id"`
	ToAccountName   string  `json:"to_account_name,omitempty"`
	Amount          string  `json:"amount"`
	Remarks         string  `json:"remarks,omitempty"`
	Status          string  `json:"status"`
	CreatedBy       uint    `json:"created_by"`
	ApprovedBy      *uint   `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
}

func transferToResponse(tr *models.Transfer) TransferResponse {
	res := TransferResponse{
		ID:              tr.ID,
		FiscalYearID:    tr.FiscalYearID,
		TransferDate:    tr.TransferDate.Format("2006-01-02"),
		FromAccountID:   tr.FromAccountID,
		FromAccountName: tr.FromAccount.Name,
		ToAccountID:     tr.ToAccountID,
		ToAccountName:   tr.ToAccount.Name,
		Amount:          tr.Amount.StringFixed(2),
		Remarks:         tr.Remarks,
		Status:          string(tr.Status),
		CreatedBy:       tr.CreatedBy,
		ApprovedBy:      tr.ApprovedBy,
	}
	if tr.ApprovedAt != nil {
		s := tr.ApprovedAt.Format(time.RFC3339)
		res.ApprovedAt = &s
	}
	return res
}

func validateTransferRefs(tr *models.Transfer) error {
	if tr.FromAccountID == tr.ToAccountID {
		return fiber.NewError(fiber.StatusBadRequest, "Kaynak ve hedef hesap aynı olamaz")
	}
	if err := database.DB.First(&models.FiscalYear{}, "id = ?", tr.FiscalYearID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mali yıl bulunamadı")
	}
	if err := database.DB.First(&models.BankAccount{}, "id = ?", tr.FromAccountID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Kaynak hesap bulunamadı")
	}
	if err := database.DB.First(&models.BankAccount{}, "id = ?", tr.ToAccountID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Hedef hesap bulunamadı")
	}
	return nil
}

// POST /api/transfers
func CreateTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateTransferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if !body.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Amount pozitif olmalı")
		}
		transferDate, err := time.Parse("2006-01-02", body.TransferDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "transfer_date formatı 'YYYY-MM-DD' olmalı")
		}

		tr := models.Transfer{
			FiscalYearID:  body.FiscalYearID,
			TransferDate:  transferDate,
			FromAccountID: body.FromAccountID,
			ToAccountID:   body.ToAccountID,
			Amount:        body.Amount,
			Remarks:       body.Remarks,
			Status:        models.StatusDraft,
			CreatedBy:     user.ID,
		}

		if err := validateTransferRefs(&tr); err != nil {
			return err
		}

		if err := database.DB.Create(&tr).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Virman oluşturulamadı")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "transfer",
			EntityID:    tr.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Virman açıldı: %s TL", tr.Amount.StringFixed(2)),
			After:       tr,
		})

		database.DB.Preload("FromAccount").Preload("ToAccount").First(&tr, tr.ID)
		return c.Status(fiber.StatusCreated).JSON(transferToResponse(&tr))
	}
}

// GET /api/transfers
func ListTransfersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Transfer{})

		if v := c.Query("fiscal_year_id"); v != "" {
			dbq = dbq.Where("fiscal_year_id = ?", v)
		}
		if v := c.Query("status"); v != "" {
			dbq = dbq.Where("status = ?", v)
		}
		if v := c.Query("account_id"); v != "" {
			dbq = dbq.Where("from_account_id = ? OR to_account_id = ?", v, v)
		}
		if v := c.Query("start_date"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				dbq = dbq.Where("transfer_date >= ?", t)
			}
		}
		if v := c.Query("end_date"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				dbq = dbq.Where("transfer_date <= ?", t)
			}
		}

		var total int64
		dbq.Count(&total)

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		perPage := c.QueryInt("per_page", 20)
		if perPage < 1 || perPage > 100 {
			perPage = 20
		}

		var rows []models.Transfer
		if err := dbq.Preload("FromAccount").Preload("ToAccount").
			Order("transfer_date desc, id desc").
			Offset((page - 1) * perPage).Limit(perPage).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Virmanlar listelenemedi")
		}

		res := make([]TransferResponse, 0, len(rows))
		for i := range rows {
			res = append(res, transferToResponse(&rows[i]))
		}

		return c.JSON(fiber.Map{
			"data":     res,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		})
	}
}

// GET /api/transfers/:id
func GetTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tr models.Transfer
		if err := database.DB.Preload("FromAccount").Preload("ToAccount").
			First(&tr, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Virman bulunamadı")
		}
		return c.JSON(transferToResponse(&tr))
	}
}

// PUT /api/transfers/:id
// Sadece draft düzenlenebilir.
func UpdateTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var tr models.Transfer
		if err := database.DB.First(&tr, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Virman bulunamadı")
		}
		if tr.Status != models.StatusDraft {
			return fiber.NewError(fiber.StatusConflict, "Sadece taslak kayıtlar düzenlenebilir")
		}

		before := tr

		var body UpdateTransferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.FiscalYearID != nil {
			tr.FiscalYearID = *body.FiscalYearID
		}
		if body.TransferDate != nil {
			t, err := time.Parse("2006-01-02", *body.TransferDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "transfer_date formatı 'YYYY-MM-DD' olmalı")
			}
			tr.TransferDate = t
		}
		if body.FromAccountID != nil {
			tr.FromAccountID = *body.FromAccountID
		}
		if body.ToAccountID != nil {
			tr.ToAccountID = *body.ToAccountID
		}
		if body.Amount != nil {
			if !body.Amount.IsPositive() {
				return fiber.NewError(fiber.StatusBadRequest, "Amount pozitif olmalı")
			}
			tr.Amount = *body.Amount
		}
		if body.Remarks != nil {
			tr.Remarks = *body.Remarks
		}

		if err := validateTransferRefs(&tr); err != nil {
			return err
		}

		res := database.DB.Model(&models.Transfer{}).
			Where("id = ? AND status = ?", tr.ID, models.StatusDraft).
			Select("*").Omit("id", "status", "created_by", "created_at", "approved_by", "approved_at").
			Updates(&tr)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Virman güncellenemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Sadece taslak kayıtlar düzenlenebilir")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "transfer",
			EntityID:    tr.ID,
			Action:      models.AuditActionUpdate,
			Description: "Virman güncellendi",
			Before:      before,
			After:       tr,
		})

		database.DB.Preload("FromAccount").Preload("ToAccount").First(&tr, tr.ID)
		return c.JSON(transferToResponse(&tr))
	}
}

// DELETE /api/transfers/:id
// approved kayıt silinemez.
func DeleteTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var tr models.Transfer
		if err := database.DB.First(&tr, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Virman bulunamadı")
		}
		if tr.Status == models.StatusApproved {
			return fiber.NewError(fiber.StatusConflict, "Onaylanmış kayıt silinemez")
		}

		res := database.DB.Where("id = ? AND status <> ?", tr.ID, models.StatusApproved).
			Delete(&models.Transfer{})
		if res.Error != nil || res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Kayıt silinemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "transfer",
			EntityID:    tr.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Virman silindi: %s TL", tr.Amount.StringFixed(2)),
			Before:      tr,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
