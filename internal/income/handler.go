// Package income, gelir kayıtlarının CRUD'unu içerir. Kayıtlar draft açılır;
// onay/ret ve bankaya aktarma akışları approval paketindedir. approved kayıt
// burada değiştirilemez ve silinemez.
package income

import (
	"fmt"
	"time"

	"dernek-backend/internal/audit"
	"dernek-backend/internal/auth"
	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateIncomeRequest struct {
	FiscalYearID     uint            `json:"fiscal_year_id"`
	SubBudgetID      uint            `json:"sub_budget_id"`
	IncomeCategoryID uint            `json:"income_category_id"`
	DonorID          *uint           `json:"donor_id"`
	KafilID          *uint           `json:"kafil_id"`
	IncomeDate       string          `json:"income_date"` // "2025-12-09"
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method"`
	ChequeNumber     string          `json:"cheque_number"`
	ReceiptNumber    string          `json:"receipt_number"`
	BankAccountID    *uint           `json:"bank_account_id"`
	Remarks          string          `json:"remarks"`
}

type UpdateIncomeRequest struct {
	FiscalYearID     *uint            `json:"fiscal_year_id"`
	SubBudgetID      *uint            `json:"sub_budget_id"`
	IncomeCategoryID *uint            `json:"income_category_id"`
	DonorID          *uint            `json:"donor_id"`
	KafilID          *uint            `json:"kafil_id"`
	IncomeDate       *string          `json:"income_date"`
	Amount           *decimal.Decimal `json:"amount"`
	PaymentMethod    *string          `json:"payment_method"`
	ChequeNumber     *string          `json:"cheque_number"`
	ReceiptNumber    *string          `json:"receipt_number"`
	BankAccountID    *uint            `json:"bank_account_id"`
	Remarks          *string          `json:"remarks"`
}

type IncomeResponse struct {
	ID               uint    `json:"id"`
	FiscalYearID     uint    `json:"fiscal_year_id"`
	SubBudgetID      uint    `json:"sub_budget_id"`
	IncomeCategoryID uint    `json:"income_category_id"`
	CategoryName     string  `json:"category_name,omitempty"`
	DonorID          *uint   `json:"donor_id"`
	DonorName        string  `json:"donor_name,omitempty"`
	KafilID          *uint   `json:"kafil_id"`
	IncomeDate       string  `json:"income_date"`
	Amount           string  `json:"amount"`
	PaymentMethod    string  `json:"payment_method"`
	ChequeNumber     string  `json:"cheque_number,omitempty"`
	ReceiptNumber    string  `json:"receipt_number,omitempty"`
	BankAccountID    *uint   `json:"bank_account_id"`
	Remarks          string  `json:"remarks,omitempty"`
	Status           string  `json:"status"`
	CreatedBy        uint    `json:"created_by"`
	ApprovedBy       *uint   `json:"approved_by,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	TransferredAt    *string `json:"transferred_at,omitempty"`
}

func stamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func incomeToResponse(inc *models.Income) IncomeResponse {
	res := IncomeResponse{
		ID:               inc.ID,
		FiscalYearID:     inc.FiscalYearID,
		SubBudgetID:      inc.SubBudgetID,
		IncomeCategoryID: inc.IncomeCategoryID,
		CategoryName:     inc.IncomeCategory.Name,
		DonorID:          inc.DonorID,
		KafilID:          inc.KafilID,
		IncomeDate:       inc.IncomeDate.Format("2006-01-02"),
		Amount:           inc.Amount.StringFixed(2),
		PaymentMethod:    string(inc.PaymentMethod),
		ChequeNumber:     inc.ChequeNumber,
		ReceiptNumber:    inc.ReceiptNumber,
		BankAccountID:    inc.BankAccountID,
		Remarks:          inc.Remarks,
		Status:           string(inc.Status),
		CreatedBy:        inc.CreatedBy,
		ApprovedBy:       inc.ApprovedBy,
		ApprovedAt:       stamp(inc.ApprovedAt),
		TransferredAt:    stamp(inc.TransferredAt),
	}
	if inc.Donor != nil {
		res.DonorName = inc.Donor.Name
	}
	return res
}

// validateRefs: FK hedeflerinin varlığını ve bağışçı/kefil tekilliğini kontrol eder.
func validateRefs(inc *models.Income) error {
	if inc.DonorID != nil && inc.KafilID != nil {
		return fiber.NewError(fiber.StatusBadRequest, "donor_id ve kafil_id aynı anda verilemez")
	}
	if err := database.DB.First(&models.FiscalYear{}, "id = ?", inc.FiscalYearID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mali yıl bulunamadı")
	}
	if err := database.DB.First(&models.SubBudget{}, "id = ?", inc.SubBudgetID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Alt bütçe bulunamadı")
	}
	if err := database.DB.First(&models.IncomeCategory{}, "id = ?", inc.IncomeCategoryID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Gelir kategorisi bulunamadı")
	}
	if inc.DonorID != nil {
		if err := database.DB.First(&models.Donor{}, "id = ?", *inc.DonorID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bağışçı bulunamadı")
		}
	}
	if inc.KafilID != nil {
		if err := database.DB.First(&models.Kafil{}, "id = ?", *inc.KafilID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kefil bulunamadı")
		}
	}
	if inc.BankAccountID != nil {
		if err := database.DB.First(&models.BankAccount{}, "id = ?", *inc.BankAccountID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Banka hesabı bulunamadı")
		}
	}
	return nil
}

// POST /api/incomes
func CreateIncomeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateIncomeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if !body.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Amount pozitif olmalı")
		}
		method := models.PaymentMethod(body.PaymentMethod)
		if !method.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "payment_method 'cash', 'cheque' veya 'bank_wire' olmalı")
		}
		incomeDate, err := time.Parse("2006-01-02", body.IncomeDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "income_date formatı 'YYYY-MM-DD' olmalı")
		}

		inc := models.Income{
			FiscalYearID:     body.FiscalYearID,
			SubBudgetID:      body.SubBudgetID,
			IncomeCategoryID: body.IncomeCategoryID,
			DonorID:          body.DonorID,
			KafilID:          body.KafilID,
			IncomeDate:       incomeDate,
			Amount:           body.Amount,
			PaymentMethod:    method,
			ChequeNumber:     body.ChequeNumber,
			ReceiptNumber:    body.ReceiptNumber,
			BankAccountID:    body.BankAccountID,
			Remarks:          body.Remarks,
			Status:           models.StatusDraft,
			CreatedBy:        user.ID,
		}

		if err := validateRefs(&inc); err != nil {
			return err
		}

		if err := database.DB.Create(&inc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gelir kaydı oluşturulamadı")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "income",
			EntityID:    inc.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Gelir kaydı açıldı: %s TL", inc.Amount.StringFixed(2)),
			After:       inc,
		})

		return c.Status(fiber.StatusCreated).JSON(incomeToResponse(&inc))
	}
}

// GET /api/incomes
// Filtreler: fiscal_year_id, sub_budget_id, category_id, donor_id, kafil_id,
// payment_method, status, start_date, end_date, min_amount, max_amount, q.
// Sayfalama: page, per_page.
func ListIncomesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Income{})

		if v := c.Query("fiscal_year_id"); v != "" {
			dbq = dbq.Where("fiscal_year_id = ?", v)
		}
		if v := c.Query("sub_budget_id"); v != "" {
			dbq = dbq.Where("sub_budget_id = ?", v)
		}
		if v := c.Query("category_id"); v != "" {
			dbq = dbq.Where("income_category_id = ?", v)
		}
		if v := c.Query("donor_id"); v != "" {
			dbq = dbq.Where("donor_id = ?", v)
		}
		if v := c.Query("kafil_id"); v != "" {
			dbq = dbq.Where("kafil_id = ?", v)
		}
		if v := c.Query("payment_method"); v != "" {
			dbq = dbq.Where("payment_method = ?", v)
		}
		if v := c.Query("status"); v != "" {
			dbq = dbq.Where("status = ?", v)
		}
		if v := c.Query("start_date"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				dbq = dbq.Where("income_date >= ?", t)
			}
		}
		if v := c.Query("end_date"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				dbq = dbq.Where("income_date <= ?", t)
			}
		}
		if v := c.Query("min_amount"); v != "" {
			dbq = dbq.Where("amount >= ?", v)
		}
		if v := c.Query("max_amount"); v != "" {
			dbq = dbq.Where("amount <= ?", v)
		}
		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("remarks LIKE ? OR receipt_number LIKE ?", like, like)
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

		var rows []models.Income
		if err := dbq.Preload("IncomeCategory").Preload("Donor").
			Order("income_date desc, id desc").
			Offset((page - 1) * perPage).Limit(perPage).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gelirler listelenemedi")
		}

		res := make([]IncomeResponse, 0, len(rows))
		for i := range rows {
			res = append(res, incomeToResponse(&rows[i]))
		}

		return c.JSON(fiber.Map{
			"data":     res,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		})
	}
}

// GET /api/incomes/:id
func GetIncomeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var inc models.Income
		if err := database.DB.Preload("IncomeCategory").Preload("Donor").
			First(&inc, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gelir kaydı bulunamadı")
		}
		return c.JSON(incomeToResponse(&inc))
	}
}

// PUT /api/incomes/:id
// Sadece draft düzenlenebilir; approved değişmezdir, rejected yeniden açılamaz.
func UpdateIncomeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var inc models.Income
		if err := database.DB.First(&inc, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gelir kaydı bulunamadı")
		}
		if inc.Status != models.StatusDraft {
			return fiber.NewError(fiber.StatusConflict, "Sadece taslak kayıtlar düzenlenebilir")
		}

		before := inc

		var body UpdateIncomeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.FiscalYearID != nil {
			inc.FiscalYearID = *body.FiscalYearID
		}
		if body.SubBudgetID != nil {
			inc.SubBudgetID = *body.SubBudgetID
		}
		if body.IncomeCategoryID != nil {
			inc.IncomeCategoryID = *body.IncomeCategoryID
		}
		if body.DonorID != nil {
			if *body.DonorID == 0 {
				inc.DonorID = nil
			} else {
				inc.DonorID = body.DonorID
			}
		}
		if body.KafilID != nil {
			if *body.KafilID == 0 {
				inc.KafilID = nil
			} else {
				inc.KafilID = body.KafilID
			}
		}
		if body.IncomeDate != nil {
			t, err := time.Parse("2006-01-02", *body.IncomeDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "income_date formatı 'YYYY-MM-DD' olmalı")
			}
			inc.IncomeDate = t
		}
		if body.Amount != nil {
			if !body.Amount.IsPositive() {
				return fiber.NewError(fiber.StatusBadRequest, "Amount pozitif olmalı")
			}
			inc.Amount = *body.Amount
		}
		if body.PaymentMethod != nil {
			method := models.PaymentMethod(*body.PaymentMethod)
			if !method.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "payment_method 'cash', 'cheque' veya 'bank_wire' olmalı")
			}
			inc.PaymentMethod = method
		}
		if body.ChequeNumber != nil {
			inc.ChequeNumber = *body.ChequeNumber
		}
		if body.ReceiptNumber != nil {
			inc.ReceiptNumber = *body.ReceiptNumber
		}
		if body.BankAccountID != nil {
			if *body.BankAccountID == 0 {
				inc.BankAccountID = nil
			} else {
				inc.BankAccountID = body.BankAccountID
			}
		}
		if body.Remarks != nil {
			inc.Remarks = *body.Remarks
		}

		if err := validateRefs(&inc); err != nil {
			return err
		}

		// Draft-only kuralını yarış koşullarında da korumak için status guard'lı yaz
		res := database.DB.Model(&models.Income{}).
			Where("id = ? AND status = ?", inc.ID, models.StatusDraft).
			Select("*").Omit("id", "status", "created_by", "created_at", "approved_by", "approved_at", "transferred_at").
			Updates(&inc)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gelir kaydı güncellenemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Sadece taslak kayıtlar düzenlenebilir")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "income",
			EntityID:    inc.ID,
			Action:      models.AuditActionUpdate,
			Description: "Gelir kaydı güncellendi",
			Before:      before,
			After:       inc,
		})

		return c.JSON(incomeToResponse(&inc))
	}
}

// DELETE /api/incomes/:id
// approved kayıt silinemez; draft ve rejected silinebilir.
func DeleteIncomeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var inc models.Income
		if err := database.DB.First(&inc, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gelir kaydı bulunamadı")
		}
		if inc.Status == models.StatusApproved {
			return fiber.NewError(fiber.StatusConflict, "Onaylanmış kayıt silinemez")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Where("id = ? AND status <> ?", inc.ID, models.StatusApproved).
				Delete(&models.Income{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusConflict, "Kayıt silinemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "income",
			EntityID:    inc.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Gelir kaydı silindi: %s TL", inc.Amount.StringFixed(2)),
			Before:      inc,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
