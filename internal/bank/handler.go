package bank

import (
	"strings"

	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateBankAccountRequest struct {
	Name          string          `json:"name"`
	BankName      string          `json:"bank_name"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"` // açılış bakiyesi
	Description   string          `json:"description"`
}

type UpdateBankAccountRequest struct {
	Name          *string `json:"name"`
	BankName      *string `json:"bank_name"`
	AccountNumber *string `json:"account_number"`
	Description   *string `json:"description"`
	IsActive      *bool   `json:"is_active"`
}

type BankAccountResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	Balance       string `json:"balance"`
	Description   string `json:"description"`
	IsActive      bool   `json:"is_active"`
}

func accountToResponse(a *models.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance.StringFixed(2),
		Description:   a.Description,
		IsActive:      a.IsActive,
	}
}

// POST /api/admin/bank-accounts (admin)
func CreateBankAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBankAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}
		if body.Balance.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Açılış bakiyesi negatif olamaz")
		}

		acc := models.BankAccount{
			Name:          body.Name,
			BankName:      body.BankName,
			AccountNumber: body.AccountNumber,
			Balance:       body.Balance,
			Description:   body.Description,
			IsActive:      true,
		}

		if err := database.DB.Create(&acc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(accountToResponse(&acc))
	}
}

// GET /api/bank-accounts
func ListBankAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accounts []models.BankAccount
		if err := database.DB.Order("name asc").Find(&accounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesaplar listelenemedi")
		}

		res := make([]BankAccountResponse, 0, len(accounts))
		for i := range accounts {
			res = append(res, accountToResponse(&accounts[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/bank-accounts/:id (admin)
// Bakiye buradan güncellenemez; bakiyeyi sadece onay motoru değiştirir.
func UpdateBankAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var acc models.BankAccount
		if err := database.DB.First(&acc, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		var body UpdateBankAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			acc.Name = name
		}
		if body.BankName != nil {
			acc.BankName = *body.BankName
		}
		if body.AccountNumber != nil {
			acc.AccountNumber = *body.AccountNumber
		}
		if body.Description != nil {
			acc.Description = *body.Description
		}
		if body.IsActive != nil {
			acc.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&acc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap güncellenemedi")
		}

		return c.JSON(accountToResponse(&acc))
	}
}

// DELETE /api/admin/bank-accounts/:id (admin)
// Üzerinde mali kayıt olan hesap silinemez; para geçmişini sahte bir
// hesaba yönlendirmek bakiyeleri bozar (kategorilerdeki sentinel'in
// aksine burada yönlendirme yok).
func DeleteBankAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var acc models.BankAccount
		if err := database.DB.First(&acc, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		var refCount int64
		database.DB.Model(&models.Income{}).Where("bank_account_id = ?", acc.ID).Count(&refCount)
		if refCount == 0 {
			database.DB.Model(&models.Expense{}).Where("bank_account_id = ?", acc.ID).Count(&refCount)
		}
		if refCount == 0 {
			database.DB.Model(&models.Transfer{}).
				Where("from_account_id = ? OR to_account_id = ?", acc.ID, acc.ID).
				Count(&refCount)
		}
		if refCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Üzerinde mali kayıt olan hesap silinemez")
		}

		if err := database.DB.Delete(&acc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
