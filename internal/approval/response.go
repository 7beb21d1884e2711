package approval

import (
	"time"

	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Onay cevapları güncellenen kaydın yanında etkilenen hesapların yeni
// bakiyesini de döner; UI tekrar fetch yapmadan bakiyeyi gösterebilsin.

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func accountBalance(id *uint) fiber.Map {
	if id == nil {
		return nil
	}
	var acc models.BankAccount
	if err := database.DB.First(&acc, "id = ?", *id).Error; err != nil {
		return nil
	}
	return fiber.Map{
		"id":      acc.ID,
		"name":    acc.Name,
		"balance": acc.Balance.StringFixed(2),
	}
}

func stamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func incomeWithBalance(inc *models.Income) fiber.Map {
	return fiber.Map{
		"id":              inc.ID,
		"status":          inc.Status,
		"amount":          inc.Amount.StringFixed(2),
		"payment_method":  inc.PaymentMethod,
		"bank_account_id": inc.BankAccountID,
		"approved_by":     inc.ApprovedBy,
		"approved_at":     stamp(inc.ApprovedAt),
		"transferred_at":  stamp(inc.TransferredAt),
		"remarks":         inc.Remarks,
		"bank_account":    accountBalance(inc.BankAccountID),
	}
}

func expenseWithBalance(exp *models.Expense) fiber.Map {
	return fiber.Map{
		"id":              exp.ID,
		"status":          exp.Status,
		"amount":          exp.Amount.StringFixed(2),
		"payment_method":  exp.PaymentMethod,
		"bank_account_id": exp.BankAccountID,
		"approved_by":     exp.ApprovedBy,
		"approved_at":     stamp(exp.ApprovedAt),
		"remarks":         exp.Remarks,
		"bank_account":    accountBalance(exp.BankAccountID),
	}
}

func transferWithBalances(tr *models.Transfer) fiber.Map {
	return fiber.Map{
		"id":           tr.ID,
		"status":       tr.Status,
		"amount":       tr.Amount.StringFixed(2),
		"remarks":      tr.Remarks,
		"approved_by":  tr.ApprovedBy,
		"approved_at":  stamp(tr.ApprovedAt),
		"from_account": accountBalance(&tr.FromAccountID),
		"to_account":   accountBalance(&tr.ToAccountID),
	}
}
