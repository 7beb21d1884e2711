package approval

import (
	"errors"
	"fmt"

	"dernek-backend/internal/apperr"
	"dernek-backend/internal/audit"
	"dernek-backend/internal/auth"
	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ApproveRequest struct {
	BankAccountID *uint   `json:"bank_account_id"` // nakit kayıtlar için zorunlu olabilir
	Remarks       *string `json:"remarks"`
}

type TransferToBankRequest struct {
	BankAccountID uint    `json:"bank_account_id"`
	TransferredAt string  `json:"transferred_at"` // "2025-12-09"
	Remarks       *string `json:"remarks"`
}

// mapErr: Servis hatalarını HTTP status'e çevirir.
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

func parseID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
	}
	return id, nil
}

func actorFrom(c *fiber.Ctx) (Actor, error) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: user.ID, Name: user.Name}, nil
}

// POST /api/incomes/:id/approve (admin)
func ApproveIncomeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		var body ApproveRequest
		_ = c.BodyParser(&body) // gövde opsiyonel

		inc, err := ApproveIncome(database.DB, id, actor, body.BankAccountID)
		if err != nil {
			return mapErr(err)
		}

		writeApprovalLog(actor, "income", inc.ID, models.AuditActionApprove,
			fmt.Sprintf("Gelir onaylandı: %s TL", inc.Amount.StringFixed(2)))

		return c.JSON(incomeWithBalance(inc))
	}
}

// POST /api/expenses/:id/approve (admin)
func ApproveExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		var body ApproveRequest
		_ = c.BodyParser(&body)

		exp, err := ApproveExpense(database.DB, id, actor, body.BankAccountID)
		if err != nil {
			return mapErr(err)
		}

		writeApprovalLog(actor, "expense", exp.ID, models.AuditActionApprove,
			fmt.Sprintf("Gider onaylandı: %s TL", exp.Amount.StringFixed(2)))

		return c.JSON(expenseWithBalance(exp))
	}
}

// POST /api/transfers/:id/approve (admin)
func ApproveTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		var body ApproveRequest
		_ = c.BodyParser(&body)

		tr, err := ApproveTransfer(database.DB, id, actor, body.Remarks)
		if err != nil {
			return mapErr(err)
		}

		writeApprovalLog(actor, "transfer", tr.ID, models.AuditActionApprove,
			fmt.Sprintf("Virman onaylandı: %s TL", tr.Amount.StringFixed(2)))

		return c.JSON(transferWithBalances(tr))
	}
}

// POST /api/incomes/:id/reject (admin)
func RejectIncomeHandler() fiber.Handler {
	return rejectHandler("income", func(id uint, actor Actor, remarks *string) (any, uint, error) {
		inc, err := RejectIncome(database.DB, id, actor, remarks)
		if err != nil {
			return nil, 0, err
		}
		return inc, inc.ID, nil
	})
}

// POST /api/expenses/:id/reject (admin)
func RejectExpenseHandler() fiber.Handler {
	return rejectHandler("expense", func(id uint, actor Actor, remarks *string) (any, uint, error) {
		exp, err := RejectExpense(database.DB, id, actor, remarks)
		if err != nil {
			return nil, 0, err
		}
		return exp, exp.ID, nil
	})
}

// POST /api/transfers/:id/reject (admin)
func RejectTransferHandler() fiber.Handler {
	return rejectHandler("transfer", func(id uint, actor Actor, remarks *string) (any, uint, error) {
		tr, err := RejectTransfer(database.DB, id, actor, remarks)
		if err != nil {
			return nil, 0, err
		}
		return tr, tr.ID, nil
	})
}

func rejectHandler(entityType string, fn func(uint, Actor, *string) (any, uint, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		var body ApproveRequest
		_ = c.BodyParser(&body)

		entry, entryID, err := fn(id, actor, body.Remarks)
		if err != nil {
			return mapErr(err)
		}

		writeApprovalLog(actor, entityType, entryID, models.AuditActionReject, "Kayıt reddedildi")

		return c.JSON(entry)
	}
}

// POST /api/incomes/:id/transfer-to-bank
func TransferIncomeToBankHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		var body TransferToBankRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.BankAccountID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "bank_account_id zorunlu")
		}

		transferredAt, err := parseDate(body.TransferredAt)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "transferred_at formatı 'YYYY-MM-DD' olmalı")
		}

		inc, err := MarkIncomeTransferred(database.DB, id, actor, body.BankAccountID, transferredAt, body.Remarks)
		if err != nil {
			return mapErr(err)
		}

		writeApprovalLog(actor, "income", inc.ID, models.AuditActionTransfer,
			fmt.Sprintf("Gelir bankaya aktarıldı: %s TL", inc.Amount.StringFixed(2)))

		return c.JSON(incomeWithBalance(inc))
	}
}

func writeApprovalLog(actor Actor, entityType string, entityID uint, action models.AuditAction, desc string) {
	if err := audit.WriteLog(audit.LogOptions{
		UserID:      actor.UserID,
		UserName:    actor.Name,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: desc,
	}); err != nil {
		// Log hatası kritik değil
		fmt.Printf("Audit log yazılamadı: %v\n", err)
	}
}
