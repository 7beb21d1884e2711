package approval

import (
	"fmt"
	"time"

	"dernek-backend/internal/apperr"
	"dernek-backend/internal/models"

	"gorm.io/gorm"
)

// Reject*: draft→rejected geçişi. Bakiye etkisi yoktur; rejected uç
// durumdur, tekrar onaylanamaz ve düzenlenemez (silinebilir).

func RejectIncome(db *gorm.DB, incomeID uint, actor Actor, remarks *string) (*models.Income, error) {
	var result models.Income
	err := rejectEntry(db, &models.Income{}, incomeID, remarks, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func RejectExpense(db *gorm.DB, expenseID uint, actor Actor, remarks *string) (*models.Expense, error) {
	var result models.Expense
	err := rejectEntry(db, &models.Expense{}, expenseID, remarks, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func RejectTransfer(db *gorm.DB, transferID uint, actor Actor, remarks *string) (*models.Transfer, error) {
	var result models.Transfer
	err := rejectEntry(db, &models.Transfer{}, transferID, remarks, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func rejectEntry(db *gorm.DB, model any, id uint, remarks *string, out any) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Önce var mı diye bak ki 404 ile 409 ayrışsın
		if err := forUpdate(tx).First(model, "id = ?", id).Error; err != nil {
			return err
		}

		updates := map[string]any{"status": models.StatusRejected}
		if remarks != nil {
			updates["remarks"] = *remarks
		}
		if err := transition(tx, model, id, updates); err != nil {
			return err
		}

		return tx.First(out, "id = ?", id).Error
	})
}

// MarkIncomeTransferred: Onaylanmış nakit/çek gelirin bankaya fiilen
// yatırıldığını damgalar. Hesap değişiyorsa tutar eski hesaptan düşülüp
// yeni hesaba eklenir; "bağış onaylandı" ile "para kasada/bankada" arasındaki
// gerçek dünya gecikmesini modeller.
func MarkIncomeTransferred(db *gorm.DB, incomeID uint, actor Actor, bankAccountID uint, transferredAt time.Time, remarks *string) (*models.Income, error) {
	var result models.Income

	err := db.Transaction(func(tx *gorm.DB) error {
		var inc models.Income
		if err := forUpdate(tx).First(&inc, "id = ?", incomeID).Error; err != nil {
			return err
		}

		if inc.Status != models.StatusApproved {
			return fmt.Errorf("sadece onaylanmış gelirler bankaya aktarılabilir: %w", apperr.ErrStateConflict)
		}
		if inc.PaymentMethod != models.PaymentMethodCash && inc.PaymentMethod != models.PaymentMethodCheque {
			return fmt.Errorf("banka aktarımı sadece nakit/çek gelirler için geçerli: %w", apperr.ErrValidation)
		}

		// Hesap değişiyorsa parayı eski hesaptan yeni hesaba taşı
		if inc.BankAccountID != nil && *inc.BankAccountID != bankAccountID {
			oldAcc, newAcc, err := lockAccountPair(tx, *inc.BankAccountID, bankAccountID)
			if err != nil {
				return err
			}
			if err := tx.Model(oldAcc).
				UpdateColumn("balance", oldAcc.Balance.Sub(inc.Amount)).Error; err != nil {
				return err
			}
			if err := tx.Model(newAcc).
				UpdateColumn("balance", newAcc.Balance.Add(inc.Amount)).Error; err != nil {
				return err
			}
		} else if _, err := lockAccount(tx, bankAccountID); err != nil {
			return err
		}

		updates := map[string]any{
			"transferred_at":  transferredAt,
			"bank_account_id": bankAccountID,
		}
		if remarks != nil {
			updates["remarks"] = *remarks
		}
		if err := tx.Model(&models.Income{}).
			Where("id = ?", inc.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		return tx.First(&result, "id = ?", inc.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
