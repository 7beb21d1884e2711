// Package approval, mali kayıtların (gelir/gider/virman) tek yönlü
// draft→approved geçişini ve buna bağlı bakiye mutasyonunu uygular.
// Her işlem tek bir transaction'dır: durum kontrolü, bakiye değişikliği ve
// onay damgası ya birlikte commit olur ya da hiçbiri. Postgres'te satırlar
// SELECT ... FOR UPDATE ile kilitlenir; aynı kaydın ikinci kez onaylanması
// her durumda status guard'lı UPDATE ile engellenir.
package approval

import (
	"errors"
	"fmt"
	"time"

	"dernek-backend/internal/apperr"
	"dernek-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Actor: İşlemi yapan kullanıcı (approved_by ve audit için).
type Actor struct {
	UserID uint
	Name   string
}

// forUpdate: Postgres'te satır kilidi ekler. Testlerin koştuğu sqlite
// FOR UPDATE sözdizimini desteklemez; orada tek yazıcı olduğu için
// status guard yeterlidir.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// lockAccount: Hesabı kilitleyip döndürür.
func lockAccount(tx *gorm.DB, id uint) (*models.BankAccount, error) {
	var acc models.BankAccount
	if err := forUpdate(tx).First(&acc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("banka hesabı bulunamadı (id=%d): %w", id, apperr.ErrValidation)
		}
		return nil, err
	}
	return &acc, nil
}

// lockAccountPair: İki hesabı her zaman küçük ID'den başlayarak kilitler.
// Aynı iki hesap arasında ters yönlü eşzamanlı virmanlarda deadlock'u önler.
func lockAccountPair(tx *gorm.DB, aID, bID uint) (*models.BankAccount, *models.BankAccount, error) {
	first, second := aID, bID
	if bID < aID {
		first, second = bID, aID
	}

	fAcc, err := lockAccount(tx, first)
	if err != nil {
		return nil, nil, err
	}
	sAcc, err := lockAccount(tx, second)
	if err != nil {
		return nil, nil, err
	}

	if fAcc.ID == aID {
		return fAcc, sAcc, nil
	}
	return sAcc, fAcc, nil
}

// transition: draft durumundaki kaydı status guard'lı UPDATE ile yeni duruma
// geçirir. RowsAffected 0 ise araya başka bir onay girmiştir.
func transition(tx *gorm.DB, model any, id uint, updates map[string]any) error {
	res := tx.Model(model).
		Where("id = ? AND status = ?", id, models.StatusDraft).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("kayıt taslak durumda değil: %w", apperr.ErrStateConflict)
	}
	return nil
}

// creditDonor: Gelire bağlı bağışçının total_given akümülatörünü artırır.
// Gelir bir kefile bağlıysa kefilin bağışçısına yazılır.
func creditDonor(tx *gorm.DB, inc *models.Income) error {
	var donorID uint
	switch {
	case inc.DonorID != nil:
		donorID = *inc.DonorID
	case inc.KafilID != nil:
		var kafil models.Kafil
		if err := tx.First(&kafil, "id = ?", *inc.KafilID).Error; err != nil {
			return err
		}
		donorID = kafil.DonorID
	default:
		return nil
	}

	var donor models.Donor
	if err := forUpdate(tx).First(&donor, "id = ?", donorID).Error; err != nil {
		return err
	}
	return tx.Model(&donor).
		UpdateColumn("total_given", donor.TotalGiven.Add(inc.Amount)).Error
}

// ApproveIncome: Geliri onaylar ve tutarı hedef banka hesabına alacak yazar.
// Kayıtta hesap yoksa bankAccountID zorunludur (nakit gelirlerde UI onay
// anında hesap seçtirir) ve onayla birlikte kayda işlenir.
func ApproveIncome(db *gorm.DB, incomeID uint, actor Actor, bankAccountID *uint) (*models.Income, error) {
	var result models.Income

	err := db.Transaction(func(tx *gorm.DB) error {
		var inc models.Income
		if err := forUpdate(tx).First(&inc, "id = ?", incomeID).Error; err != nil {
			return err
		}

		if inc.Status != models.StatusDraft {
			return fmt.Errorf("gelir zaten %s durumunda: %w", inc.Status, apperr.ErrStateConflict)
		}

		accountID := inc.BankAccountID
		if bankAccountID != nil {
			accountID = bankAccountID
		}
		if accountID == nil {
			return fmt.Errorf("onay için banka hesabı seçilmeli: %w", apperr.ErrValidation)
		}

		acc, err := lockAccount(tx, *accountID)
		if err != nil {
			return err
		}

		if err := tx.Model(acc).
			UpdateColumn("balance", acc.Balance.Add(inc.Amount)).Error; err != nil {
			return err
		}

		if err := creditDonor(tx, &inc); err != nil {
			return err
		}

		now := time.Now()
		if err := transition(tx, &models.Income{}, inc.ID, map[string]any{
			"status":          models.StatusApproved,
			"approved_by":     actor.UserID,
			"approved_at":     now,
			"bank_account_id": *accountID,
		}); err != nil {
			return err
		}

		return tx.First(&result, "id = ?", inc.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ApproveExpense: Gideri onaylar ve tutarı hesaptan düşer. Bakiye negatife
// düşecekse onay reddedilir.
func ApproveExpense(db *gorm.DB, expenseID uint, actor Actor, bankAccountID *uint) (*models.Expense, error) {
	var result models.Expense

	err := db.Transaction(func(tx *gorm.DB) error {
		var exp models.Expense
		if err := forUpdate(tx).First(&exp, "id = ?", expenseID).Error; err != nil {
			return err
		}

		if exp.Status != models.StatusDraft {
			return fmt.Errorf("gider zaten %s durumunda: %w", exp.Status, apperr.ErrStateConflict)
		}

		accountID := exp.BankAccountID
		if bankAccountID != nil {
			accountID = bankAccountID
		}
		if accountID == nil {
			return fmt.Errorf("nakit gider için banka hesabı seçilmeli: %w", apperr.ErrValidation)
		}

		acc, err := lockAccount(tx, *accountID)
		if err != nil {
			return err
		}

		newBalance := acc.Balance.Sub(exp.Amount)
		if newBalance.IsNegative() {
			return fmt.Errorf("yetersiz bakiye (%s): %w", acc.Balance.StringFixed(2), apperr.ErrValidation)
		}

		if err := tx.Model(acc).UpdateColumn("balance", newBalance).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := transition(tx, &models.Expense{}, exp.ID, map[string]any{
			"status":          models.StatusApproved,
			"approved_by":     actor.UserID,
			"approved_at":     now,
			"bank_account_id": *accountID,
		}); err != nil {
			return err
		}

		return tx.First(&result, "id = ?", exp.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ApproveTransfer: Virmanı onaylar; kaynaktan düşer, hedefe ekler.
// İki hesap mutasyonu ve durum geçişi aynı transaction'dadır.
func ApproveTransfer(db *gorm.DB, transferID uint, actor Actor, remarks *string) (*models.Transfer, error) {
	var result models.Transfer

	err := db.Transaction(func(tx *gorm.DB) error {
		var tr models.Transfer
		if err := forUpdate(tx).First(&tr, "id = ?", transferID).Error; err != nil {
			return err
		}

		if tr.Status != models.StatusDraft {
			return fmt.Errorf("virman zaten %s durumunda: %w", tr.Status, apperr.ErrStateConflict)
		}
		if tr.FromAccountID == tr.ToAccountID {
			return fmt.Errorf("kaynak ve hedef hesap aynı olamaz: %w", apperr.ErrValidation)
		}

		from, to, err := lockAccountPair(tx, tr.FromAccountID, tr.ToAccountID)
		if err != nil {
			return err
		}

		newFromBalance := from.Balance.Sub(tr.Amount)
		if newFromBalance.IsNegative() {
			return fmt.Errorf("kaynak hesapta yetersiz bakiye (%s): %w", from.Balance.StringFixed(2), apperr.ErrValidation)
		}

		if err := tx.Model(from).UpdateColumn("balance", newFromBalance).Error; err != nil {
			return err
		}
		if err := tx.Model(to).
			UpdateColumn("balance", to.Balance.Add(tr.Amount)).Error; err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]any{
			"status":      models.StatusApproved,
			"approved_by": actor.UserID,
			"approved_at": now,
		}
		if remarks != nil {
			updates["remarks"] = *remarks // son yazan kazanır
		}
		if err := transition(tx, &models.Transfer{}, tr.ID, updates); err != nil {
			return err
		}

		return tx.First(&result, "id = ?", tr.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
