package widow

import (
	"dernek-backend/internal/models"

	"gorm.io/gorm"
)

// DeleteWidow: Dul kadını bağlı kayıtlarıyla birlikte siler: yetimleri,
// üzerine yapılmış kefaletler ve grup üyelikleri. Gider dağılım satırları
// (ExpenseBeneficiary) tarihsel kayıt olduğu için silinmez; okuma tarafı
// kopuk referansı işaretler. Tek transaction.
func DeleteWidow(db *gorm.DB, widowID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var w models.Widow
		if err := tx.First(&w, "id = ?", widowID).Error; err != nil {
			return err
		}

		var orphans []models.Orphan
		if err := tx.Find(&orphans, "widow_id = ?", w.ID).Error; err != nil {
			return err
		}

		// Yetimlerin grup üyelikleri
		for _, o := range orphans {
			if err := tx.Delete(&models.BeneficiaryGroupMember{},
				"beneficiary_type = ? AND beneficiary_id = ?",
				models.BeneficiaryTypeOrphan, o.ID).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.Orphan{}, "widow_id = ?", w.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Sponsorship{}, "widow_id = ?", w.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.BeneficiaryGroupMember{},
			"beneficiary_type = ? AND beneficiary_id = ?",
			models.BeneficiaryTypeWidow, w.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&w).Error
	})
}
