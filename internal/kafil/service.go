// Package kafil, kefil (aylık taahhütlü bağışçı) ve kefalet yönetimini
// uygular. Temel kural: bir kefilin kefaletlerinin toplamı aylık taahhüdünü
// aşamaz; her create/update burada sunucu tarafında doğrulanır.
package kafil

import (
	"errors"
	"fmt"

	"dernek-backend/internal/apperr"
	"dernek-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SponsorshipInput struct {
	WidowID uint
	Amount  decimal.Decimal
}

// pledgeTotal: Kefilin mevcut kefalet toplamı. excludeID > 0 ise o kefalet
// toplam dışında tutulur (update senaryosu).
func pledgeTotal(db *gorm.DB, kafilID uint, excludeID uint) (decimal.Decimal, error) {
	var rows []models.Sponsorship
	q := db.Where("kafil_id = ?", kafilID)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&rows).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, s := range rows {
		total = total.Add(s.Amount)
	}
	return total, nil
}

// checkPledgeCap: total + eklenecek tutar taahhüdü aşıyorsa ErrValidation.
func checkPledgeCap(kafil *models.Kafil, current, adding decimal.Decimal) error {
	if current.Add(adding).GreaterThan(kafil.MonthlyPledge) {
		return fmt.Errorf("kefalet toplamı (%s) aylık taahhüdü (%s) aşıyor: %w",
			current.Add(adding).StringFixed(2), kafil.MonthlyPledge.StringFixed(2), apperr.ErrValidation)
	}
	return nil
}

// CreateKafil: Bağışçıyı kefile dönüştürür. Kafil kaydı, kefaletler ve
// donor.is_kafil bayrağı tek transaction'da yazılır; yarım kalmış
// "kefil ama bayrak false" durumu oluşamaz.
func CreateKafil(db *gorm.DB, donorID uint, monthlyPledge decimal.Decimal, sponsorships []SponsorshipInput) (*models.Kafil, error) {
	if !monthlyPledge.IsPositive() {
		return nil, fmt.Errorf("aylık taahhüt pozitif olmalı: %w", apperr.ErrValidation)
	}

	var result models.Kafil

	err := db.Transaction(func(tx *gorm.DB) error {
		var donor models.Donor
		if err := tx.First(&donor, "id = ?", donorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("bağışçı bulunamadı: %w", apperr.ErrValidation)
			}
			return err
		}
		if donor.IsKafil {
			return fmt.Errorf("bağışçı zaten kefil: %w", apperr.ErrStateConflict)
		}

		kafil := models.Kafil{
			DonorID:       donorID,
			MonthlyPledge: monthlyPledge,
		}
		if err := tx.Create(&kafil).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, s := range sponsorships {
			if !s.Amount.IsPositive() {
				return fmt.Errorf("kefalet tutarı pozitif olmalı: %w", apperr.ErrValidation)
			}
			if err := tx.First(&models.Widow{}, "id = ?", s.WidowID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("dul kadın bulunamadı (id=%d): %w", s.WidowID, apperr.ErrValidation)
				}
				return err
			}
			if err := checkPledgeCap(&kafil, total, s.Amount); err != nil {
				return err
			}
			total = total.Add(s.Amount)

			sp := models.Sponsorship{
				KafilID: kafil.ID,
				WidowID: s.WidowID,
				Amount:  s.Amount,
			}
			if err := tx.Create(&sp).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&donor).UpdateColumn("is_kafil", true).Error; err != nil {
			return err
		}

		return tx.Preload("Sponsorships").Preload("Donor").
			First(&result, "id = ?", kafil.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AddSponsorship: Kefile yeni kefalet ekler (limit kontrolü ile).
func AddSponsorship(db *gorm.DB, kafilID uint, input SponsorshipInput) (*models.Sponsorship, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("kefalet tutarı pozitif olmalı: %w", apperr.ErrValidation)
	}

	var result models.Sponsorship

	err := db.Transaction(func(tx *gorm.DB) error {
		var kafil models.Kafil
		if err := tx.First(&kafil, "id = ?", kafilID).Error; err != nil {
			return err
		}
		if err := tx.First(&models.Widow{}, "id = ?", input.WidowID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("dul kadın bulunamadı: %w", apperr.ErrValidation)
			}
			return err
		}

		total, err := pledgeTotal(tx, kafilID, 0)
		if err != nil {
			return err
		}
		if err := checkPledgeCap(&kafil, total, input.Amount); err != nil {
			return err
		}

		result = models.Sponsorship{
			KafilID: kafilID,
			WidowID: input.WidowID,
			Amount:  input.Amount,
		}
		return tx.Create(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateSponsorship: Kefalet tutarını günceller (limit kontrolü ile).
func UpdateSponsorship(db *gorm.DB, kafilID, sponsorshipID uint, amount decimal.Decimal) (*models.Sponsorship, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("kefalet tutarı pozitif olmalı: %w", apperr.ErrValidation)
	}

	var result models.Sponsorship

	err := db.Transaction(func(tx *gorm.DB) error {
		var kafil models.Kafil
		if err := tx.First(&kafil, "id = ?", kafilID).Error; err != nil {
			return err
		}

		var sp models.Sponsorship
		if err := tx.First(&sp, "id = ? AND kafil_id = ?", sponsorshipID, kafilID).Error; err != nil {
			return err
		}

		total, err := pledgeTotal(tx, kafilID, sp.ID)
		if err != nil {
			return err
		}
		if err := checkPledgeCap(&kafil, total, amount); err != nil {
			return err
		}

		if err := tx.Model(&sp).UpdateColumn("amount", amount).Error; err != nil {
			return err
		}

		return tx.First(&result, "id = ?", sp.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveSponsorship: Kefaleti siler.
func RemoveSponsorship(db *gorm.DB, kafilID, sponsorshipID uint) error {
	res := db.Delete(&models.Sponsorship{}, "id = ? AND kafil_id = ?", sponsorshipID, kafilID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveKafilStatus: Kefilliği kaldırır: tüm kefaletler ve kafil kaydı
// silinir, bağışçının is_kafil bayrağı geri çekilir. Tek transaction.
func RemoveKafilStatus(db *gorm.DB, kafilID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var kafil models.Kafil
		if err := tx.First(&kafil, "id = ?", kafilID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Sponsorship{}, "kafil_id = ?", kafil.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&kafil).Error; err != nil {
			return err
		}

		return tx.Model(&models.Donor{}).
			Where("id = ?", kafil.DonorID).
			UpdateColumn("is_kafil", false).Error
	})
}

// Türetilmiş okuma değerleri: toplam kefalet, kalan taahhüt, kullanım yüzdesi.
type PledgeSummary struct {
	TotalSponsorshipAmount decimal.Decimal
	RemainingPledgeAmount  decimal.Decimal
	SponsorshipUtilization decimal.Decimal // yüzde
}

func Summarize(kafil *models.Kafil) PledgeSummary {
	total := decimal.Zero
	for _, s := range kafil.Sponsorships {
		total = total.Add(s.Amount)
	}

	utilization := decimal.Zero
	if kafil.MonthlyPledge.IsPositive() {
		utilization = total.Div(kafil.MonthlyPledge).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return PledgeSummary{
		TotalSponsorshipAmount: total,
		RemainingPledgeAmount:  kafil.MonthlyPledge.Sub(total),
		SponsorshipUtilization: utilization,
	}
}
