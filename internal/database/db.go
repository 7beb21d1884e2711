package database

import (
	"log"

	"dernek-backend/internal/config"
	"dernek-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Migration hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: AutoMigrate + sentinel kategorilerin seed'i.
// Testler de aynı fonksiyonu sqlite üzerinde kullanır.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.FiscalYear{},
		&models.SubBudget{},
		&models.IncomeCategory{},
		&models.ExpenseCategory{},
		&models.BankAccount{},
		&models.Partner{},
		&models.EducationLevel{},
		&models.Donor{},
		&models.Kafil{},
		&models.Sponsorship{},
		&models.Widow{},
		&models.Orphan{},
		&models.BeneficiaryGroup{},
		&models.BeneficiaryGroupMember{},
		&models.Income{},
		&models.Expense{},
		&models.ExpenseBeneficiary{},
		&models.ExpenseBeneficiaryGroup{},
		&models.Transfer{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}

	return seedSentinelCategories(db)
}

// seedSentinelCategories: "Silinmiş Kategori (Varsayılan)" satırlarını
// sabit ID ile oluşturur. Kategori silme bu satırlara yönlendirme yapar,
// bu yüzden her kurulumda var olmaları gerekir. Sentinel kategoriler de
// bir alt bütçeye bağlıdır; onun için de sabit ID'li bir satır açılır.
func seedSentinelCategories(db *gorm.DB) error {
	var sb models.SubBudget
	if err := db.First(&sb, "id = ?", models.SentinelCategoryID).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		sb = models.SubBudget{ID: models.SentinelCategoryID, Name: "Genel (Varsayılan)"}
		if err := db.Create(&sb).Error; err != nil {
			return err
		}
	}

	var ic models.IncomeCategory
	if err := db.First(&ic, "id = ?", models.SentinelCategoryID).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		ic = models.IncomeCategory{
			ID:          models.SentinelCategoryID,
			SubBudgetID: models.SentinelCategoryID,
			Name:        models.SentinelCategoryName,
		}
		if err := db.Create(&ic).Error; err != nil {
			return err
		}
	}

	var ec models.ExpenseCategory
	if err := db.First(&ec, "id = ?", models.SentinelCategoryID).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		ec = models.ExpenseCategory{
			ID:          models.SentinelCategoryID,
			SubBudgetID: models.SentinelCategoryID,
			Name:        models.SentinelCategoryName,
		}
		if err := db.Create(&ec).Error; err != nil {
			return err
		}
	}

	return nil
}
