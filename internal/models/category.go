package models

import "time"

// SentinelCategoryID: "Silinmiş Kategori (Varsayılan)" kayıtlarının sabit ID'si.
// Kullanımda olan bir kategori silindiğinde, o kategoriye bağlı gelir/gider
// kayıtları cascade ile silinmek yerine bu kayda yönlendirilir.
// Bu satırlar init sırasında seed edilir ve asla silinemez.
const SentinelCategoryID uint = 999

const SentinelCategoryName = "Silinmiş Kategori (Varsayılan)"

type IncomeCategory struct {
	ID          uint `gorm:"primaryKey"`
	SubBudgetID uint `gorm:"index;not null"`
	SubBudget   SubBudget
	Name        string `gorm:"size:100;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ExpenseCategory struct {
	ID          uint `gorm:"primaryKey"`
	SubBudgetID uint `gorm:"index;not null"`
	SubBudget   SubBudget
	Name        string `gorm:"size:100;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
