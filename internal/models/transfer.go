package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer: İki banka hesabı arasında virman. Onaylandığında kaynak hesaptan
// düşülür, hedef hesaba eklenir; iki mutasyon da aynı transaction içindedir.
type Transfer struct {
	ID            uint `gorm:"primaryKey"`
	FiscalYearID  uint `gorm:"index;not null"`
	FiscalYear    FiscalYear
	TransferDate  time.Time `gorm:"index;not null"`
	FromAccountID uint      `gorm:"index;not null"`
	FromAccount   BankAccount `gorm:"foreignKey:FromAccountID"`
	ToAccountID   uint        `gorm:"index;not null"`
	ToAccount     BankAccount `gorm:"foreignKey:ToAccountID"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Remarks       string          `gorm:"size:500"`
	Status        EntryStatus     `gorm:"size:20;not null;default:draft;index"`
	CreatedBy     uint            `gorm:"not null"`
	ApprovedBy    *uint
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
