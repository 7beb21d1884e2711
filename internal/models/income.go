package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income: Gelir kaydı (bağış, kefalet ödemesi vs.).
// DonorID ve KafilID'den en fazla biri dolu olabilir.
// TransferredAt onaydan bağımsız ikinci bir akışı izler: nakit/çek gelirler
// onaylandıktan sonra fiilen bankaya yatırıldığında damgalanır.
type Income struct {
	ID               uint `gorm:"primaryKey"`
	FiscalYearID     uint `gorm:"index;not null"`
	FiscalYear       FiscalYear
	SubBudgetID      uint `gorm:"index;not null"`
	SubBudget        SubBudget
	IncomeCategoryID uint `gorm:"index;not null"`
	IncomeCategory   IncomeCategory
	DonorID          *uint `gorm:"index"`
	Donor            *Donor
	KafilID          *uint `gorm:"index"`
	Kafil            *Kafil
	IncomeDate       time.Time       `gorm:"index;not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaymentMethod    PaymentMethod   `gorm:"size:20;not null"`
	ChequeNumber     string          `gorm:"size:50"`
	ReceiptNumber    string          `gorm:"size:50"`
	BankAccountID    *uint `gorm:"index"`
	BankAccount      *BankAccount
	Remarks          string      `gorm:"size:500"`
	Status           EntryStatus `gorm:"size:20;not null;default:draft;index"`
	CreatedBy        uint        `gorm:"not null"`
	ApprovedBy       *uint
	ApprovedAt       *time.Time
	TransferredAt    *time.Time // bankaya fiilen yatırıldığı an
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
