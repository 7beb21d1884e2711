package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense: Gider kaydı. Yararlanıcı dağılımı (ExpenseBeneficiary /
// ExpenseBeneficiaryGroup) raporlama amaçlıdır, parayı bağımsız hareket
// ettirmez; toplamı gider tutarını aşamaz.
type Expense struct {
	ID                uint `gorm:"primaryKey"`
	FiscalYearID      uint `gorm:"index;not null"`
	FiscalYear        FiscalYear
	SubBudgetID       uint `gorm:"index;not null"`
	SubBudget         SubBudget
	ExpenseCategoryID uint `gorm:"index;not null"`
	ExpenseCategory   ExpenseCategory
	PartnerID         *uint `gorm:"index"`
	Partner           *Partner
	ExpenseDate       time.Time       `gorm:"index;not null"`
	Amount            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaymentMethod     PaymentMethod   `gorm:"size:20;not null"`
	ChequeNumber      string          `gorm:"size:50"`
	ReceiptNumber     string          `gorm:"size:50"`
	BankAccountID     *uint `gorm:"index"`
	BankAccount       *BankAccount
	UnrelatedToBenef  bool        `gorm:"default:false"` // yararlanıcıyla ilgisiz gider (kira, fatura vs.)
	Remarks           string      `gorm:"size:500"`
	Status            EntryStatus `gorm:"size:20;not null;default:draft;index"`
	CreatedBy         uint        `gorm:"not null"`
	ApprovedBy        *uint
	ApprovedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Beneficiaries     []ExpenseBeneficiary
	BeneficiaryGroups []ExpenseBeneficiaryGroup
}

// ExpenseBeneficiary: Giderin tek bir yararlanıcıya (dul/yetim) düşen payı.
// Polimorfik referans: FK yok, varlık kontrolü yazarken yapılır.
type ExpenseBeneficiary struct {
	ID              uint            `gorm:"primaryKey"`
	ExpenseID       uint            `gorm:"index;not null"`
	BeneficiaryType BeneficiaryType `gorm:"size:10;not null"`
	BeneficiaryID   uint            `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Notes           string          `gorm:"size:255"`
	CreatedAt       time.Time
}

// ExpenseBeneficiaryGroup: Giderin bir yararlanıcı grubuna düşen payı.
type ExpenseBeneficiaryGroup struct {
	ID                 uint `gorm:"primaryKey"`
	ExpenseID          uint `gorm:"index;not null"`
	BeneficiaryGroupID uint `gorm:"index;not null"`
	BeneficiaryGroup   BeneficiaryGroup
	Amount             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Notes              string          `gorm:"size:255"`
	CreatedAt          time.Time
}
