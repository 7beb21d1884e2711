package approval

import (
	"testing"
	"time"

	"dernek-backend/internal/apperr"
	"dernek-backend/internal/models"
	"dernek-backend/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testActor = Actor{UserID: 1, Name: "Test Yönetici"}

type fixtures struct {
	fiscalYear models.FiscalYear
	subBudget  models.SubBudget
	incomeCat  models.IncomeCategory
	expenseCat models.ExpenseCategory
	accountA   models.BankAccount
	accountB   models.BankAccount
	donor      models.Donor
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()

	f := fixtures{
		fiscalYear: models.FiscalYear{Year: "2025", IsActive: true},
		subBudget:  models.SubBudget{Name: "Yetim Fonu"},
		accountA:   models.BankAccount{Name: "Ana Hesap", Balance: decimal.NewFromInt(1000), IsActive: true},
		accountB:   models.BankAccount{Name: "Yedek Hesap", Balance: decimal.NewFromInt(500), IsActive: true},
		donor:      models.Donor{Name: "Ahmet Yılmaz"},
	}
	require.NoError(t, db.Create(&f.fiscalYear).Error)
	require.NoError(t, db.Create(&f.subBudget).Error)
	require.NoError(t, db.Create(&f.accountA).Error)
	require.NoError(t, db.Create(&f.accountB).Error)
	require.NoError(t, db.Create(&f.donor).Error)

	f.incomeCat = models.IncomeCategory{Name: "Bağış", SubBudgetID: f.subBudget.ID}
	f.expenseCat = models.ExpenseCategory{Name: "Gıda Yardımı", SubBudgetID: f.subBudget.ID}
	require.NoError(t, db.Create(&f.incomeCat).Error)
	require.NoError(t, db.Create(&f.expenseCat).Error)

	return f
}

func (f *fixtures) draftIncome(t *testing.T, db *gorm.DB, amount int64, method models.PaymentMethod, accountID *uint) models.Income {
	t.Helper()
	inc := models.Income{
		FiscalYearID:     f.fiscalYear.ID,
		SubBudgetID:      f.subBudget.ID,
		IncomeCategoryID: f.incomeCat.ID,
		DonorID:          &f.donor.ID,
		IncomeDate:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromInt(amount),
		PaymentMethod:    method,
		BankAccountID:    accountID,
		Status:           models.StatusDraft,
		CreatedBy:        1,
	}
	require.NoError(t, db.Create(&inc).Error)
	return inc
}

func (f *fixtures) draftExpense(t *testing.T, db *gorm.DB, amount int64, accountID *uint) models.Expense {
	t.Helper()
	exp := models.Expense{
		FiscalYearID:      f.fiscalYear.ID,
		SubBudgetID:       f.subBudget.ID,
		ExpenseCategoryID: f.expenseCat.ID,
		ExpenseDate:       time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Amount:            decimal.NewFromInt(amount),
		PaymentMethod:     models.PaymentMethodBankWire,
		BankAccountID:     accountID,
		Status:            models.StatusDraft,
		CreatedBy:         1,
	}
	require.NoError(t, db.Create(&exp).Error)
	return exp
}

func accountBalanceOf(t *testing.T, db *gorm.DB, id uint) decimal.Decimal {
	t.Helper()
	var acc models.BankAccount
	require.NoError(t, db.First(&acc, "id = ?", id).Error)
	return acc.Balance
}

func TestApproveIncomeCreditsAccount(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	inc := f.draftIncome(t, db, 500, models.PaymentMethodCash, nil)

	approved, err := ApproveIncome(db, inc.ID, testActor, &f.accountA.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, testActor.UserID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.BankAccountID)
	assert.Equal(t, f.accountA.ID, *approved.BankAccountID)

	assert.True(t, accountBalanceOf(t, db, f.accountA.ID).Equal(decimal.NewFromInt(1500)),
		"1000 + 500 = 1500 olmalı")
}

func TestApproveIncomeAccumulatesDonorTotal(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	first := f.draftIncome(t, db, 300, models.PaymentMethodBankWire, &f.accountA.ID)
	second := f.draftIncome(t, db, 200, models.PaymentMethodBankWire, &f.accountA.ID)

	_, err := ApproveIncome(db, first.ID, testActor, nil)
	require.NoError(t, err)
	_, err = ApproveIncome(db, second.ID, testActor, nil)
	require.NoError(t, err)

	var d models.Donor
	require.NoError(t, db.First(&d, "id = ?", f.donor.ID).Error)
	assert.True(t, d.TotalGiven.Equal(decimal.NewFromInt(500)))
}

func TestApproveIncomeRequiresAccount(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	inc := f.draftIncome(t, db, 500, models.PaymentMethodCash, nil)

	_, err := ApproveIncome(db, inc.ID, testActor, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Kayıt taslakta kalmalı, hiçbir bakiye değişmemeli
	var reread models.Income
	require.NoError(t, db.First(&reread, "id = ?", inc.ID).Error)
	assert.Equal(t, models.StatusDraft, reread.Status)
	assert.True(t, accountBalanceOf(t, db, f.accountA.ID).Equal(decimal.NewFromInt(1000)))
}

func TestApproveIncomeTwiceConflicts(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	inc := f.draftIncome(t, db, 500, models.PaymentMethodCash, &f.accountA.ID)

	_, err := ApproveIncome(db, inc.ID, testActor, nil)
	require.NoError(t, err)

	_, err = ApproveIncome(db, inc.ID, testActor, nil)
	assert.ErrorIs(t, err, apperr.ErrStateConflict)

	// Bakiye tam bir kez değişmiş olmalı
	assert.True(t, accountBalanceOf(t, db, f.accountA.ID).Equal(decimal.NewFromInt(1500)))
}

func TestApproveExpenseDebitsAccount(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	exp := f.draftExpense(t, db, 300, &f.accountA.ID)

	approved, err := ApproveExpense(db, exp.ID, testActor, nil)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.True(t, accountBalanceOf(t, db, f.accountA.ID).Equal(decimal.NewFromInt(700)))
}

func TestApproveExpenseOverdraftRefused(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	exp := f.draftExpense(t, db, 1500, &f.accountA.ID)

	_, err := ApproveExpense(db, exp.ID, testActor, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var reread models.Expense
	require.NoError(t, db.First(&reread, "id = ?", exp.ID).Error)
	assert.Equal(t, models.StatusDraft, reread.Status)
	assert.True(t, accountBalanceOf(t, db, f.accountA.ID).Equal(decimal.NewFromInt(1000)))
}

func TestApproveExpenseWithoutAccountRefused(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	exp := f.draftExpense(t, db, 100, nil)

	_, err := ApproveExpense(db, exp.ID, testActor, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestApproveTransferMovesMoney(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	tr := models.Transfer{
		FiscalYearID:  f.fiscalYear.ID,
		TransferDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		FromAccountID: f.accountA.ID,
		ToAccountID:   f.accountB.ID,
		Amount:        decimal.NewFromInt(200),
		Status:        models.StatusDraft,
		CreatedBy:     1,
	}
	require.NoError(t, db.Create(&tr).Error)

	approved, err := ApproveTransfer(db, tr.ID, testActor, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	assert.True(t, accountBalanceOf(t, db, f.accountA.ID).Equal(decimal.NewFromInt(800)))
	assert.True(t, accountBalanceOf(t, db, f.accountB.ID).Equal(decimal.NewFromInt(700)))

	// İkinci onay reddedilir, bakiyeler oynamaz
	_, err = ApproveTransfer(db, tr.ID, testActor, nil)
	assert.ErrorIs(t, err, apperr.ErrStateConflict)
	assert.True(t, accountBalanceOf(t, db, f.accountA.ID).Equal(decimal.NewFromInt(800)))
	assert.True(t, accountBalanceOf(t, db, f.accountB.ID).Equal(decimal.NewFromInt(700)))
}

func TestApproveTransferOverdraftRefused(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	tr := models.Transfer{
		FiscalYearID:  f.fiscalYear.ID,
		TransferDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		FromAccountID: f.accountB.ID,
		ToAccountID:   f.accountA.ID,
		Amount:        decimal.NewFromInt(600), // B'de sadece 500 var
		Status:        models.StatusDraft,
		CreatedBy:     1,
	}
	require.NoError(t, db.Create(&tr).Error)

	_, err := ApproveTransfer(db, tr.ID, testActor, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.True(t, accountBalanceOf(t, db, f.accountA.ID).Equal(decimal.NewFromInt(1000)))
	assert.True(t, accountBalanceOf(t, db, f.accountB.ID).Equal(decimal.NewFromInt(500)))
}

func TestRejectIncomeHasNoBalanceEffect(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	inc := f.draftIncome(t, db, 500, models.PaymentMethodCash, &f.accountA.ID)

	remarks := "Makbuz eksik"
	rejected, err := RejectIncome(db, inc.ID, testActor, &remarks)
	require.NoError(t, err)

	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "Makbuz eksik", rejected.Remarks)
	assert.True(t, accountBalanceOf(t, db, f.accountA.ID).Equal(decimal.NewFromInt(1000)))

	// Reddedilen kayıt onaylanamaz
	_, err = ApproveIncome(db, inc.ID, testActor, nil)
	assert.ErrorIs(t, err, apperr.ErrStateConflict)
}

func TestMarkIncomeTransferredMovesBetweenAccounts(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	inc := f.draftIncome(t, db, 500, models.PaymentMethodCash, &f.accountA.ID)
	_, err := ApproveIncome(db, inc.ID, testActor, nil)
	require.NoError(t, err)

	// Onayda A'ya yazıldı; para fiilen B'ye yatırılmış
	when := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	updated, err := MarkIncomeTransferred(db, inc.ID, testActor, f.accountB.ID, when, nil)
	require.NoError(t, err)

	require.NotNil(t, updated.TransferredAt)
	assert.True(t, updated.TransferredAt.Equal(when))
	require.NotNil(t, updated.BankAccountID)
	assert.Equal(t, f.accountB.ID, *updated.BankAccountID)

	assert.True(t, accountBalanceOf(t, db, f.accountA.ID).Equal(decimal.NewFromInt(1000)),
		"tutar A'dan geri alınmalı")
	assert.True(t, accountBalanceOf(t, db, f.accountB.ID).Equal(decimal.NewFromInt(1000)),
		"tutar B'ye eklenmeli")
}

func TestMarkIncomeTransferredRequiresApproved(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	inc := f.draftIncome(t, db, 500, models.PaymentMethodCash, &f.accountA.ID)

	_, err := MarkIncomeTransferred(db, inc.ID, testActor, f.accountA.ID, time.Now(), nil)
	assert.ErrorIs(t, err, apperr.ErrStateConflict)
}

func TestMarkIncomeTransferredRefusesBankWire(t *testing.T) {
	db := testdb.Open(t)
	f := seedFixtures(t, db)

	inc := f.draftIncome(t, db, 500, models.PaymentMethodBankWire, &f.accountA.ID)
	_, err := ApproveIncome(db, inc.ID, testActor, nil)
	require.NoError(t, err)

	_, err = MarkIncomeTransferred(db, inc.ID, testActor, f.accountB.ID, time.Now(), nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
