package expense

import (
	"testing"

	"dernek-backend/internal/models"
	"dernek-backend/internal/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBeneficiaries(t *testing.T, db *gorm.DB) (models.Widow, models.Orphan, models.BeneficiaryGroup) {
	t.Helper()

	w := models.Widow{Name: "Ayşe Demir"}
	require.NoError(t, db.Create(&w).Error)
	o := models.Orphan{WidowID: w.ID, Name: "Ali"}
	require.NoError(t, db.Create(&o).Error)
	g := models.BeneficiaryGroup{Name: "Kış yardımı listesi"}
	require.NoError(t, db.Create(&g).Error)
	return w, o, g
}

func statusOf(err error) int {
	if e, ok := err.(*fiber.Error); ok {
		return e.Code
	}
	return 0
}

func TestValidateSharesCapsAtExpenseAmount(t *testing.T) {
	db := testdb.Open(t)
	w, o, g := seedBeneficiaries(t, db)

	amount := decimal.NewFromInt(1000)

	// 400 + 300 + 300 = 1000, tam sınırda kabul
	err := validateShares(amount,
		[]BeneficiaryShare{
			{BeneficiaryType: "widow", BeneficiaryID: w.ID, Amount: decimal.NewFromInt(400)},
			{BeneficiaryType: "orphan", BeneficiaryID: o.ID, Amount: decimal.NewFromInt(300)},
		},
		[]GroupShare{
			{BeneficiaryGroupID: g.ID, Amount: decimal.NewFromInt(300)},
		})
	assert.NoError(t, err)

	// Toplam 1100 > 1000 → red
	err = validateShares(amount,
		[]BeneficiaryShare{
			{BeneficiaryType: "widow", BeneficiaryID: w.ID, Amount: decimal.NewFromInt(800)},
		},
		[]GroupShare{
			{BeneficiaryGroupID: g.ID, Amount: decimal.NewFromInt(300)},
		})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, statusOf(err))
}

func TestValidateSharesChecksTargets(t *testing.T) {
	db := testdb.Open(t)
	w, _, _ := seedBeneficiaries(t, db)

	amount := decimal.NewFromInt(500)

	// Var olmayan yararlanıcı
	err := validateShares(amount, []BeneficiaryShare{
		{BeneficiaryType: "widow", BeneficiaryID: 9999, Amount: decimal.NewFromInt(100)},
	}, nil)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, statusOf(err))

	// Geçersiz etiket
	err = validateShares(amount, []BeneficiaryShare{
		{BeneficiaryType: "cat", BeneficiaryID: w.ID, Amount: decimal.NewFromInt(100)},
	}, nil)
	require.Error(t, err)

	// Var olmayan grup
	err = validateShares(amount, nil, []GroupShare{
		{BeneficiaryGroupID: 9999, Amount: decimal.NewFromInt(100)},
	})
	require.Error(t, err)

	// Pozitif olmayan tutar
	err = validateShares(amount, []BeneficiaryShare{
		{BeneficiaryType: "widow", BeneficiaryID: w.ID, Amount: decimal.Zero},
	}, nil)
	require.Error(t, err)
}

func TestReplaceSharesIsIdempotentSwap(t *testing.T) {
	db := testdb.Open(t)
	w, o, _ := seedBeneficiaries(t, db)

	const expenseID = 42

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return replaceShares(tx, expenseID, []BeneficiaryShare{
			{BeneficiaryType: "widow", BeneficiaryID: w.ID, Amount: decimal.NewFromInt(100)},
			{BeneficiaryType: "orphan", BeneficiaryID: o.ID, Amount: decimal.NewFromInt(200)},
		}, nil)
	}))

	// İkinci çağrı eskisini tamamen değiştirir, biriktirmez
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return replaceShares(tx, expenseID, []BeneficiaryShare{
			{BeneficiaryType: "widow", BeneficiaryID: w.ID, Amount: decimal.NewFromInt(500)},
		}, nil)
	}))

	var rows []models.ExpenseBeneficiary
	require.NoError(t, db.Where("expense_id = ?", expenseID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(500)))
}
