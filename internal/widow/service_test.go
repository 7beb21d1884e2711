package widow

import (
	"testing"

	"dernek-backend/internal/models"
	"dernek-backend/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDeleteWidowCascades(t *testing.T) {
	db := testdb.Open(t)

	w := models.Widow{Name: "Ayşe Demir"}
	require.NoError(t, db.Create(&w).Error)

	o1 := models.Orphan{WidowID: w.ID, Name: "Ali"}
	o2 := models.Orphan{WidowID: w.ID, Name: "Elif"}
	require.NoError(t, db.Create(&o1).Error)
	require.NoError(t, db.Create(&o2).Error)

	// Kefalet
	d := models.Donor{Name: "Mehmet Öz", IsKafil: true}
	require.NoError(t, db.Create(&d).Error)
	k := models.Kafil{DonorID: d.ID, MonthlyPledge: decimal.NewFromInt(1000)}
	require.NoError(t, db.Create(&k).Error)
	sp := models.Sponsorship{KafilID: k.ID, WidowID: w.ID, Amount: decimal.NewFromInt(400)}
	require.NoError(t, db.Create(&sp).Error)

	// Grup üyelikleri: dulun kendisi ve bir yetimi
	g := models.BeneficiaryGroup{Name: "Ramazan kumanyası"}
	require.NoError(t, db.Create(&g).Error)
	require.NoError(t, db.Create(&models.BeneficiaryGroupMember{
		BeneficiaryGroupID: g.ID,
		BeneficiaryType:    models.BeneficiaryTypeWidow,
		BeneficiaryID:      w.ID,
	}).Error)
	require.NoError(t, db.Create(&models.BeneficiaryGroupMember{
		BeneficiaryGroupID: g.ID,
		BeneficiaryType:    models.BeneficiaryTypeOrphan,
		BeneficiaryID:      o1.ID,
	}).Error)

	require.NoError(t, DeleteWidow(db, w.ID))

	var count int64
	db.Model(&models.Orphan{}).Where("widow_id = ?", w.ID).Count(&count)
	assert.Zero(t, count, "yetimler silinmeli")

	db.Model(&models.Sponsorship{}).Where("widow_id = ?", w.ID).Count(&count)
	assert.Zero(t, count, "kefaletler silinmeli")

	db.Model(&models.BeneficiaryGroupMember{}).Count(&count)
	assert.Zero(t, count, "dulun ve yetimlerinin grup üyelikleri silinmeli")

	// Grup ve kefil kaydının kendisi kalır
	assert.NoError(t, db.First(&models.BeneficiaryGroup{}, "id = ?", g.ID).Error)
	assert.NoError(t, db.First(&models.Kafil{}, "id = ?", k.ID).Error)
}

func TestDeleteWidowKeepsExpenseShares(t *testing.T) {
	db := testdb.Open(t)

	w := models.Widow{Name: "Ayşe Demir"}
	require.NoError(t, db.Create(&w).Error)

	// Tarihsel gider dağılım satırı: dul silinse de satır kalır
	share := models.ExpenseBeneficiary{
		ExpenseID:       1,
		BeneficiaryType: models.BeneficiaryTypeWidow,
		BeneficiaryID:   w.ID,
		Amount:          decimal.NewFromInt(250),
	}
	require.NoError(t, db.Create(&share).Error)

	require.NoError(t, DeleteWidow(db, w.ID))

	var count int64
	db.Model(&models.ExpenseBeneficiary{}).Count(&count)
	assert.EqualValues(t, 1, count, "gider dağılım satırı tarihsel kayıt olarak kalmalı")
}

func TestDeleteWidowNotFound(t *testing.T) {
	db := testdb.Open(t)
	err := DeleteWidow(db, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
