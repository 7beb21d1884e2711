package kafil

import (
	"testing"

	"dernek-backend/internal/apperr"
	"dernek-backend/internal/models"
	"dernek-backend/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDonorAndWidows(t *testing.T, db *gorm.DB) (models.Donor, models.Widow, models.Widow) {
	t.Helper()

	d := models.Donor{Name: "Fatma Kaya"}
	w1 := models.Widow{Name: "Ayşe Demir"}
	w2 := models.Widow{Name: "Zeynep Çelik"}
	require.NoError(t, db.Create(&d).Error)
	require.NoError(t, db.Create(&w1).Error)
	require.NoError(t, db.Create(&w2).Error)
	return d, w1, w2
}

func TestCreateKafilPromotesDonor(t *testing.T) {
	db := testdb.Open(t)
	d, w1, _ := seedDonorAndWidows(t, db)

	k, err := CreateKafil(db, d.ID, decimal.NewFromInt(1000), []SponsorshipInput{
		{WidowID: w1.ID, Amount: decimal.NewFromInt(400)},
	})
	require.NoError(t, err)

	assert.Equal(t, d.ID, k.DonorID)
	require.Len(t, k.Sponsorships, 1)
	assert.True(t, k.Sponsorships[0].Amount.Equal(decimal.NewFromInt(400)))

	var reread models.Donor
	require.NoError(t, db.First(&reread, "id = ?", d.ID).Error)
	assert.True(t, reread.IsKafil, "is_kafil bayrağı aynı transaction'da kalkmalı")
}

func TestCreateKafilRejectsDoublePromotion(t *testing.T) {
	db := testdb.Open(t)
	d, _, _ := seedDonorAndWidows(t, db)

	_, err := CreateKafil(db, d.ID, decimal.NewFromInt(500), nil)
	require.NoError(t, err)

	_, err = CreateKafil(db, d.ID, decimal.NewFromInt(500), nil)
	assert.ErrorIs(t, err, apperr.ErrStateConflict)
}

func TestCreateKafilPledgeCapOnInitialSponsorships(t *testing.T) {
	db := testdb.Open(t)
	d, w1, w2 := seedDonorAndWidows(t, db)

	_, err := CreateKafil(db, d.ID, decimal.NewFromInt(1000), []SponsorshipInput{
		{WidowID: w1.ID, Amount: decimal.NewFromInt(900)},
		{WidowID: w2.ID, Amount: decimal.NewFromInt(200)},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Transaction geri alınmalı: ne kafil ne kefalet ne bayrak kalır
	var count int64
	db.Model(&models.Kafil{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Sponsorship{}).Count(&count)
	assert.Zero(t, count)

	var reread models.Donor
	require.NoError(t, db.First(&reread, "id = ?", d.ID).Error)
	assert.False(t, reread.IsKafil)
}

func TestAddSponsorshipEnforcesPledgeCap(t *testing.T) {
	db := testdb.Open(t)
	d, w1, w2 := seedDonorAndWidows(t, db)

	k, err := CreateKafil(db, d.ID, decimal.NewFromInt(1000), []SponsorshipInput{
		{WidowID: w1.ID, Amount: decimal.NewFromInt(900)},
	})
	require.NoError(t, err)

	// 900 + 200 > 1000 → red
	_, err = AddSponsorship(db, k.ID, SponsorshipInput{WidowID: w2.ID, Amount: decimal.NewFromInt(200)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// 900 + 100 = 1000 → tam sınırda kabul
	sp, err := AddSponsorship(db, k.ID, SponsorshipInput{WidowID: w2.ID, Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.True(t, sp.Amount.Equal(decimal.NewFromInt(100)))
}

func TestUpdateSponsorshipExcludesItselfFromTotal(t *testing.T) {
	db := testdb.Open(t)
	d, w1, w2 := seedDonorAndWidows(t, db)

	k, err := CreateKafil(db, d.ID, decimal.NewFromInt(1000), []SponsorshipInput{
		{WidowID: w1.ID, Amount: decimal.NewFromInt(600)},
		{WidowID: w2.ID, Amount: decimal.NewFromInt(300)},
	})
	require.NoError(t, err)
	require.Len(t, k.Sponsorships, 2)

	// 600'lük kefaleti 700'e çıkar: 300 + 700 = 1000, sınırda kabul
	updated, err := UpdateSponsorship(db, k.ID, k.Sponsorships[0].ID, decimal.NewFromInt(700))
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(700)))

	// 800'e çıkarmak 300 + 800 = 1100 → red
	_, err = UpdateSponsorship(db, k.ID, k.Sponsorships[0].ID, decimal.NewFromInt(800))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRemoveKafilStatusDemotesDonor(t *testing.T) {
	db := testdb.Open(t)
	d, w1, _ := seedDonorAndWidows(t, db)

	k, err := CreateKafil(db, d.ID, decimal.NewFromInt(1000), []SponsorshipInput{
		{WidowID: w1.ID, Amount: decimal.NewFromInt(400)},
	})
	require.NoError(t, err)

	require.NoError(t, RemoveKafilStatus(db, k.ID))

	var count int64
	db.Model(&models.Sponsorship{}).Where("kafil_id = ?", k.ID).Count(&count)
	assert.Zero(t, count)

	var reread models.Donor
	require.NoError(t, db.First(&reread, "id = ?", d.ID).Error)
	assert.False(t, reread.IsKafil)

	// Bağışçı artık yeniden kefil yapılabilir
	_, err = CreateKafil(db, d.ID, decimal.NewFromInt(500), nil)
	assert.NoError(t, err)
}

func TestSummarize(t *testing.T) {
	k := models.Kafil{
		MonthlyPledge: decimal.NewFromInt(1000),
		Sponsorships: []models.Sponsorship{
			{Amount: decimal.NewFromInt(400)},
			{Amount: decimal.NewFromInt(350)},
		},
	}

	s := Summarize(&k)
	assert.True(t, s.TotalSponsorshipAmount.Equal(decimal.NewFromInt(750)))
	assert.True(t, s.RemainingPledgeAmount.Equal(decimal.NewFromInt(250)))
	assert.True(t, s.SponsorshipUtilization.Equal(decimal.NewFromInt(75)))
}
