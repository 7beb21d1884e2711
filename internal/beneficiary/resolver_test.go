package beneficiary

import (
	"testing"

	"dernek-backend/internal/apperr"
	"dernek-backend/internal/models"
	"dernek-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	db := testdb.Open(t)

	w := models.Widow{Name: "Ayşe Demir"}
	require.NoError(t, db.Create(&w).Error)
	o := models.Orphan{WidowID: w.ID, Name: "Ali"}
	require.NoError(t, db.Create(&o).Error)

	assert.NoError(t, Exists(db, models.BeneficiaryTypeWidow, w.ID))
	assert.NoError(t, Exists(db, models.BeneficiaryTypeOrphan, o.ID))

	assert.ErrorIs(t, Exists(db, models.BeneficiaryTypeWidow, 9999), apperr.ErrValidation)
	assert.ErrorIs(t, Exists(db, "cat", w.ID), apperr.ErrValidation)
}

func TestResolveMarksDangling(t *testing.T) {
	db := testdb.Open(t)

	w := models.Widow{Name: "Ayşe Demir"}
	require.NoError(t, db.Create(&w).Error)

	r := Resolve(db, models.BeneficiaryTypeWidow, w.ID)
	assert.False(t, r.Dangling)
	assert.Equal(t, "Ayşe Demir", r.FullName)

	// Hedef silinince hata değil dangling işareti döner
	require.NoError(t, db.Delete(&w).Error)
	r = Resolve(db, models.BeneficiaryTypeWidow, w.ID)
	assert.True(t, r.Dangling)
	assert.Equal(t, w.ID, r.ID)
	assert.Empty(t, r.FullName)
}
