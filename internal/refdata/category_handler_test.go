package refdata

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"dernek-backend/internal/models"
	"dernek-backend/internal/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Delete("/income-categories/:id", DeleteIncomeCategoryHandler())
	app.Put("/income-categories/:id", UpdateIncomeCategoryHandler())
	app.Post("/fiscal-years/:id/activate", ActivateFiscalYearHandler())
	return app
}

func seedIncomeWithCategory(t *testing.T, db *gorm.DB) (models.IncomeCategory, models.Income) {
	t.Helper()

	fy := models.FiscalYear{Year: "2025", IsActive: true}
	sb := models.SubBudget{Name: "Genel"}
	require.NoError(t, db.Create(&fy).Error)
	require.NoError(t, db.Create(&sb).Error)

	cat := models.IncomeCategory{Name: "Kurban Bağışı", SubBudgetID: sb.ID}
	require.NoError(t, db.Create(&cat).Error)

	inc := models.Income{
		FiscalYearID:     fy.ID,
		SubBudgetID:      sb.ID,
		IncomeCategoryID: cat.ID,
		IncomeDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromInt(750),
		PaymentMethod:    models.PaymentMethodCash,
		Status:           models.StatusDraft,
		CreatedBy:        1,
	}
	require.NoError(t, db.Create(&inc).Error)
	return cat, inc
}

func TestDeleteIncomeCategoryRepointsToSentinel(t *testing.T) {
	db := testdb.Open(t)
	app := newTestApp()

	cat, inc := seedIncomeWithCategory(t, db)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/income-categories/%d", cat.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// Kategori gitti, gelir sentinel'e yönlendi
	assert.ErrorIs(t, db.First(&models.IncomeCategory{}, "id = ?", cat.ID).Error, gorm.ErrRecordNotFound)

	var reread models.Income
	require.NoError(t, db.First(&reread, "id = ?", inc.ID).Error)
	assert.Equal(t, models.SentinelCategoryID, reread.IncomeCategoryID)

	var sentinel models.IncomeCategory
	require.NoError(t, db.First(&sentinel, "id = ?", models.SentinelCategoryID).Error)
	assert.Equal(t, models.SentinelCategoryName, sentinel.Name)
}

func TestSentinelCategoryProtected(t *testing.T) {
	testdb.Open(t)
	app := newTestApp()

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/income-categories/%d", models.SentinelCategoryID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("PUT", fmt.Sprintf("/income-categories/%d", models.SentinelCategoryID), nil)
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestActivateFiscalYearDeactivatesOthers(t *testing.T) {
	db := testdb.Open(t)
	app := newTestApp()

	fy1 := models.FiscalYear{Year: "2024", IsActive: true}
	fy2 := models.FiscalYear{Year: "2025"}
	require.NoError(t, db.Create(&fy1).Error)
	require.NoError(t, db.Create(&fy2).Error)

	req := httptest.NewRequest("POST", fmt.Sprintf("/fiscal-years/%d/activate", fy2.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var active []models.FiscalYear
	require.NoError(t, db.Where("is_active = ?", true).Find(&active).Error)
	require.Len(t, active, 1, "aynı anda tek aktif mali yıl olabilir")
	assert.Equal(t, fy2.ID, active[0].ID)
}
