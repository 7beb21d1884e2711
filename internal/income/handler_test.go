package income

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dernek-backend/internal/auth"
	"dernek-backend/internal/models"
	"dernek-backend/internal/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestApp: JWT yerine test kullanıcısını doğrudan locals'a koyan app.
func newTestApp(userID uint) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, userID)
		return c.Next()
	})
	app.Post("/incomes", CreateIncomeHandler())
	app.Put("/incomes/:id", UpdateIncomeHandler())
	app.Delete("/incomes/:id", DeleteIncomeHandler())
	return app
}

type incomeFixtures struct {
	user  models.User
	fy    models.FiscalYear
	sb    models.SubBudget
	cat   models.IncomeCategory
	donor models.Donor
	kafil models.Kafil
}

func seedIncomeFixtures(t *testing.T, db *gorm.DB) incomeFixtures {
	t.Helper()

	f := incomeFixtures{
		user:  models.User{Name: "Test Personel", Email: "personel@dernek.org", PasswordHash: "x", Role: models.RoleStaff},
		fy:    models.FiscalYear{Year: "2025", IsActive: true},
		sb:    models.SubBudget{Name: "Genel"},
		donor: models.Donor{Name: "Ahmet Yılmaz"},
	}
	require.NoError(t, db.Create(&f.user).Error)
	require.NoError(t, db.Create(&f.fy).Error)
	require.NoError(t, db.Create(&f.sb).Error)
	require.NoError(t, db.Create(&f.donor).Error)

	f.cat = models.IncomeCategory{Name: "Bağış", SubBudgetID: f.sb.ID}
	require.NoError(t, db.Create(&f.cat).Error)

	kafilDonor := models.Donor{Name: "Fatma Kaya", IsKafil: true}
	require.NoError(t, db.Create(&kafilDonor).Error)
	f.kafil = models.Kafil{DonorID: kafilDonor.ID, MonthlyPledge: decimal.NewFromInt(1000)}
	require.NoError(t, db.Create(&f.kafil).Error)

	return f
}

func sendJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateIncomeStartsAsDraft(t *testing.T) {
	db := testdb.Open(t)
	f := seedIncomeFixtures(t, db)
	app := newTestApp(f.user.ID)

	resp := sendJSON(t, app, "POST", "/incomes", fiber.Map{
		"fiscal_year_id":     f.fy.ID,
		"sub_budget_id":      f.sb.ID,
		"income_category_id": f.cat.ID,
		"donor_id":           f.donor.ID,
		"income_date":        "2025-03-10",
		"amount":             "500",
		"payment_method":     "cash",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var inc models.Income
	require.NoError(t, db.First(&inc).Error)
	assert.Equal(t, models.StatusDraft, inc.Status)
	assert.Equal(t, f.user.ID, inc.CreatedBy)
	assert.True(t, inc.Amount.Equal(decimal.NewFromInt(500)))
}

func TestCreateIncomeRejectsDonorAndKafilTogether(t *testing.T) {
	db := testdb.Open(t)
	f := seedIncomeFixtures(t, db)
	app := newTestApp(f.user.ID)

	resp := sendJSON(t, app, "POST", "/incomes", fiber.Map{
		"fiscal_year_id":     f.fy.ID,
		"sub_budget_id":      f.sb.ID,
		"income_category_id": f.cat.ID,
		"donor_id":           f.donor.ID,
		"kafil_id":           f.kafil.ID,
		"income_date":        "2025-03-10",
		"amount":             "500",
		"payment_method":     "cash",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateIncomeRejectsBadInput(t *testing.T) {
	db := testdb.Open(t)
	f := seedIncomeFixtures(t, db)
	app := newTestApp(f.user.ID)

	// Pozitif olmayan tutar
	resp := sendJSON(t, app, "POST", "/incomes", fiber.Map{
		"fiscal_year_id":     f.fy.ID,
		"sub_budget_id":      f.sb.ID,
		"income_category_id": f.cat.ID,
		"income_date":        "2025-03-10",
		"amount":             "0",
		"payment_method":     "cash",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Geçersiz ödeme yöntemi
	resp = sendJSON(t, app, "POST", "/incomes", fiber.Map{
		"fiscal_year_id":     f.fy.ID,
		"sub_budget_id":      f.sb.ID,
		"income_category_id": f.cat.ID,
		"income_date":        "2025-03-10",
		"amount":             "100",
		"payment_method":     "bitcoin",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Var olmayan kategori
	resp = sendJSON(t, app, "POST", "/incomes", fiber.Map{
		"fiscal_year_id":     f.fy.ID,
		"sub_budget_id":      f.sb.ID,
		"income_category_id": 9999,
		"income_date":        "2025-03-10",
		"amount":             "100",
		"payment_method":     "cash",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestApprovedIncomeIsImmutable(t *testing.T) {
	db := testdb.Open(t)
	f := seedIncomeFixtures(t, db)
	app := newTestApp(f.user.ID)

	now := time.Now()
	inc := models.Income{
		FiscalYearID:     f.fy.ID,
		SubBudgetID:      f.sb.ID,
		IncomeCategoryID: f.cat.ID,
		IncomeDate:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromInt(500),
		PaymentMethod:    models.PaymentMethodCash,
		Status:           models.StatusApproved,
		CreatedBy:        f.user.ID,
		ApprovedBy:       &f.user.ID,
		ApprovedAt:       &now,
	}
	require.NoError(t, db.Create(&inc).Error)

	resp := sendJSON(t, app, "PUT", fmt.Sprintf("/incomes/%d", inc.ID), fiber.Map{
		"amount": "999",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/incomes/%d", inc.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var reread models.Income
	require.NoError(t, db.First(&reread, "id = ?", inc.ID).Error)
	assert.True(t, reread.Amount.Equal(decimal.NewFromInt(500)))
}

func TestDraftIncomeEditableAndRejectedDeletable(t *testing.T) {
	db := testdb.Open(t)
	f := seedIncomeFixtures(t, db)
	app := newTestApp(f.user.ID)

	inc := models.Income{
		FiscalYearID:     f.fy.ID,
		SubBudgetID:      f.sb.ID,
		IncomeCategoryID: f.cat.ID,
		IncomeDate:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromInt(500),
		PaymentMethod:    models.PaymentMethodCash,
		Status:           models.StatusDraft,
		CreatedBy:        f.user.ID,
	}
	require.NoError(t, db.Create(&inc).Error)

	resp := sendJSON(t, app, "PUT", fmt.Sprintf("/incomes/%d", inc.ID), fiber.Map{
		"amount": "750",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reread models.Income
	require.NoError(t, db.First(&reread, "id = ?", inc.ID).Error)
	assert.True(t, reread.Amount.Equal(decimal.NewFromInt(750)))

	// Reddet, sonra sil: rejected düzenlenemez ama silinebilir
	require.NoError(t, db.Model(&reread).UpdateColumn("status", models.StatusRejected).Error)

	resp = sendJSON(t, app, "PUT", fmt.Sprintf("/incomes/%d", inc.ID), fiber.Map{"amount": "800"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/incomes/%d", inc.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.ErrorIs(t, db.First(&models.Income{}, "id = ?", inc.ID).Error, gorm.ErrRecordNotFound)
}
