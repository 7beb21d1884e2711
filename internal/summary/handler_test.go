package summary

import (
	"encoding/json"
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
)

func TestFinancialSummaryCountsOnlyApproved(t *testing.T) {
	db := testdb.Open(t)

	fy := models.FiscalYear{Year: "2025", IsActive: true}
	sb := models.SubBudget{Name: "Yetim Fonu"}
	require.NoError(t, db.Create(&fy).Error)
	require.NoError(t, db.Create(&sb).Error)

	ic := models.IncomeCategory{Name: "Bağış", SubBudgetID: sb.ID}
	ec := models.ExpenseCategory{Name: "Gıda", SubBudgetID: sb.ID}
	require.NoError(t, db.Create(&ic).Error)
	require.NoError(t, db.Create(&ec).Error)

	acc := models.BankAccount{Name: "Ana Hesap", Balance: decimal.NewFromInt(1200), IsActive: true}
	require.NoError(t, db.Create(&acc).Error)

	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	mkIncome := func(amount int64, status models.EntryStatus) {
		require.NoError(t, db.Create(&models.Income{
			FiscalYearID: fy.ID, SubBudgetID: sb.ID, IncomeCategoryID: ic.ID,
			IncomeDate: date, Amount: decimal.NewFromInt(amount),
			PaymentMethod: models.PaymentMethodCash, Status: status, CreatedBy: 1,
		}).Error)
	}
	mkExpense := func(amount int64, status models.EntryStatus) {
		require.NoError(t, db.Create(&models.Expense{
			FiscalYearID: fy.ID, SubBudgetID: sb.ID, ExpenseCategoryID: ec.ID,
			ExpenseDate: date, Amount: decimal.NewFromInt(amount),
			PaymentMethod: models.PaymentMethodCash, Status: status, CreatedBy: 1,
		}).Error)
	}

	mkIncome(500, models.StatusApproved)
	mkIncome(300, models.StatusApproved)
	mkIncome(999, models.StatusDraft)    // toplamlara girmez
	mkIncome(777, models.StatusRejected) // toplamlara girmez
	mkExpense(200, models.StatusApproved)
	mkExpense(888, models.StatusDraft)

	app := fiber.New()
	app.Get("/summary", FinancialSummaryHandler())

	resp, err := app.Test(httptest.NewRequest("GET",
		fmt.Sprintf("/summary?fiscal_year_id=%d", fy.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body SummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "800.00", body.IncomeTotal)
	assert.Equal(t, "200.00", body.ExpenseTotal)
	assert.Equal(t, "600.00", body.Net)
	assert.Equal(t, "1200.00", body.TotalBankBalance)

	require.Len(t, body.SubBudgets, 1)
	assert.Equal(t, sb.ID, body.SubBudgets[0].SubBudgetID)
	assert.Equal(t, "800.00", body.SubBudgets[0].IncomeTotal)
	assert.Equal(t, "200.00", body.SubBudgets[0].ExpenseTotal)
}
