// Package summary, onaylanmış mali kayıtlar üzerinden dönemsel özet raporu
// üretir. Taslak ve reddedilmiş kayıtlar toplamlara girmez.
package summary

import (
	"time"

	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SubBudgetBreakdown struct {
	SubBudgetID   uint   `json:"sub_budget_id"`
	SubBudgetName string `json:"sub_budget_name"`
	IncomeTotal   string `json:"income_total"`
	ExpenseTotal  string `json:"expense_total"`
	Net           string `json:"net"`
}

type SummaryResponse struct {
	FiscalYearID *uint  `json:"fiscal_year_id,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`

	IncomeTotal   string `json:"income_total"`
	ExpenseTotal  string `json:"expense_total"`
	TransferTotal string `json:"transfer_total"`
	Net           string `json:"net"`

	TotalBankBalance string               `json:"total_bank_balance"`
	SubBudgets       []SubBudgetBreakdown `json:"sub_budgets"`
}

type periodFilter struct {
	fiscalYearID *uint
	start, end   *time.Time
}

// sumAmounts: Belirtilen tabloda onaylı kayıtların tutar toplamı.
// Ondalık hassasiyet için satırlar Go tarafında decimal ile toplanır.
func sumAmounts(table string, dateCol string, f periodFilter, subBudgetID *uint) decimal.Decimal {
	dbq := database.DB.Table(table).Where("status = ?", models.StatusApproved)
	if f.fiscalYearID != nil {
		dbq = dbq.Where("fiscal_year_id = ?", *f.fiscalYearID)
	}
	if f.start != nil {
		dbq = dbq.Where(dateCol+" >= ?", *f.start)
	}
	if f.end != nil {
		dbq = dbq.Where(dateCol+" <= ?", *f.end)
	}
	if subBudgetID != nil {
		dbq = dbq.Where("sub_budget_id = ?", *subBudgetID)
	}

	var amounts []decimal.Decimal
	if err := dbq.Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// GET /api/summary
// Filtreler: fiscal_year_id, start_date, end_date (YYYY-MM-DD).
// Filtre verilmezse tüm onaylı kayıtlar toplanır.
func FinancialSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f periodFilter

		if v := c.Query("fiscal_year_id"); v != "" {
			id := uint(c.QueryInt("fiscal_year_id"))
			if id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "fiscal_year_id geçersiz")
			}
			f.fiscalYearID = &id
		}
		if v := c.Query("start_date"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date formatı 'YYYY-MM-DD' olmalı")
			}
			f.start = &t
		}
		if v := c.Query("end_date"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end_date formatı 'YYYY-MM-DD' olmalı")
			}
			f.end = &t
		}

		incomeTotal := sumAmounts("incomes", "income_date", f, nil)
		expenseTotal := sumAmounts("expenses", "expense_date", f, nil)
		transferTotal := sumAmounts("transfers", "transfer_date", f, nil)

		// Banka bakiyeleri anlık durumdur, dönem filtresinden etkilenmez.
		var accounts []models.BankAccount
		database.DB.Find(&accounts)
		bankTotal := decimal.Zero
		for _, acc := range accounts {
			bankTotal = bankTotal.Add(acc.Balance)
		}

		var subBudgets []models.SubBudget
		database.DB.Order("name asc").Find(&subBudgets)

		breakdown := make([]SubBudgetBreakdown, 0, len(subBudgets))
		for i := range subBudgets {
			sb := subBudgets[i]
			in := sumAmounts("incomes", "income_date", f, &sb.ID)
			out := sumAmounts("expenses", "expense_date", f, &sb.ID)
			if in.IsZero() && out.IsZero() {
				continue
			}
			breakdown = append(breakdown, SubBudgetBreakdown{
				SubBudgetID:   sb.ID,
				SubBudgetName: sb.Name,
				IncomeTotal:   in.StringFixed(2),
				ExpenseTotal:  out.StringFixed(2),
				Net:           in.Sub(out).StringFixed(2),
			})
		}

		res := SummaryResponse{
			FiscalYearID:     f.fiscalYearID,
			IncomeTotal:      incomeTotal.StringFixed(2),
			ExpenseTotal:     expenseTotal.StringFixed(2),
			TransferTotal:    transferTotal.StringFixed(2),
			Net:              incomeTotal.Sub(expenseTotal).StringFixed(2),
			TotalBankBalance: bankTotal.StringFixed(2),
			SubBudgets:       breakdown,
		}
		if f.start != nil {
			res.StartDate = f.start.Format("2006-01-02")
		}
		if f.end != nil {
			res.EndDate = f.end.Format("2006-01-02")
		}

		return c.JSON(res)
	}
}
