// Package expense, gider kayıtlarının CRUD'unu ve yararlanıcı dağılımını
// içerir. Dağılım satırları raporlama amaçlıdır; para hareketini yalnızca
// onay motoru yapar ve dağılım toplamı gider tutarını aşamaz.
package expense

import (
	"fmt"
	"time"

	"dernek-backend/internal/audit"
	"dernek-backend/internal/auth"
	"dernek-backend/internal/beneficiary"
	"dernek-backend/internal/database"
	"dernek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BeneficiaryShare struct {
	BeneficiaryType string          `json:"beneficiary_type"` // "widow" | "orphan"
	BeneficiaryID   uint            `json:"beneficiary_id"`
	Amount          decimal.Decimal `json:"amount"`
	Notes           string          `json:"notes"`
}

type GroupShare struct {
	BeneficiaryGroupID uint            `json:"beneficiary_group_id"`
	Amount             decimal.Decimal `json:"amount"`
	Notes              string          `json:"notes"`
}

type CreateExpenseRequest struct {
	FiscalYearID      uint            `json:"fiscal_year_id"`
	SubBudgetID       uint            `json:"sub_budget_id"`
	ExpenseCategoryID uint            `json:"expense_category_id"`
	PartnerID         *uint           `json:"partner_id"`
	ExpenseDate       string          `json:"expense_date"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentMethod     string          `json:"payment_method"`
	ChequeNumber      string          `json:"cheque_number"`
	ReceiptNumber     string          `json:"receipt_number"`
	BankAccountID     *uint           `json:"bank_account_id"`
	UnrelatedToBenef  bool            `json:"unrelated_to_benef"`
	Remarks           string          `json:"remarks"`

	Beneficiaries     []BeneficiaryShare `json:"beneficiaries"`
	BeneficiaryGroups []GroupShare       `json:"beneficiary_groups"`
}

type UpdateExpenseRequest struct {
	FiscalYearID      *uint            `json:"fiscal_year_id"`
	SubBudgetID       *uint            `json:"sub_budget_id"`
	ExpenseCategoryID *uint            `json:"expense_category_id"`
	PartnerID         *uint            `json:"partner_id"`
	ExpenseDate       *string          `json:"expense_date"`
	Amount            *decimal.Decimal `json:"amount"`
	PaymentMethod     *string          `json:"payment_method"`
	ChequeNumber      *string          `json:"cheque_number"`
	ReceiptNumber     *string          `json:"receipt_number"`
	BankAccountID     *uint            `json:"bank_account_id"`
	UnrelatedToBenef  *bool            `json:"unrelated_to_benef"`
	Remarks           *string          `json:"remarks"`

	// nil: dağılım dokunulmadan kalır; boş dizi: dağılım temizlenir.
	Beneficiaries     *[]BeneficiaryShare `json:"beneficiaries"`
	BeneficiaryGroups *[]GroupShare       `json:"beneficiary_groups"`
}

type ExpenseResponse struct {
	ID                uint    `json:"id"`
	FiscalYearID      uint    `json:"fiscal_year_id"`
	SubBudgetID       uint    `json:"sub_budget_id"`
	ExpenseCategoryID uint    `json:"expense_category_id"`
	CategoryName      string  `json:"category_name,omitempty"`
	PartnerID         *uint   `json:"partner_id"`
	PartnerName       string  `json:"partner_name,omitempty"`
	ExpenseDate       string  `json:"expense_date"`
	Amount            string  `json:"amount"`
	PaymentMethod     string  `json:"payment_method"`
	ChequeNumber      string  `json:"cheque_number,omitempty"`
	ReceiptNumber     string  `json:"receipt_number,omitempty"`
	BankAccountID     *uint   `json:"bank_account_id"`
	UnrelatedToBenef  bool    `json:"unrelated_to_benef"`
	Remarks           string  `json:"remarks,omitempty"`
	Status            string  `json:"status"`
	CreatedBy         uint    `json:"created_by"`
	ApprovedBy        *uint   `json:"approved_by,omitempty"`
	ApprovedAt        *string `json:"approved_at,omitempty"`

	Beneficiaries     []BeneficiaryShareResponse `json:"beneficiaries"`
	BeneficiaryGroups []GroupShareResponse       `json:"beneficiary_groups"`
}

type BeneficiaryShareResponse struct {
	ID              uint   `json:"id"`
	BeneficiaryType string `json:"beneficiary_type"`
	BeneficiaryID   uint   `json:"beneficiary_id"`
	Amount          string `json:"amount"`
	Notes           string `json:"notes,omitempty"`
}

type GroupShareResponse struct {
	ID                 uint   `json:"id"`
	BeneficiaryGroupID uint   `json:"beneficiary_group_id"`
	GroupName          string `json:"group_name,omitempty"`
	Amount             string `json:"amount"`
	Notes              string `json:"notes,omitempty"`
}

func stamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func expenseToResponse(exp *models.Expense) ExpenseResponse {
	res := ExpenseResponse{
		ID:                exp.ID,
		FiscalYearID:      exp.FiscalYearID,
		SubBudgetID:       exp.SubBudgetID,
		ExpenseCategoryID: exp.ExpenseCategoryID,
		CategoryName:      exp.ExpenseCategory.Name,
		PartnerID:         exp.PartnerID,
		ExpenseDate:       exp.ExpenseDate.Format("2006-01-02"),
		Amount:            exp.Amount.StringFixed(2),
		PaymentMethod:     string(exp.PaymentMethod),
		ChequeNumber:      exp.ChequeNumber,
		ReceiptNumber:     exp.ReceiptNumber,
		BankAccountID:     exp.BankAccountID,
		UnrelatedToBenef:  exp.UnrelatedToBenef,
		Remarks:           exp.Remarks,
		Status:            string(exp.Status),
		CreatedBy:         exp.CreatedBy,
		ApprovedBy:        exp.ApprovedBy,
		ApprovedAt:        stamp(exp.ApprovedAt),
		Beneficiaries:     make([]BeneficiaryShareResponse, 0, len(exp.Beneficiaries)),
		BeneficiaryGroups: make([]GroupShareResponse, 0, len(exp.BeneficiaryGroups)),
	}
	if exp.Partner != nil {
		res.PartnerName = exp.Partner.Name
	}
	for _, b := range exp.Beneficiaries {
		res.Beneficiaries = append(res.Beneficiaries, BeneficiaryShareResponse{
			ID:              b.ID,
			BeneficiaryType: string(b.BeneficiaryType),
			BeneficiaryID:   b.BeneficiaryID,
			Amount:          b.Amount.StringFixed(2),
			Notes:           b.Notes,
		})
	}
	for _, g := range exp.BeneficiaryGroups {
		gr := GroupShareResponse{
			ID:                 g.ID,
			BeneficiaryGroupID: g.BeneficiaryGroupID,
			GroupName:          g.BeneficiaryGroup.Name,
			Amount:             g.Amount.StringFixed(2),
			Notes:              g.Notes,
		}
		res.BeneficiaryGroups = append(res.BeneficiaryGroups, gr)
	}
	return res
}

// validateShares: Dağılım satırlarının hedeflerini doğrular ve toplamın
// gider tutarını aşmadığını kontrol eder.
func validateShares(amount decimal.Decimal, shares []BeneficiaryShare, groups []GroupShare) error {
	total := decimal.Zero
	for _, s := range shares {
		if !s.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Dağılım tutarı pozitif olmalı")
		}
		if err := beneficiary.Exists(database.DB, models.BeneficiaryType(s.BeneficiaryType), s.BeneficiaryID); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		total = total.Add(s.Amount)
	}
	for _, g := range groups {
		if !g.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Dağılım tutarı pozitif olmalı")
		}
		if err := database.DB.First(&models.BeneficiaryGroup{}, "id = ?", g.BeneficiaryGroupID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Yararlanıcı grubu bulunamadı")
		}
		total = total.Add(g.Amount)
	}
	if total.GreaterThan(amount) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Dağılım toplamı (%s) gider tutarını (%s) aşamaz",
				total.StringFixed(2), amount.StringFixed(2)))
	}
	return nil
}

func validateExpenseRefs(exp *models.Expense) error {
	if err := database.DB.First(&models.FiscalYear{}, "id = ?", exp.FiscalYearID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mali yıl bulunamadı")
	}
	if err := database.DB.First(&models.SubBudget{}, "id = ?", exp.SubBudgetID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Alt bütçe bulunamadı")
	}
	if err := database.DB.First(&models.ExpenseCategory{}, "id = ?", exp.ExpenseCategoryID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Gider kategorisi bulunamadı")
	}
	if exp.PartnerID != nil {
		if err := database.DB.First(&models.Partner{}, "id = ?", *exp.PartnerID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ortak kuruluş bulunamadı")
		}
	}
	if exp.BankAccountID != nil {
		if err := database.DB.First(&models.BankAccount{}, "id = ?", *exp.BankAccountID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Banka hesabı bulunamadı")
		}
	}
	return nil
}

func replaceShares(tx *gorm.DB, expenseID uint, shares []BeneficiaryShare, groups []GroupShare) error {
	if err := tx.Where("expense_id = ?", expenseID).Delete(&models.ExpenseBeneficiary{}).Error; err != nil {
		return err
	}
	if err := tx.Where("expense_id = ?", expenseID).Delete(&models.ExpenseBeneficiaryGroup{}).Error; err != nil {
		return err
	}
	for _, s := range shares {
		row := models.ExpenseBeneficiary{
			ExpenseID:       expenseID,
			BeneficiaryType: models.BeneficiaryType(s.BeneficiaryType),
			BeneficiaryID:   s.BeneficiaryID,
			Amount:          s.Amount,
			Notes:           s.Notes,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, g := range groups {
		row := models.ExpenseBeneficiaryGroup{
			ExpenseID:          expenseID,
			BeneficiaryGroupID: g.BeneficiaryGroupID,
			Amount:             g.Amount,
			Notes:              g.Notes,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func loadExpense(id any) (*models.Expense, error) {
	var exp models.Expense
	err := database.DB.Preload("ExpenseCategory").Preload("Partner").
		Preload("Beneficiaries").Preload("BeneficiaryGroups").
		Preload("BeneficiaryGroups.BeneficiaryGroup").
		First(&exp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if !body.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Amount pozitif olmalı")
		}
		method := models.PaymentMethod(body.PaymentMethod)
		if !method.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "payment_method 'cash', 'cheque' veya 'bank_wire' olmalı")
		}
		expenseDate, err := time.Parse("2006-01-02", body.ExpenseDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "expense_date formatı 'YYYY-MM-DD' olmalı")
		}

		exp := models.Expense{
			FiscalYearID:      body.FiscalYearID,
			SubBudgetID:       body.SubBudgetID,
			ExpenseCategoryID: body.ExpenseCategoryID,
			PartnerID:         body.PartnerID,
			ExpenseDate:       expenseDate,
			Amount:            body.Amount,
			PaymentMethod:     method,
			ChequeNumber:      body.ChequeNumber,
			ReceiptNumber:     body.ReceiptNumber,
			BankAccountID:     body.BankAccountID,
			UnrelatedToBenef:  body.UnrelatedToBenef,
			Remarks:           body.Remarks,
			Status:            models.StatusDraft,
			CreatedBy:         user.ID,
		}

		if err := validateExpenseRefs(&exp); err != nil {
			return err
		}
		if err := validateShares(exp.Amount, body.Beneficiaries, body.BeneficiaryGroups); err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&exp).Error; err != nil {
				return err
			}
			return replaceShares(tx, exp.ID, body.Beneficiaries, body.BeneficiaryGroups)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydı oluşturulamadı")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "expense",
			EntityID:    exp.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Gider kaydı açıldı: %s TL", exp.Amount.StringFixed(2)),
			After:       exp,
		})

		full, err := loadExpense(exp.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydı okunamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(expenseToResponse(full))
	}
}

// GET /api/expenses
// Filtreler gelirlerle aynı kalıptadır; ek olarak partner_id ve
// unrelated_to_benef desteklenir.
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Expense{})

		if v := c.Query("fiscal_year_id"); v != "" {
			dbq = dbq.Where("fiscal_year_id = ?", v)
		}
		if v := c.Query("sub_budget_id"); v != "" {
			dbq = dbq.Where("sub_budget_id = ?", v)
		}
		if v := c.Query("category_id"); v != "" {
			dbq = dbq.Where("expense_category_id = ?", v)
		}
		if v := c.Query("partner_id"); v != "" {
			dbq = dbq.Where("partner_id = ?", v)
		}
		if v := c.Query("payment_method"); v != "" {
			dbq = dbq.Where("payment_method = ?", v)
		}
		if v := c.Query("status"); v != "" {
			dbq = dbq.Where("status = ?", v)
		}
		if v := c.Query("unrelated_to_benef"); v != "" {
			dbq = dbq.Where("unrelated_to_benef = ?", v == "true")
		}
		if v := c.Query("start_date"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				dbq = dbq.Where("expense_date >= ?", t)
			}
		}
		if v := c.Query("end_date"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				dbq = dbq.Where("expense_date <= ?", t)
			}
		}
		if v := c.Query("min_amount"); v != "" {
			dbq = dbq.Where("amount >= ?", v)
		}
		if v := c.Query("max_amount"); v != "" {
			dbq = dbq.Where("amount <= ?", v)
		}
		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("remarks LIKE ? OR receipt_number LIKE ?", like, like)
		}

		var total int64
		dbq.Count(&total)

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		perPage := c.QueryInt("per_page", 20)
		if perPage < 1 || perPage > 100 {
			perPage = 20
		}

		var rows []models.Expense
		if err := dbq.Preload("ExpenseCategory").Preload("Partner").
			Preload("Beneficiaries").Preload("BeneficiaryGroups").
			Preload("BeneficiaryGroups.BeneficiaryGroup").
			Order("expense_date desc, id desc").
			Offset((page - 1) * perPage).Limit(perPage).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giderler listelenemedi")
		}

		res := make([]ExpenseResponse, 0, len(rows))
		for i := range rows {
			res = append(res, expenseToResponse(&rows[i]))
		}

		return c.JSON(fiber.Map{
			"data":     res,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		})
	}
}

// GET /api/expenses/:id
func GetExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		exp, err := loadExpense(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider kaydı bulunamadı")
		}
		return c.JSON(expenseToResponse(exp))
	}
}

// GET /api/expenses/:id/beneficiaries
// Doğrudan dağılım satırları ile grup üyelerinin birleşimini normalize
// şekilde döner; silinen hedefler dangling işaretlenir.
func ListExpenseBeneficiariesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		exp, err := loadExpense(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider kaydı bulunamadı")
		}

		seen := make(map[string]bool)
		resolved := make([]beneficiary.Resolved, 0)

		add := func(typ models.BeneficiaryType, id uint) {
			key := fmt.Sprintf("%s:%d", typ, id)
			if seen[key] {
				return
			}
			seen[key] = true
			resolved = append(resolved, beneficiary.Resolve(database.DB, typ, id))
		}

		for _, b := range exp.Beneficiaries {
			add(b.BeneficiaryType, b.BeneficiaryID)
		}

		for _, g := range exp.BeneficiaryGroups {
			var members []models.BeneficiaryGroupMember
			if err := database.DB.Where("beneficiary_group_id = ?", g.BeneficiaryGroupID).
				Find(&members).Error; err != nil {
				continue
			}
			for _, m := range members {
				add(m.BeneficiaryType, m.BeneficiaryID)
			}
		}

		return c.JSON(resolved)
	}
}

// PUT /api/expenses/:id
// Sadece draft düzenlenebilir.
func UpdateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var exp models.Expense
		if err := database.DB.First(&exp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider kaydı bulunamadı")
		}
		if exp.Status != models.StatusDraft {
			return fiber.NewError(fiber.StatusConflict, "Sadece taslak kayıtlar düzenlenebilir")
		}

		before := exp

		var body UpdateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.FiscalYearID != nil {
			exp.FiscalYearID = *body.FiscalYearID
		}
		if body.SubBudgetID != nil {
			exp.SubBudgetID = *body.SubBudgetID
		}
		if body.ExpenseCategoryID != nil {
			exp.ExpenseCategoryID = *body.ExpenseCategoryID
		}
		if body.PartnerID != nil {
			if *body.PartnerID == 0 {
				exp.PartnerID = nil
			} else {
				exp.PartnerID = body.PartnerID
			}
		}
		if body.ExpenseDate != nil {
			t, err := time.Parse("2006-01-02", *body.ExpenseDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expense_date formatı 'YYYY-MM-DD' olmalı")
			}
			exp.ExpenseDate = t
		}
		if body.Amount != nil {
			if !body.Amount.IsPositive() {
				return fiber.NewError(fiber.StatusBadRequest, "Amount pozitif olmalı")
			}
			exp.Amount = *body.Amount
		}
		if body.PaymentMethod != nil {
			method := models.PaymentMethod(*body.PaymentMethod)
			if !method.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "payment_method 'cash', 'cheque' veya 'bank_wire' olmalı")
			}
			exp.PaymentMethod = method
		}
		if body.ChequeNumber != nil {
			exp.ChequeNumber = *body.ChequeNumber
		}
		if body.ReceiptNumber != nil {
			exp.ReceiptNumber = *body.ReceiptNumber
		}
		if body.BankAccountID != nil {
			if *body.BankAccountID == 0 {
				exp.BankAccountID = nil
			} else {
				exp.BankAccountID = body.BankAccountID
			}
		}
		if body.UnrelatedToBenef != nil {
			exp.UnrelatedToBenef = *body.UnrelatedToBenef
		}
		if body.Remarks != nil {
			exp.Remarks = *body.Remarks
		}

		if err := validateExpenseRefs(&exp); err != nil {
			return err
		}

		// Dağılım değişmeden kalsa bile yeni tutara karşı yeniden doğrulanır.
		shares := currentShares(exp.ID)
		groups := currentGroupShares(exp.ID)
		if body.Beneficiaries != nil {
			shares = *body.Beneficiaries
		}
		if body.BeneficiaryGroups != nil {
			groups = *body.BeneficiaryGroups
		}
		if err := validateShares(exp.Amount, shares, groups); err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Expense{}).
				Where("id = ? AND status = ?", exp.ID, models.StatusDraft).
				Select("*").Omit("id", "status", "created_by", "created_at", "approved_by", "approved_at").
				Updates(&exp)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			if body.Beneficiaries != nil || body.BeneficiaryGroups != nil {
				return replaceShares(tx, exp.ID, shares, groups)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusConflict, "Gider kaydı güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "expense",
			EntityID:    exp.ID,
			Action:      models.AuditActionUpdate,
			Description: "Gider kaydı güncellendi",
			Before:      before,
			After:       exp,
		})

		full, err := loadExpense(exp.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydı okunamadı")
		}
		return c.JSON(expenseToResponse(full))
	}
}

func currentShares(expenseID uint) []BeneficiaryShare {
	var rows []models.ExpenseBeneficiary
	database.DB.Where("expense_id = ?", expenseID).Find(&rows)
	res := make([]BeneficiaryShare, 0, len(rows))
	for _, r := range rows {
		res = append(res, BeneficiaryShare{
			BeneficiaryType: string(r.BeneficiaryType),
			BeneficiaryID:   r.BeneficiaryID,
			Amount:          r.Amount,
			Notes:           r.Notes,
		})
	}
	return res
}

func currentGroupShares(expenseID uint) []GroupShare {
	var rows []models.ExpenseBeneficiaryGroup
	database.DB.Where("expense_id = ?", expenseID).Find(&rows)
	res := make([]GroupShare, 0, len(rows))
	for _, r := range rows {
		res = append(res, GroupShare{
			BeneficiaryGroupID: r.BeneficiaryGroupID,
			Amount:             r.Amount,
			Notes:              r.Notes,
		})
	}
	return res
}

// DELETE /api/expenses/:id
// approved kayıt silinemez; draft ve rejected dağılım satırlarıyla birlikte silinir.
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var exp models.Expense
		if err := database.DB.First(&exp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider kaydı bulunamadı")
		}
		if exp.Status == models.StatusApproved {
			return fiber.NewError(fiber.StatusConflict, "Onaylanmış kayıt silinemez")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("expense_id = ?", exp.ID).Delete(&models.ExpenseBeneficiary{}).Error; err != nil {
				return err
			}
			if err := tx.Where("expense_id = ?", exp.ID).Delete(&models.ExpenseBeneficiaryGroup{}).Error; err != nil {
				return err
			}
			res := tx.Where("id = ? AND status <> ?", exp.ID, models.StatusApproved).
				Delete(&models.Expense{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusConflict, "Kayıt silinemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "expense",
			EntityID:    exp.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Gider kaydı silindi: %s TL", exp.Amount.StringFixed(2)),
			Before:      exp,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
