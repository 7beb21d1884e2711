package main

import (
	"log"
	"strings"

	"dernek-backend/internal/approval"
	"dernek-backend/internal/audit"
	"dernek-backend/internal/auth"
	"dernek-backend/internal/bank"
	"dernek-backend/internal/beneficiary"
	"dernek-backend/internal/config"
	"dernek-backend/internal/database"
	"dernek-backend/internal/donor"
	"dernek-backend/internal/expense"
	"dernek-backend/internal/income"
	"dernek-backend/internal/kafil"
	"dernek-backend/internal/models"
	"dernek-backend/internal/refdata"
	"dernek-backend/internal/summary"
	"dernek-backend/internal/transfer"
	"dernek-backend/internal/widow"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Kullanıcı yönetimi
	adminRoutes.Post("/users", auth.CreateUserHandler())

	// Mali yıllar
	adminRoutes.Post("/fiscal-years", refdata.CreateFiscalYearHandler())
	adminRoutes.Put("/fiscal-years/:id", refdata.UpdateFiscalYearHandler())
	adminRoutes.Post("/fiscal-years/:id/activate", refdata.ActivateFiscalYearHandler())
	adminRoutes.Delete("/fiscal-years/:id", refdata.DeleteFiscalYearHandler())

	// Alt bütçeler
	adminRoutes.Post("/sub-budgets", refdata.CreateSubBudgetHandler())
	adminRoutes.Put("/sub-budgets/:id", refdata.UpdateSubBudgetHandler())
	adminRoutes.Delete("/sub-budgets/:id", refdata.DeleteSubBudgetHandler())

	// Gelir/gider kategorileri
	adminRoutes.Post("/income-categories", refdata.CreateIncomeCategoryHandler())
	adminRoutes.Put("/income-categories/:id", refdata.UpdateIncomeCategoryHandler())
	adminRoutes.Delete("/income-categories/:id", refdata.DeleteIncomeCategoryHandler())
	adminRoutes.Post("/expense-categories", refdata.CreateExpenseCategoryHandler())
	adminRoutes.Put("/expense-categories/:id", refdata.UpdateExpenseCategoryHandler())
	adminRoutes.Delete("/expense-categories/:id", refdata.DeleteExpenseCategoryHandler())

	// Eğitim seviyeleri
	adminRoutes.Post("/education-levels", refdata.CreateEducationLevelHandler())
	adminRoutes.Put("/education-levels/:id", refdata.UpdateEducationLevelHandler())
	adminRoutes.Delete("/education-levels/:id", refdata.DeleteEducationLevelHandler())

	// Banka hesapları
	adminRoutes.Post("/bank-accounts", bank.CreateBankAccountHandler())
	adminRoutes.Put("/bank-accounts/:id", bank.UpdateBankAccountHandler())
	adminRoutes.Delete("/bank-accounts/:id", bank.DeleteBankAccountHandler())

	// Onay motoru: bakiyeye dokunan tek yol
	adminRoutes.Post("/incomes/:id/approve", approval.ApproveIncomeHandler())
	adminRoutes.Post("/incomes/:id/reject", approval.RejectIncomeHandler())
	adminRoutes.Post("/expenses/:id/approve", approval.ApproveExpenseHandler())
	adminRoutes.Post("/expenses/:id/reject", approval.RejectExpenseHandler())
	adminRoutes.Post("/transfers/:id/approve", approval.ApproveTransferHandler())
	adminRoutes.Post("/transfers/:id/reject", approval.RejectTransferHandler())

	// Denetim izi
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Ortak (auth gerektiren) route'lar

	// Referans verileri (salt okunur)
	protected.Get("/fiscal-years", refdata.ListFiscalYearsHandler())
	protected.Get("/sub-budgets", refdata.ListSubBudgetsHandler())
	protected.Get("/income-categories", refdata.ListIncomeCategoriesHandler())
	protected.Get("/expense-categories", refdata.ListExpenseCategoriesHandler())
	protected.Get("/education-levels", refdata.ListEducationLevelsHandler())
	protected.Get("/bank-accounts", bank.ListBankAccountsHandler())

	// Ortak kuruluşlar
	protected.Post("/partners", refdata.CreatePartnerHandler())
	protected.Get("/partners", refdata.ListPartnersHandler())
	protected.Put("/partners/:id", refdata.UpdatePartnerHandler())
	protected.Delete("/partners/:id", refdata.DeletePartnerHandler())

	// Bağışçılar
	protected.Post("/donors", donor.CreateDonorHandler())
	protected.Get("/donors", donor.ListDonorsHandler())
	protected.Get("/donors/:id", donor.GetDonorHandler())
	protected.Put("/donors/:id", donor.UpdateDonorHandler())
	protected.Delete("/donors/:id", donor.DeleteDonorHandler())

	// Kefiller & kefalet
	protected.Post("/kafils", kafil.CreateKafilHandler())
	protected.Get("/kafils", kafil.ListKafilsHandler())
	protected.Get("/kafils/:id", kafil.GetKafilHandler())
	protected.Post("/kafils/:id/sponsorships", kafil.AddSponsorshipHandler())
	protected.Put("/kafils/:id/sponsorships/:sid", kafil.UpdateSponsorshipHandler())
	protected.Delete("/kafils/:id/sponsorships/:sid", kafil.RemoveSponsorshipHandler())
	protected.Delete("/kafils/:id", kafil.RemoveKafilStatusHandler())

	// Dullar & yetimler
	protected.Post("/widows", widow.CreateWidowHandler())
	protected.Get("/widows", widow.ListWidowsHandler())
	protected.Get("/widows/:id", widow.GetWidowHandler())
	protected.Put("/widows/:id", widow.UpdateWidowHandler())
	protected.Delete("/widows/:id", widow.DeleteWidowHandler())
	protected.Post("/orphans", widow.CreateOrphanHandler())
	protected.Get("/orphans", widow.ListOrphansHandler())
	protected.Put("/orphans/:id", widow.UpdateOrphanHandler())
	protected.Delete("/orphans/:id", widow.DeleteOrphanHandler())

	// Yararlanıcı grupları
	protected.Post("/beneficiary-groups", beneficiary.CreateGroupHandler())
	protected.Get("/beneficiary-groups", beneficiary.ListGroupsHandler())
	protected.Get("/beneficiary-groups/:id", beneficiary.GetGroupHandler())
	protected.Put("/beneficiary-groups/:id", beneficiary.UpdateGroupHandler())
	protected.Delete("/beneficiary-groups/:id", beneficiary.DeleteGroupHandler())

	// Gelirler
	protected.Post("/incomes", income.CreateIncomeHandler())
	protected.Get("/incomes", income.ListIncomesHandler())
	protected.Get("/incomes/:id", income.GetIncomeHandler())
	protected.Put("/incomes/:id", income.UpdateIncomeHandler())
	protected.Delete("/incomes/:id", income.DeleteIncomeHandler())
	protected.Post("/incomes/:id/transfer-to-bank", approval.TransferIncomeToBankHandler())

	// Giderler
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Get("/expenses/:id", expense.GetExpenseHandler())
	protected.Get("/expenses/:id/beneficiaries", expense.ListExpenseBeneficiariesHandler())
	protected.Put("/expenses/:id", expense.UpdateExpenseHandler())
	protected.Delete("/expenses/:id", expense.DeleteExpenseHandler())

	// Virmanlar
	protected.Post("/transfers", transfer.CreateTransferHandler())
	protected.Get("/transfers", transfer.ListTransfersHandler())
	protected.Get("/transfers/:id", transfer.GetTransferHandler())
	protected.Put("/transfers/:id", transfer.UpdateTransferHandler())
	protected.Delete("/transfers/:id", transfer.DeleteTransferHandler())

	// Mali özet
	protected.Get("/summary", summary.FinancialSummaryHandler())

	log.Printf("Sunucu %s portunda dinliyor", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
