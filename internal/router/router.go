package router

import (
	"context"
	"net/http"

	"fintrack/config"
	"fintrack/internal/handler"
	"fintrack/internal/middleware"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers onto a gin engine. ctx
// bounds background work such as the rate limiter's cleanup loop.
func Setup(ctx context.Context, cfg *config.Config, db *gorm.DB, hub *ws.Hub) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	loc := cfg.Ledger.Location()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(ctx, cfg.RateLimit.Requests, cfg.RateLimit.Window)))

	// Repositories
	walletRepo := repository.NewWalletRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	tipRepo := repository.NewTipRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	presetRepo := repository.NewPresetRepository(db)

	// Services
	balanceSvc := service.NewBalanceService(db, ledgerRepo, walletRepo, hub)
	walletSvc := service.NewWalletService(balanceSvc, walletRepo, ledgerRepo, incomeRepo, expenseRepo, transferRepo, cfg.Ledger.Currency, loc)
	ledgerSvc := service.NewLedgerService(balanceSvc, walletRepo, incomeRepo, expenseRepo, tipRepo, loc)
	goalSvc := service.NewGoalService(balanceSvc, walletRepo, goalRepo, loc)
	debtSvc := service.NewDebtService(db, debtRepo, loc)
	statsSvc := service.NewStatsService(balanceSvc, ledgerRepo, walletRepo)

	// Handlers
	walletHandler := handler.NewWalletHandler(walletSvc)
	ledgerHandler := handler.NewLedgerHandler(ledgerSvc, loc)
	goalHandler := handler.NewGoalHandler(goalSvc)
	debtHandler := handler.NewDebtHandler(debtSvc, loc)
	presetHandler := handler.NewPresetHandler(presetRepo)
	statsHandler := handler.NewStatsHandler(statsSvc, loc)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "service": "fintrack"})
	})

	api := r.Group("/api/v1")
	{
		wallets := api.Group("/wallets")
		{
			wallets.GET("", walletHandler.List)
			wallets.POST("", walletHandler.Create)
			wallets.POST("/transfer", walletHandler.Transfer)
			wallets.GET("/transfers", walletHandler.ListTransfers)
			wallets.DELETE("/transfers/:id", walletHandler.DeleteTransfer)
			wallets.POST("/recompute", walletHandler.Recompute)
			wallets.GET("/:id", walletHandler.Get)
			wallets.PATCH("/:id", walletHandler.Update)
			wallets.DELETE("/:id", walletHandler.Archive)
			wallets.PATCH("/:id/default", walletHandler.SetDefault)
		}

		incomes := api.Group("/incomes")
		{
			incomes.GET("", ledgerHandler.ListIncomes)
			incomes.POST("", ledgerHandler.CreateIncome)
			incomes.PATCH("/:id", ledgerHandler.UpdateIncome)
			incomes.PUT("/:id", ledgerHandler.UpdateIncome)
			incomes.DELETE("/:id", ledgerHandler.DeleteIncome)
		}
		expenses := api.Group("/expenses")
		{
			expenses.GET("", ledgerHandler.ListExpenses)
			expenses.POST("", ledgerHandler.CreateExpense)
			expenses.PATCH("/:id", ledgerHandler.UpdateExpense)
			expenses.PUT("/:id", ledgerHandler.UpdateExpense)
			expenses.DELETE("/:id", ledgerHandler.DeleteExpense)
		}
		tips := api.Group("/tips")
		{
			tips.GET("", ledgerHandler.ListTips)
			tips.POST("", ledgerHandler.CreateTip)
			tips.PATCH("/:id", ledgerHandler.UpdateTip)
			tips.PUT("/:id", ledgerHandler.UpdateTip)
			tips.DELETE("/:id", ledgerHandler.DeleteTip)
		}

		goals := api.Group("/goals")
		{
			goals.GET("", goalHandler.List)
			goals.POST("", goalHandler.Create)
			goals.PATCH("/:id", goalHandler.Update)
			goals.DELETE("/:id", goalHandler.Delete)
			goals.GET("/:id/contributions", goalHandler.ListContributions)
			goals.POST("/:id/contributions", goalHandler.CreateContribution)
			goals.PATCH("/:id/contributions/:cid", goalHandler.UpdateContribution)
			goals.DELETE("/:id/contributions/:cid", goalHandler.DeleteContribution)
		}

		debts := api.Group("/debts")
		{
			debts.GET("", debtHandler.List)
			debts.POST("", debtHandler.Create)
			debts.GET("/:id", debtHandler.Get)
			debts.PATCH("/:id", debtHandler.Update)
			debts.DELETE("/:id", debtHandler.Delete)
			debts.GET("/:id/contributions", debtHandler.ListContributions)
			debts.POST("/:id/contributions", debtHandler.AddContribution)
			debts.DELETE("/:id/contributions/:cid", debtHandler.DeleteContribution)
		}

		presets := api.Group("/presets")
		{
			presets.GET("", presetHandler.List)
			presets.POST("", presetHandler.Create)
			presets.PUT("/:id", presetHandler.Update)
			presets.DELETE("/:id", presetHandler.Delete)
		}

		api.GET("/stats/kpi", statsHandler.KPI)
	}

	r.GET("/ws/balances", ws.UpgradeBalanceWS(&cfg.WS, hub))

	return r
}
