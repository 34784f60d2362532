package router

import (
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/config"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/handler"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/infra"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/middleware"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/service"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	fiscalRepo := repository.NewFiscalSequenceRepository(db)
	creditRepo := repository.NewCreditAccountRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, movementRepo, rdb)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo)
	fiscalSvc := service.NewFiscalService(fiscalRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, movementRepo, fiscalRepo, creditRepo, customerRepo, dispatcher, cfg)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, productRepo, movementRepo)
	creditSvc := service.NewCreditService(creditRepo)
	reportSvc := service.NewReportService(saleRepo, productRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	customersH := handler.NewCustomersHandler(customerRepo)
	salesH := handler.NewSalesHandler(saleSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	fiscalH := handler.NewFiscalHandler(fiscalSvc)
	creditH := handler.NewCreditHandler(creditSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleCashier, model.RoleSupervisor, model.RoleAdmin)
	supervisorUp := middleware.RequireRole(model.RoleSupervisor, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Sales lifecycle. Cashiers draft and settle; voiding and refunding
		// money already taken needs a supervisor.
		v1.POST("/sales", anyRole, salesH.Create)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.Get)
		v1.POST("/sales/:id/pay", anyRole, salesH.Pay)
		v1.POST("/sales/:id/refund", supervisorUp, salesH.Refund)
		v1.POST("/sales/:id/cancel", supervisorUp, salesH.Cancel)

		// Catalog — everyone reads, admin writes
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		v1.GET("/products/price/:barcode", anyRole, productsH.PriceByBarcode)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
		}

		// Customers
		v1.GET("/customers", anyRole, customersH.List)
		v1.GET("/customers/:id", anyRole, customersH.Get)
		v1.POST("/customers", anyRole, customersH.Create)

		// Inventory
		inv := v1.Group("/inventory", supervisorUp)
		{
			inv.POST("/adjust", inventoryH.Adjust)
			inv.GET("/low-stock", inventoryH.LowStock)
		}

		// Purchases
		purch := v1.Group("/purchases", supervisorUp)
		{
			purch.POST("", purchasesH.Create)
			purch.GET("", purchasesH.List)
			purch.GET("/:id", purchasesH.Get)
			purch.POST("/:id/receive", purchasesH.Receive)
			purch.DELETE("/:id", purchasesH.Cancel)
		}

		// Fiscal sequences
		v1.POST("/fiscal/next-ncf", supervisorUp, fiscalH.NextNCF)
		fisc := v1.Group("/fiscal/sequences", adminOnly)
		{
			fisc.POST("", fiscalH.CreateSequence)
			fisc.GET("", fiscalH.ListSequences)
		}

		// Credit accounts
		credit := v1.Group("/credit", supervisorUp)
		{
			credit.GET("", creditH.List)
			credit.GET("/:id", creditH.Get)
			credit.POST("/:id/payments", creditH.RegisterPayment)
		}

		// Reports
		reports := v1.Group("/reports", supervisorUp)
		{
			reports.GET("/sales-summary", reportsH.SalesSummary)
			reports.GET("/stock-movements", inventoryH.Movements)
			reports.GET("/low-stock", reportsH.LowStock)
		}

		// Users — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
