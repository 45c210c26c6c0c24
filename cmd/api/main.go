package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-kasir-pos/internal/handler"
	"go-kasir-pos/internal/middleware"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/internal/service"
	"go-kasir-pos/internal/ws"
	"go-kasir-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Transaction{},
		&model.TransactionDetail{},
		&model.User{},
		&model.Privilege{},
		&model.Role{},
		&model.CashSession{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedRolesAndAdmin(db)

	// 4. Setup WebSocket Hub (change feed)
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	sessionRepo := repository.NewCashSessionRepo(db)

	checkoutService := service.NewCheckoutService(productRepo, txRepo, db, wsHub)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, db, wsHub)
	dashService := service.NewDashboardService(txRepo, productRepo)
	authService := service.NewAuthService(userRepo, roleRepo, privilegeRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	sessionService := service.NewCashSessionService(sessionRepo, txRepo)

	txHandler := handler.NewTransactionHandler(checkoutService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	sessionHandler := handler.NewCashSessionHandler(sessionService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Kasir POS API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard & reports
	protected.Get("/dashboard/metrics", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetMetrics)
	protected.Get("/reports/sales", middleware.RequirePrivilege("report:view"), dashHandler.GetSalesReport)

	// Catalog: categories
	protected.Get("/categories", catalogHandler.GetCategories)
	protected.Post("/categories", middleware.RequirePrivilege("category:create"), catalogHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequirePrivilege("category:update"), catalogHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequirePrivilege("category:delete"), catalogHandler.DeleteCategory)

	// Catalog: products
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), catalogHandler.DeleteProduct)

	// Transactions (checkout + history)
	protected.Get("/transactions", middleware.RequirePrivilege("transaction:view"), txHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege("transaction:view"), txHandler.GetTransaction)
	protected.Get("/transactions/:id/details", middleware.RequirePrivilege("transaction:view"), txHandler.GetTransactionDetails)
	protected.Post("/transactions", middleware.RequirePrivilege("transaction:create"), txHandler.Checkout)

	// Cash sessions
	protected.Get("/cash-sessions", middleware.RequirePrivilege("cash_session:view"), sessionHandler.History)
	protected.Get("/cash-sessions/current", middleware.RequirePrivilege("cash_session:view"), sessionHandler.Current)
	protected.Post("/cash-sessions/open", middleware.RequirePrivilege("cash_session:open"), sessionHandler.Open)
	protected.Post("/cash-sessions/close", middleware.RequirePrivilege("cash_session:close"), sessionHandler.Close)

	// User management
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles & privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedRolesAndAdmin creates default privileges, roles, and the admin user if they don't exist
func seedRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets ALL privileges
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(&adminRole).Association("Privileges").Replace(allPrivileges)
		log.Println("ADMIN role assigned all privileges")
	}

	// KASIR gets the cashier subset
	kasirRole, err := roleRepo.FindByCode(model.RoleKasir)
	if err == nil && len(kasirRole.Privileges) == 0 {
		kasirPrivileges, _ := privilegeRepo.FindByCodes(model.KasirPrivilegeCodes)
		db.Model(&kasirRole).Association("Privileges").Replace(kasirPrivileges)
		log.Println("KASIR role assigned cashier privileges")
	}

	// 4. Create default admin user with ADMIN role
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(adminEmail); err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RoleAdmin)

		admin := &model.User{
			Email:      adminEmail,
			FullName:   "Administrator",
			RoleID:     &adminRole.ID,
			IsActive:   true,
			Privileges: adminRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		if err := admin.SetPassword(password); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Printf("Admin user created: %s (ADMIN)", adminEmail)
		}
	}
}
