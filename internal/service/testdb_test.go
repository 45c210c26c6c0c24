package service

import (
	"testing"

	"go-kasir-pos/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database so the real SQL paths (transaction
// blocks, conditional decrements) run in tests. A single connection keeps
// every session on the same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Transaction{},
		&model.TransactionDetail{},
		&model.User{},
		&model.Privilege{},
		&model.Role{},
		&model.CashSession{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()

	category := &model.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category %s: %v", name, err)
	}
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *model.Product {
	t.Helper()

	category := seedCategory(t, db, "cat-"+name)
	product := &model.Product{
		Name:       name,
		Price:      price,
		Stock:      stock,
		CategoryID: category.ID,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return product
}
