package repository

import (
	"errors"
	"testing"

	"go-kasir-pos/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCatalogTestDB(t *testing.T) *gorm.DB {
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

	if err := db.AutoMigrate(&model.Category{}, &model.Product{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func TestFindByName(t *testing.T) {
	db := newCatalogTestDB(t)
	repo := NewProductRepo(db)

	category := &model.Category{Name: "Minuman"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	product := &model.Product{Name: "Es Teh Manis", Price: 5000, Stock: 100, CategoryID: category.ID}
	if err := repo.Create(product); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.FindByName("Es Teh Manis")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if found.ID != product.ID {
		t.Errorf("found product %s, want %s", found.ID, product.ID)
	}

	if _, err := repo.FindByName("Tidak Ada"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

// Seeding guards on product name, so running the same seed data twice must
// not create duplicate rows.
func TestSeedByNameIsIdempotent(t *testing.T) {
	db := newCatalogTestDB(t)
	repo := NewProductRepo(db)

	category := &model.Category{Name: "Makanan"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	seed := func() {
		names := []string{"Nasi Goreng Special", "Mie Ayam Bakso"}
		for _, name := range names {
			if _, err := repo.FindByName(name); err == nil {
				continue
			}
			product := &model.Product{Name: name, Price: 15000, Stock: 40, CategoryID: category.ID}
			if err := repo.Create(product); err != nil {
				t.Fatalf("Create %s failed: %v", name, err)
			}
		}
	}

	seed()
	seed()

	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("product rows = %d, want 2 after reseeding", count)
	}
}
