package main

import (
	"log"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/pkg/database"

	"github.com/joho/godotenv"
)

// Seeds demo catalog data for a fresh install: a handful of categories and
// products so the register has something to sell right away.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Category{}, &model.Product{})

	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)

	categories := []model.Category{
		{Name: "Makanan", Description: "Produk makanan utama dan lauk pauk"},
		{Name: "Minuman", Description: "Minuman segar dan hangat"},
		{Name: "Snack", Description: "Cemilan dan makanan ringan"},
		{Name: "Roti & Kue", Description: "Roti dan aneka kue"},
	}

	categoryIDs := make(map[string]model.Category)
	for _, c := range categories {
		existing, err := categoryRepo.FindByName(c.Name)
		if err == nil {
			categoryIDs[c.Name] = *existing
			continue
		}
		c.CreatedBy = "seed"
		c.UpdatedBy = "seed"
		if err := categoryRepo.Create(&c); err != nil {
			log.Fatalf("Failed to seed category %s: %v", c.Name, err)
		}
		categoryIDs[c.Name] = c
	}
	log.Printf("Seeded %d categories", len(categoryIDs))

	type seedProduct struct {
		name        string
		description string
		category    string
		price       int64
		stock       int
		alertStock  int
	}

	products := []seedProduct{
		{"Nasi Goreng Special", "Nasi goreng dengan telur, ayam, dan sayuran", "Makanan", 18000, 50, 10},
		{"Mie Ayam Bakso", "Mie ayam dengan bakso sapi", "Makanan", 15000, 40, 10},
		{"Ayam Geprek", "Ayam goreng geprek sambal bawang", "Makanan", 17000, 35, 8},
		{"Es Teh Manis", "Teh manis dingin", "Minuman", 5000, 100, 20},
		{"Kopi Susu", "Kopi susu gula aren", "Minuman", 12000, 60, 15},
		{"Air Mineral 600ml", "Air mineral kemasan botol", "Minuman", 4000, 120, 24},
		{"Keripik Singkong", "Keripik singkong balado", "Snack", 8000, 45, 10},
		{"Kacang Goreng", "Kacang tanah goreng bawang", "Snack", 7000, 30, 10},
		{"Roti Coklat", "Roti isi coklat", "Roti & Kue", 9000, 25, 5},
		{"Donat Gula", "Donat taburan gula halus", "Roti & Kue", 6000, 20, 5},
	}

	seeded := 0
	for _, p := range products {
		category, ok := categoryIDs[p.category]
		if !ok {
			log.Fatalf("Category %s not found for product %s", p.category, p.name)
		}

		// Re-running the seeder must not duplicate products.
		if _, err := productRepo.FindByName(p.name); err == nil {
			continue
		}

		product := model.Product{
			Name:        p.name,
			Description: p.description,
			Price:       p.price,
			Stock:       p.stock,
			AlertStock:  p.alertStock,
			CategoryID:  category.ID,
		}
		product.CreatedBy = "seed"
		product.UpdatedBy = "seed"

		if err := productRepo.Create(&product); err != nil {
			log.Printf("Warning: failed to seed product %s: %v", p.name, err)
			continue
		}
		seeded++
	}

	log.Printf("Seeded %d products", seeded)
}
