package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateBarcode  = errors.New("barcode already exists")
	ErrDuplicateCategory = errors.New("category name already exists")
)

type CatalogService interface {
	CreateProduct(req *model.Product, userID, userName string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, userID string) error
	GetAllProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)

	CreateCategory(req *model.Category, userID string) error
	UpdateCategory(id uuid.UUID, req *model.Category, userID string) (*model.Category, error)
	DeleteCategory(id uuid.UUID, userID string) error
	GetAllCategories() ([]model.Category, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	db           *gorm.DB
	notifier     Notifier
}

func NewCatalogService(pRepo repository.ProductRepository, cRepo repository.CategoryRepository, db *gorm.DB, notifier Notifier) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		db:           db,
		notifier:     notifier,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, userID, userName string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return ErrCategoryNotFound
	}

	if req.Barcode != "" {
		existing, _ := s.productRepo.FindByBarcode(req.Barcode)
		if existing != nil && existing.ID != uuid.Nil {
			return ErrDuplicateBarcode
		}
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.broadcastCatalogChange("product_created", map[string]interface{}{
		"id":    req.ID,
		"name":  req.Name,
		"stock": req.Stock,
		"price": req.Price,
	}, fmt.Sprintf("%s created product '%s'", userName, req.Name))

	return nil
}

// UpdateProduct applies a catalog edit. Edits are last-write-wins; stock
// consistency is owned by checkout's conditional decrement, not by this path.
func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error) {
	var updatedProduct *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}

		oldStock := existing.Stock

		existing.Name = req.Name
		existing.Description = req.Description
		existing.Price = req.Price
		existing.Stock = req.Stock
		existing.AlertStock = req.AlertStock
		existing.CategoryID = req.CategoryID
		existing.ImageURL = req.ImageURL
		existing.Barcode = req.Barcode
		existing.UpdatedBy = userID
		existing.UpdatedByUserID = &userID

		if errs := validator.ValidateStruct(&existing); len(errs) > 0 {
			firstErr := errs[0]
			return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updatedProduct = &existing

		s.broadcastCatalogChange("product_updated", map[string]interface{}{
			"id":        existing.ID,
			"name":      existing.Name,
			"old_stock": oldStock,
			"new_stock": existing.Stock,
			"price":     existing.Price,
		}, fmt.Sprintf("%s updated product '%s'", userName, existing.Name))

		return nil
	})

	if err != nil {
		return nil, err
	}

	return updatedProduct, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID, userID string) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	// Soft delete; historical transaction details keep their own snapshots.
	return s.productRepo.Delete(id, userID)
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}

func (s *catalogService) CreateCategory(req *model.Category, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.categoryRepo.FindByName(req.Name)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrDuplicateCategory
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.categoryRepo.Create(req)
}

func (s *catalogService) UpdateCategory(id uuid.UUID, req *model.Category, userID string) (*model.Category, error) {
	existing, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.UpdatedBy = userID

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.categoryRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteCategory removes a category without cascading: products keep their
// dangling reference, matching the catalog's last-write-wins contract.
func (s *catalogService) DeleteCategory(id uuid.UUID, userID string) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return ErrCategoryNotFound
	}
	return s.categoryRepo.Delete(id, userID)
}

func (s *catalogService) GetAllCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *catalogService) broadcastCatalogChange(action string, product map[string]interface{}, message string) {
	go func() {
		payload := map[string]interface{}{
			"type":    "stock_update",
			"action":  action,
			"product": product,
			"message": message,
		}
		msg, _ := json.Marshal(payload)
		s.notifier.Publish(msg)
	}()
}
