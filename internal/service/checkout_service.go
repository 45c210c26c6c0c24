package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxRatePercent is the fixed tax applied on top of the cart subtotal.
const TaxRatePercent = 10

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrDuplicateCartLine    = errors.New("duplicate product in cart")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrProductNotFound      = errors.New("product not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
)

// CartLine is one requested line item: a product reference plus quantity.
// Carts are transient; they exist only as input to Commit.
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// PaymentInfo carries the payment metadata recorded with a sale.
type PaymentInfo struct {
	Method model.PaymentMethod
	Notes  string
}

// CheckoutResult reports the committed sale back to the caller.
type CheckoutResult struct {
	TransactionID     uuid.UUID `json:"transaction_id"`
	TransactionNumber string    `json:"transaction_number"`
	Subtotal          int64     `json:"subtotal"`
	Tax               int64     `json:"tax"`
	Total             int64     `json:"total"`
}

type CheckoutService interface {
	Commit(lines []CartLine, payment PaymentInfo, userID, userName string) (*CheckoutResult, error)
	GetDetails(transactionID uuid.UUID) ([]model.TransactionDetail, error)
	GetAllTransactions() ([]model.Transaction, error)
	GetTransaction(id uuid.UUID) (*model.Transaction, error)
}

type checkoutService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	notifier        Notifier
}

func NewCheckoutService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, db *gorm.DB, notifier Notifier) CheckoutService {
	return &checkoutService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		db:              db,
		notifier:        notifier,
	}
}

// Commit converts a validated cart into durable records: one transaction
// header, one detail per line, and a stock decrement per product. All of it
// lands in a single database transaction or none of it does. There is no
// automatic retry; a failed commit must be re-initiated by the caller.
func (s *checkoutService) Commit(lines []CartLine, payment PaymentInfo, userID, userName string) (*CheckoutResult, error) {
	if err := validateCart(lines, payment); err != nil {
		return nil, err
	}

	number := generateTransactionNumber()
	now := time.Now()

	trx := model.Transaction{
		TransactionNumber: number,
		PaymentMethod:     payment.Method,
		Status:            model.StatusCompleted,
		Notes:             payment.Notes,
	}
	if userID != "" {
		trx.UserID = &userID
		trx.CreatedBy = userID
		trx.UpdatedBy = userID
	}

	var (
		details  []model.TransactionDetail
		subtotal int64
		tax      int64
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		details = details[:0]
		subtotal = 0
		for _, line := range lines {
			var product model.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
				}
				return err
			}

			// Conditional decrement closes the oversell race between two
			// checkouts that both read enough stock before either commits.
			affected, err := s.productRepo.DecrementStock(tx, product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("%w: %s (available %d, requested %d)",
					ErrInsufficientStock, product.Name, product.Stock, line.Quantity)
			}

			lineSubtotal := product.Price * int64(line.Quantity)
			subtotal += lineSubtotal
			details = append(details, model.TransactionDetail{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
				Subtotal:    lineSubtotal,
			})
		}

		tax = subtotal * TaxRatePercent / 100
		trx.TotalAmount = subtotal + tax
		trx.CreatedAt = now
		trx.UpdatedAt = now

		// Number uniqueness rides on the unique index: a collision fails
		// the insert and rolls back the whole batch.
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		for i := range details {
			details[i].TransactionID = trx.ID
			details[i].CreatedBy = userID
			if err := tx.Create(&details[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{
		TransactionID:     trx.ID,
		TransactionNumber: trx.TransactionNumber,
		Subtotal:          subtotal,
		Tax:               tax,
		Total:             trx.TotalAmount,
	}

	s.broadcastSale(&trx, details, userName)

	return result, nil
}

// GetDetails returns the line items of a transaction in insertion order,
// used for receipt rendering and history drill-down.
func (s *checkoutService) GetDetails(transactionID uuid.UUID) ([]model.TransactionDetail, error) {
	return s.transactionRepo.FindDetails(transactionID)
}

func (s *checkoutService) GetAllTransactions() ([]model.Transaction, error) {
	return s.transactionRepo.FindAll()
}

func (s *checkoutService) GetTransaction(id uuid.UUID) (*model.Transaction, error) {
	return s.transactionRepo.FindByID(id)
}

func validateCart(lines []CartLine, payment PaymentInfo) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	if !payment.Method.Valid() {
		return ErrInvalidPaymentMethod
	}

	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if line.ProductID == uuid.Nil {
			return fmt.Errorf("%w: missing product id", ErrProductNotFound)
		}
		if seen[line.ProductID] {
			return ErrDuplicateCartLine
		}
		seen[line.ProductID] = true
	}
	return nil
}

// generateTransactionNumber derives a human-readable token from the commit
// time plus a short random suffix for same-millisecond checkouts. Residual
// collisions are caught by the unique index, not checked up front.
func generateTransactionNumber() string {
	return fmt.Sprintf("TRX-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

func (s *checkoutService) broadcastSale(trx *model.Transaction, details []model.TransactionDetail, userName string) {
	go func() {
		items := make([]map[string]interface{}, 0, len(details))
		for _, d := range details {
			items = append(items, map[string]interface{}{
				"product_id":   d.ProductID,
				"product_name": d.ProductName,
				"quantity":     d.Quantity,
			})
		}

		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "transaction_created",
			"transaction": map[string]interface{}{
				"id":                 trx.ID,
				"transaction_number": trx.TransactionNumber,
				"total_amount":       trx.TotalAmount,
				"payment_method":     trx.PaymentMethod,
				"items":              items,
			},
			"message": fmt.Sprintf("%s completed sale %s", userName, trx.TransactionNumber),
		}
		msg, _ := json.Marshal(payload)
		s.notifier.Publish(msg)
	}()
}
