package repository

import (
	"time"

	"go-kasir-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindByNumber(number string) (*model.Transaction, error)
	FindSince(since time.Time) ([]model.Transaction, error)
	FindDetails(transactionID uuid.UUID) ([]model.TransactionDetail, error)
	GetSalesByDay(startDate, endDate time.Time) ([]DailySalesData, error)
	GetTopProducts(startDate, endDate time.Time, limit int) ([]TopProductData, error)
	GetCashSalesTotal(startDate, endDate time.Time) (int64, error)
}

// DailySalesData untuk chart data
type DailySalesData struct {
	Date         string `json:"date"`
	Transactions int    `json:"transactions"`
	Revenue      int64  `json:"revenue"`
}

// TopProductData untuk ranking produk terlaris
type TopProductData struct {
	ProductName  string `json:"product_name"`
	QuantitySold int    `json:"quantity_sold"`
	Revenue      int64  `json:"revenue"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("User").Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("User").First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindByNumber(number string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("User").First(&transaction, "transaction_number = ?", number).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindSince(since time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Where("created_at >= ?", since).Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

// FindDetails returns line items in insertion order (receipt stability).
func (r *transactionRepo) FindDetails(transactionID uuid.UUID) ([]model.TransactionDetail, error) {
	var details []model.TransactionDetail
	err := r.db.Where("transaction_id = ?", transactionID).
		Order("created_at ASC").Find(&details).Error
	return details, err
}

func (r *transactionRepo) GetSalesByDay(startDate, endDate time.Time) ([]DailySalesData, error) {
	var results []DailySalesData

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COUNT(*) as transactions,
			COALESCE(SUM(total_amount), 0) as revenue
		`).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.StatusCompleted, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailySalesData
		if err := rows.Scan(&data.Date, &data.Transactions, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *transactionRepo) GetTopProducts(startDate, endDate time.Time, limit int) ([]TopProductData, error) {
	if limit < 1 {
		limit = 5
	}

	var results []TopProductData

	rows, err := r.db.Model(&model.TransactionDetail{}).
		Select(`
			product_name,
			COALESCE(SUM(quantity), 0) as quantity_sold,
			COALESCE(SUM(subtotal), 0) as revenue
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("product_name").
		Order("quantity_sold DESC").
		Limit(limit).
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data TopProductData
		if err := rows.Scan(&data.ProductName, &data.QuantitySold, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

// GetCashSalesTotal sums completed cash-method sales in the window,
// used by cash session reconciliation.
func (r *transactionRepo) GetCashSalesTotal(startDate, endDate time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&model.Transaction{}).
		Where("payment_method = ? AND status = ? AND created_at BETWEEN ? AND ?",
			model.PaymentCash, model.StatusCompleted, startDate, endDate).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
