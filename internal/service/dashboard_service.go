package service

import (
	"time"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
)

// DashboardMetrics is the overview block shown on the home screen.
type DashboardMetrics struct {
	TotalRevenue      int64 `json:"total_revenue"`
	TotalTransactions int   `json:"total_transactions"`
	TotalProducts     int   `json:"total_products"`
	LowStockCount     int   `json:"low_stock_count"`
}

// SalesReport aggregates a date range for the reports screen.
type SalesReport struct {
	TotalRevenue      int64                       `json:"total_revenue"`
	TotalTransactions int                         `json:"total_transactions"`
	AverageSale       int64                       `json:"average_sale"`
	SalesByDay        []repository.DailySalesData `json:"sales_by_day"`
	TopProducts       []repository.TopProductData `json:"top_products"`
}

type DashboardService interface {
	GetMetrics(windowDays int) (*DashboardMetrics, error)
	GetSalesReport(startDate, endDate time.Time) (*SalesReport, error)
}

type dashboardService struct {
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
}

func NewDashboardService(tRepo repository.TransactionRepository, pRepo repository.ProductRepository) DashboardService {
	return &dashboardService{
		transactionRepo: tRepo,
		productRepo:     pRepo,
	}
}

// GetMetrics loads a consistent snapshot and hands it to ComputeMetrics.
func (s *dashboardService) GetMetrics(windowDays int) (*DashboardMetrics, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	since := time.Now().AddDate(0, 0, -windowDays)

	transactions, err := s.transactionRepo.FindSince(since)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	metrics := ComputeMetrics(transactions, products, windowDays)
	return &metrics, nil
}

// ComputeMetrics is a pure aggregation over already-loaded data: revenue and
// count over the trailing window, catalog size, and low-stock flags.
func ComputeMetrics(transactions []model.Transaction, products []model.Product, windowDays int) DashboardMetrics {
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	var metrics DashboardMetrics
	for _, trx := range transactions {
		if trx.CreatedAt.Before(cutoff) {
			continue
		}
		metrics.TotalRevenue += trx.TotalAmount
		metrics.TotalTransactions++
	}

	metrics.TotalProducts = len(products)
	for _, p := range products {
		if p.IsLowStock() {
			metrics.LowStockCount++
		}
	}

	return metrics
}

func (s *dashboardService) GetSalesReport(startDate, endDate time.Time) (*SalesReport, error) {
	salesByDay, err := s.transactionRepo.GetSalesByDay(startDate, endDate)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.transactionRepo.GetTopProducts(startDate, endDate, 5)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		SalesByDay:  salesByDay,
		TopProducts: topProducts,
	}
	for _, day := range salesByDay {
		report.TotalRevenue += day.Revenue
		report.TotalTransactions += day.Transactions
	}
	if report.TotalTransactions > 0 {
		report.AverageSale = report.TotalRevenue / int64(report.TotalTransactions)
	}

	return report, nil
}
