package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newCheckoutService(db *gorm.DB) CheckoutService {
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	return NewCheckoutService(productRepo, txRepo, db, NopNotifier{})
}

func TestCommitCreatesTransactionAndDetails(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(db)

	nasiGoreng := seedProduct(t, db, "Nasi Goreng", 18000, 50)
	esTeh := seedProduct(t, db, "Es Teh Manis", 5000, 100)

	result, err := svc.Commit(
		[]CartLine{
			{ProductID: nasiGoreng.ID, Quantity: 2},
			{ProductID: esTeh.ID, Quantity: 3},
		},
		PaymentInfo{Method: model.PaymentCash, Notes: "meja 4"},
		"", "Kasir Satu",
	)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// subtotal = 18000*2 + 5000*3 = 51000; tax = 5100; total = 56100
	if result.Subtotal != 51000 {
		t.Errorf("subtotal = %d, want 51000", result.Subtotal)
	}
	if result.Tax != 5100 {
		t.Errorf("tax = %d, want 5100", result.Tax)
	}
	if result.Total != 56100 {
		t.Errorf("total = %d, want 56100", result.Total)
	}
	if result.TransactionNumber == "" {
		t.Error("expected a generated transaction number")
	}

	var trx model.Transaction
	if err := db.First(&trx, "id = ?", result.TransactionID).Error; err != nil {
		t.Fatalf("transaction record not found: %v", err)
	}
	if trx.TotalAmount != 56100 {
		t.Errorf("stored total = %d, want 56100", trx.TotalAmount)
	}
	if trx.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", trx.Status)
	}
	if trx.PaymentMethod != model.PaymentCash {
		t.Errorf("payment method = %s, want cash", trx.PaymentMethod)
	}

	details, err := svc.GetDetails(result.TransactionID)
	if err != nil {
		t.Fatalf("GetDetails failed: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("detail count = %d, want 2", len(details))
	}

	var detailSum int64
	for _, d := range details {
		if d.Subtotal != d.UnitPrice*int64(d.Quantity) {
			t.Errorf("detail subtotal %d != unit price %d * qty %d", d.Subtotal, d.UnitPrice, d.Quantity)
		}
		detailSum += d.Subtotal
	}
	if detailSum != result.Subtotal {
		t.Errorf("sum of detail subtotals = %d, want %d", detailSum, result.Subtotal)
	}

	// Reload each product into its own struct: First on a populated struct
	// would AND the stale primary key into the lookup.
	var nasiAfter, tehAfter model.Product
	if err := db.First(&nasiAfter, "id = ?", nasiGoreng.ID).Error; err != nil {
		t.Fatalf("failed to reload nasi goreng: %v", err)
	}
	if nasiAfter.Stock != 48 {
		t.Errorf("nasi goreng stock = %d, want 48", nasiAfter.Stock)
	}
	if err := db.First(&tehAfter, "id = ?", esTeh.ID).Error; err != nil {
		t.Fatalf("failed to reload es teh: %v", err)
	}
	if tehAfter.Stock != 97 {
		t.Errorf("es teh stock = %d, want 97", tehAfter.Stock)
	}
}

func TestCommitTaxMath(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(db)

	product := seedProduct(t, db, "Nasi Goreng", 18000, 10)

	result, err := svc.Commit(
		[]CartLine{{ProductID: product.ID, Quantity: 2}},
		PaymentInfo{Method: model.PaymentQRIS},
		"", "Kasir",
	)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if result.Subtotal != 36000 || result.Tax != 3600 || result.Total != 39600 {
		t.Errorf("got subtotal=%d tax=%d total=%d, want 36000/3600/39600",
			result.Subtotal, result.Tax, result.Total)
	}
}

func TestCommitInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(db)

	product := seedProduct(t, db, "Roti Coklat", 9000, 3)

	_, err := svc.Commit(
		[]CartLine{{ProductID: product.ID, Quantity: 5}},
		PaymentInfo{Method: model.PaymentCash},
		"", "Kasir",
	)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	var updated model.Product
	db.First(&updated, "id = ?", product.ID)
	if updated.Stock != 3 {
		t.Errorf("stock = %d, want 3 (unchanged)", updated.Stock)
	}

	var txCount, detailCount int64
	db.Model(&model.Transaction{}).Count(&txCount)
	db.Model(&model.TransactionDetail{}).Count(&detailCount)
	if txCount != 0 || detailCount != 0 {
		t.Errorf("got %d transactions and %d details, want none", txCount, detailCount)
	}
}

func TestCommitRollsBackWholeCart(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(db)

	ok := seedProduct(t, db, "Kopi Susu", 12000, 60)
	short := seedProduct(t, db, "Donat Gula", 6000, 1)

	_, err := svc.Commit(
		[]CartLine{
			{ProductID: ok.ID, Quantity: 2},
			{ProductID: short.ID, Quantity: 4},
		},
		PaymentInfo{Method: model.PaymentCard},
		"", "Kasir",
	)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The first line's decrement must have been rolled back with the rest.
	var updated model.Product
	db.First(&updated, "id = ?", ok.ID)
	if updated.Stock != 60 {
		t.Errorf("kopi susu stock = %d, want 60 (rolled back)", updated.Stock)
	}

	var txCount, detailCount int64
	db.Model(&model.Transaction{}).Count(&txCount)
	db.Model(&model.TransactionDetail{}).Count(&detailCount)
	if txCount != 0 || detailCount != 0 {
		t.Errorf("got %d transactions and %d details, want none", txCount, detailCount)
	}
}

func TestCommitValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(db)

	product := seedProduct(t, db, "Air Mineral", 4000, 10)

	cases := []struct {
		name    string
		lines   []CartLine
		payment PaymentInfo
		wantErr error
	}{
		{
			name:    "empty cart",
			lines:   nil,
			payment: PaymentInfo{Method: model.PaymentCash},
			wantErr: ErrEmptyCart,
		},
		{
			name:    "zero quantity",
			lines:   []CartLine{{ProductID: product.ID, Quantity: 0}},
			payment: PaymentInfo{Method: model.PaymentCash},
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "negative quantity",
			lines:   []CartLine{{ProductID: product.ID, Quantity: -1}},
			payment: PaymentInfo{Method: model.PaymentCash},
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "invalid payment method",
			lines:   []CartLine{{ProductID: product.ID, Quantity: 1}},
			payment: PaymentInfo{Method: "crypto"},
			wantErr: ErrInvalidPaymentMethod,
		},
		{
			name: "duplicate product line",
			lines: []CartLine{
				{ProductID: product.ID, Quantity: 1},
				{ProductID: product.ID, Quantity: 2},
			},
			payment: PaymentInfo{Method: model.PaymentCash},
			wantErr: ErrDuplicateCartLine,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Commit(tc.lines, tc.payment, "", "Kasir")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	// Rejections happen before any write.
	var updated model.Product
	db.First(&updated, "id = ?", product.ID)
	if updated.Stock != 10 {
		t.Errorf("stock = %d, want 10 (untouched)", updated.Stock)
	}
}

func TestCommitUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(db)

	_, err := svc.Commit(
		[]CartLine{{ProductID: uuid.New(), Quantity: 1}},
		PaymentInfo{Method: model.PaymentCash},
		"", "Kasir",
	)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}

func TestConcurrentCommitsCannotOversell(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(db)

	product := seedProduct(t, db, "Keripik Singkong", 8000, 5)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Commit(
				[]CartLine{{ProductID: product.ID, Quantity: 3}},
				PaymentInfo{Method: model.PaymentCash},
				"", "Kasir",
			)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		}
	}

	// Combined quantities (6) exceed stock (5): at most one commit may land.
	if successes > 1 {
		t.Fatalf("both commits succeeded; stock was oversold")
	}

	var updated model.Product
	db.First(&updated, "id = ?", product.ID)
	if want := 5 - 3*successes; updated.Stock != want {
		t.Errorf("stock = %d, want %d", updated.Stock, want)
	}

	var txCount int64
	db.Model(&model.Transaction{}).Count(&txCount)
	if int(txCount) != successes {
		t.Errorf("transaction count = %d, want %d", txCount, successes)
	}
}

func TestGetDetailsInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(db)

	trxID := uuid.New()
	base := time.Now().Add(-time.Hour)
	names := []string{"first", "second", "third"}
	for i, name := range names {
		detail := model.TransactionDetail{
			TransactionID: trxID,
			ProductID:     uuid.New(),
			ProductName:   name,
			Quantity:      1,
			UnitPrice:     1000,
			Subtotal:      1000,
		}
		detail.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := db.Create(&detail).Error; err != nil {
			t.Fatalf("failed to seed detail: %v", err)
		}
	}

	details, err := svc.GetDetails(trxID)
	if err != nil {
		t.Fatalf("GetDetails failed: %v", err)
	}
	if len(details) != len(names) {
		t.Fatalf("detail count = %d, want %d", len(details), len(names))
	}
	for i, d := range details {
		if d.ProductName != names[i] {
			t.Errorf("details[%d] = %s, want %s", i, d.ProductName, names[i])
		}
	}
}
