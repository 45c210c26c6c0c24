package service

import (
	"errors"
	"testing"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newCashSessionService(db *gorm.DB) CashSessionService {
	return NewCashSessionService(
		repository.NewCashSessionRepo(db),
		repository.NewTransactionRepo(db),
	)
}

func TestOpenCashSession(t *testing.T) {
	db := newTestDB(t)
	svc := newCashSessionService(db)
	userID := uuid.New()

	session, err := svc.Open(userID, 100000, "shift pagi")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !session.IsOpen() {
		t.Error("expected session to be open")
	}
	if session.OpeningCash != 100000 {
		t.Errorf("opening cash = %d, want 100000", session.OpeningCash)
	}

	// One open session per user at a time.
	if _, err := svc.Open(userID, 50000, ""); !errors.Is(err, ErrSessionAlreadyOpen) {
		t.Fatalf("err = %v, want ErrSessionAlreadyOpen", err)
	}

	// Another cashier can still open theirs.
	if _, err := svc.Open(uuid.New(), 50000, ""); err != nil {
		t.Fatalf("Open for second user failed: %v", err)
	}

	current, err := svc.Current(userID)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current.ID != session.ID {
		t.Errorf("current session = %s, want %s", current.ID, session.ID)
	}
}

func TestOpenNegativeCash(t *testing.T) {
	db := newTestDB(t)
	svc := newCashSessionService(db)

	if _, err := svc.Open(uuid.New(), -1, ""); !errors.Is(err, ErrNegativeCash) {
		t.Fatalf("err = %v, want ErrNegativeCash", err)
	}
}

func TestCloseReconcilesCashSales(t *testing.T) {
	db := newTestDB(t)
	sessions := newCashSessionService(db)
	checkout := newCheckoutService(db)
	userID := uuid.New()

	if _, err := sessions.Open(userID, 100000, ""); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	product := seedProduct(t, db, "Nasi Goreng", 18000, 50)

	// Cash sale during the session: total 39600.
	if _, err := checkout.Commit(
		[]CartLine{{ProductID: product.ID, Quantity: 2}},
		PaymentInfo{Method: model.PaymentCash},
		"", "Kasir",
	); err != nil {
		t.Fatalf("cash Commit failed: %v", err)
	}

	// Card sale must not count toward the drawer.
	if _, err := checkout.Commit(
		[]CartLine{{ProductID: product.ID, Quantity: 1}},
		PaymentInfo{Method: model.PaymentCard},
		"", "Kasir",
	); err != nil {
		t.Fatalf("card Commit failed: %v", err)
	}

	closed, err := sessions.Close(userID, 140000)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if closed.TotalCashSales != 39600 {
		t.Errorf("total cash sales = %d, want 39600", closed.TotalCashSales)
	}
	if closed.ExpectedCash != 139600 {
		t.Errorf("expected cash = %d, want 139600", closed.ExpectedCash)
	}
	if closed.Difference == nil || *closed.Difference != 400 {
		t.Errorf("difference = %v, want 400", closed.Difference)
	}
	if closed.IsOpen() || closed.ClosedAt == nil {
		t.Error("expected session to be closed with a close timestamp")
	}

	// Closed means no current session anymore.
	if _, err := sessions.Current(userID); !errors.Is(err, ErrNoOpenSession) {
		t.Fatalf("err = %v, want ErrNoOpenSession", err)
	}
	if _, err := sessions.Close(userID, 0); !errors.Is(err, ErrNoOpenSession) {
		t.Fatalf("err = %v, want ErrNoOpenSession after close", err)
	}

	history, err := sessions.History(userID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history length = %d, want 1", len(history))
	}
}
