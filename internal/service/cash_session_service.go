package service

import (
	"errors"
	"time"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrSessionAlreadyOpen = errors.New("a cash session is already open for this user")
	ErrNoOpenSession      = errors.New("no open cash session for this user")
	ErrNegativeCash       = errors.New("cash amount cannot be negative")
)

type CashSessionService interface {
	Open(userID uuid.UUID, openingCash int64, note string) (*model.CashSession, error)
	Close(userID uuid.UUID, closingCash int64) (*model.CashSession, error)
	Current(userID uuid.UUID) (*model.CashSession, error)
	History(userID uuid.UUID) ([]model.CashSession, error)
	All() ([]model.CashSession, error)
}

type cashSessionService struct {
	sessionRepo     repository.CashSessionRepository
	transactionRepo repository.TransactionRepository
}

func NewCashSessionService(sRepo repository.CashSessionRepository, tRepo repository.TransactionRepository) CashSessionService {
	return &cashSessionService{
		sessionRepo:     sRepo,
		transactionRepo: tRepo,
	}
}

func (s *cashSessionService) Open(userID uuid.UUID, openingCash int64, note string) (*model.CashSession, error) {
	if openingCash < 0 {
		return nil, ErrNegativeCash
	}

	if existing, _ := s.sessionRepo.FindOpenByUser(userID); existing != nil {
		return nil, ErrSessionAlreadyOpen
	}

	session := &model.CashSession{
		UserID:      userID,
		OpeningCash: openingCash,
		Status:      model.CashSessionOpen,
		OpenedAt:    time.Now(),
		Note:        note,
	}
	session.CreatedBy = userID.String()
	session.UpdatedBy = userID.String()

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Close reconciles the drawer: expected cash is the opening float plus every
// completed cash-method sale recorded while the session was open.
func (s *cashSessionService) Close(userID uuid.UUID, closingCash int64) (*model.CashSession, error) {
	if closingCash < 0 {
		return nil, ErrNegativeCash
	}

	session, err := s.sessionRepo.FindOpenByUser(userID)
	if err != nil {
		return nil, ErrNoOpenSession
	}

	now := time.Now()
	cashSales, err := s.transactionRepo.GetCashSalesTotal(session.OpenedAt, now)
	if err != nil {
		return nil, err
	}

	expected := session.OpeningCash + cashSales
	diff := closingCash - expected

	session.TotalCashSales = cashSales
	session.ExpectedCash = expected
	session.ClosingCash = &closingCash
	session.Difference = &diff
	session.Status = model.CashSessionClosed
	session.ClosedAt = &now
	session.UpdatedBy = userID.String()

	if err := s.sessionRepo.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *cashSessionService) Current(userID uuid.UUID) (*model.CashSession, error) {
	session, err := s.sessionRepo.FindOpenByUser(userID)
	if err != nil {
		return nil, ErrNoOpenSession
	}
	return session, nil
}

func (s *cashSessionService) History(userID uuid.UUID) ([]model.CashSession, error) {
	return s.sessionRepo.FindByUser(userID)
}

func (s *cashSessionService) All() ([]model.CashSession, error) {
	return s.sessionRepo.FindAll()
}
