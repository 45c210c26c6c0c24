package repository

import (
	"go-kasir-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashSessionRepository interface {
	Create(session *model.CashSession) error
	Update(session *model.CashSession) error
	FindByID(id uuid.UUID) (*model.CashSession, error)
	FindOpenByUser(userID uuid.UUID) (*model.CashSession, error)
	FindByUser(userID uuid.UUID) ([]model.CashSession, error)
	FindAll() ([]model.CashSession, error)
}

type cashSessionRepo struct {
	db *gorm.DB
}

func NewCashSessionRepo(db *gorm.DB) CashSessionRepository {
	return &cashSessionRepo{db}
}

func (r *cashSessionRepo) Create(session *model.CashSession) error {
	return r.db.Create(session).Error
}

func (r *cashSessionRepo) Update(session *model.CashSession) error {
	return r.db.Save(session).Error
}

func (r *cashSessionRepo) FindByID(id uuid.UUID) (*model.CashSession, error) {
	var session model.CashSession
	err := r.db.Preload("User").First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *cashSessionRepo) FindOpenByUser(userID uuid.UUID) (*model.CashSession, error) {
	var session model.CashSession
	err := r.db.Where("user_id = ? AND status = ?", userID, model.CashSessionOpen).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *cashSessionRepo) FindByUser(userID uuid.UUID) ([]model.CashSession, error) {
	var sessions []model.CashSession
	err := r.db.Where("user_id = ?", userID).Order("opened_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *cashSessionRepo) FindAll() ([]model.CashSession, error) {
	var sessions []model.CashSession
	err := r.db.Preload("User").Order("opened_at DESC").Find(&sessions).Error
	return sessions, err
}
