package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/domain"
)

// OperatorRepository handles dashboard account data operations
type OperatorRepository interface {
	FindByEmail(email string) (*domain.Operator, error)
	FindByID(id string) (*domain.Operator, error)
	ExistsByEmail(email string) (bool, error)
	Create(operator *domain.Operator) error
	UpdatePassword(id, hashed string) error
	UpdateLoginTime(id string) error
}

type operatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository creates a new OperatorRepository
func NewOperatorRepository(db *gorm.DB) OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) FindByEmail(email string) (*domain.Operator, error) {
	var operator domain.Operator
	if err := r.db.Where("email = ?", email).First(&operator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepository) FindByID(id string) (*domain.Operator, error) {
	var operator domain.Operator
	if err := r.db.Where("id = ?", id).First(&operator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.Operator{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *operatorRepository) Create(operator *domain.Operator) error {
	return r.db.Create(operator).Error
}

func (r *operatorRepository) UpdatePassword(id, hashed string) error {
	return r.db.Model(&domain.Operator{}).Where("id = ?", id).Update("password", hashed).Error
}

func (r *operatorRepository) UpdateLoginTime(id string) error {
	now := time.Now()
	return r.db.Model(&domain.Operator{}).Where("id = ?", id).Update("last_login", &now).Error
}
