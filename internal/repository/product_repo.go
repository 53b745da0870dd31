package repository

import (
	"github.com/bitfantasy/nimo-inventory/internal/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *ProductRepository) List(companyID string, page, size int) ([]entity.Product, int64, error) {
	query := r.db.Model(&entity.Product{})
	if companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var products []entity.Product
	err := query.Order("created_at DESC").
		Offset((page - 1) * size).Limit(size).Find(&products).Error
	return products, total, err
}

func (r *ProductRepository) Count(companyID string) (int64, error) {
	var total int64
	err := r.db.Model(&entity.Product{}).Where("company_id = ?", companyID).Count(&total).Error
	return total, err
}
