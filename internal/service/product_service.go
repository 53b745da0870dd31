package service

import (
	"errors"

	"github.com/bitfantasy/nimo-inventory/internal/entity"
	"github.com/bitfantasy/nimo-inventory/internal/repository"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// ProductService 产品只读服务，维护走外部系统
type ProductService struct {
	repo *repository.ProductRepository
}

func NewProductService(repo *repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) GetByID(id string) (*entity.Product, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) List(companyID string, page, size int) ([]entity.Product, int64, error) {
	return s.repo.List(companyID, page, size)
}
