package service

import (
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-inventory/internal/entity"
	"github.com/bitfantasy/nimo-inventory/internal/repository"
	"gorm.io/gorm"
)

var ErrInventoryNotFound = errors.New("inventory record not found")

type InventoryService struct {
	repo *repository.InventoryRepository
}

func NewInventoryService(repo *repository.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

func (s *InventoryService) List(params repository.InventoryListParams) ([]entity.Inventory, int64, error) {
	return s.repo.List(params)
}

func (s *InventoryService) GetByProduct(productID string) (*entity.Inventory, error) {
	inv, err := s.repo.GetByProduct(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, err
	}
	return inv, nil
}

type AdjustRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	AdjustQty int    `json:"adjust_qty" binding:"required"` // 正数增加，负数减少
	Reason    string `json:"reason" binding:"required"`
}

// Adjust 手工调整库存，调整后数量不能为负
func (s *InventoryService) Adjust(req AdjustRequest) (*entity.Inventory, error) {
	inv, err := s.repo.GetByProduct(req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, err
	}

	inv.Quantity += req.AdjustQty
	if inv.Quantity < 0 {
		return nil, fmt.Errorf("adjusted quantity cannot be negative: %d", inv.Quantity)
	}
	if err := s.repo.Save(inv); err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}
	return inv, nil
}
