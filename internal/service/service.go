package service

import (
	"github.com/bitfantasy/nimo-inventory/internal/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	PurchaseOrder *PurchaseOrderService
	Inventory     *InventoryService
	Product       *ProductService
	Dashboard     *DashboardService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, db *gorm.DB) *Services {
	return &Services{
		PurchaseOrder: NewPurchaseOrderService(repos.PurchaseOrder, repos.Inventory, db),
		Inventory:     NewInventoryService(repos.Inventory),
		Product:       NewProductService(repos.Product),
		Dashboard:     NewDashboardService(repos.PurchaseOrder, repos.Inventory, repos.Product, rdb),
	}
}
