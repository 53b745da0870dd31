package repository

import "gorm.io/gorm"

// Repositories 仓库集合
type Repositories struct {
	PurchaseOrder *PurchaseOrderRepository
	Inventory     *InventoryRepository
	Product       *ProductRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		PurchaseOrder: NewPurchaseOrderRepository(db),
		Inventory:     NewInventoryRepository(db),
		Product:       NewProductRepository(db),
	}
}
