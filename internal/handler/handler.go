package handler

import "github.com/bitfantasy/nimo-inventory/internal/service"

// Handlers HTTP处理器集合
type Handlers struct {
	PurchaseOrder *PurchaseOrderHandler
	Inventory     *InventoryHandler
	Product       *ProductHandler
	Dashboard     *DashboardHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		PurchaseOrder: NewPurchaseOrderHandler(services.PurchaseOrder),
		Inventory:     NewInventoryHandler(services.Inventory),
		Product:       NewProductHandler(services.Product),
		Dashboard:     NewDashboardHandler(services.Dashboard),
	}
}
