package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-inventory/internal/entity"
	"github.com/bitfantasy/nimo-inventory/internal/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("purchase order not found")
	ErrItemNotFound    = errors.New("purchase order item not found")
	ErrOrderNotPending = errors.New("only PENDING purchase orders can be deleted")
)

type PurchaseOrderService struct {
	poRepo  *repository.PurchaseOrderRepository
	invRepo *repository.InventoryRepository
	db      *gorm.DB
}

func NewPurchaseOrderService(poRepo *repository.PurchaseOrderRepository, invRepo *repository.InventoryRepository, db *gorm.DB) *PurchaseOrderService {
	return &PurchaseOrderService{poRepo: poRepo, invRepo: invRepo, db: db}
}

// OrderTotal 重算订单总额：所有明细小计之和
func OrderTotal(items []entity.PurchaseOrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal
	}
	return total
}

type POItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
}

type CreatePORequest struct {
	CompanyID            string          `json:"company_id" binding:"required"`
	PONumber             string          `json:"po_number"`
	Supplier             string          `json:"supplier"`
	OrderDate            string          `json:"order_date"` // YYYY-MM-DD
	ExpectedDeliveryDate string          `json:"expected_delivery_date"`
	Status               string          `json:"status"`
	Notes                string          `json:"notes"`
	Items                []POItemRequest `json:"items"`
}

func (s *PurchaseOrderService) Create(req CreatePORequest, userID string) (*entity.PurchaseOrder, error) {
	poNumber := req.PONumber
	if poNumber == "" {
		poNumber = fmt.Sprintf("PO-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)
	}
	status := req.Status
	if status == "" {
		status = entity.POStatusPending
	}

	po := &entity.PurchaseOrder{
		ID:                   uuid.New().String(),
		CompanyID:            req.CompanyID,
		CreatedBy:            userID,
		PONumber:             poNumber,
		Supplier:             req.Supplier,
		Status:               status,
		Notes:                req.Notes,
		OrderDate:            parseDate(req.OrderDate),
		ExpectedDeliveryDate: parseDate(req.ExpectedDeliveryDate),
	}

	items := make([]entity.PurchaseOrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, entity.PurchaseOrderItem{
			ID:               uuid.New().String(),
			PurchaseOrderID:  po.ID,
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Subtotal:         float64(it.Quantity) * it.UnitPrice,
			ReceivedQuantity: 0,
		})
	}
	po.Items = items
	po.TotalAmount = OrderTotal(items)

	if err := s.poRepo.Create(po); err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}
	return po, nil
}

func (s *PurchaseOrderService) GetByID(id string) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return po, nil
}

func (s *PurchaseOrderService) ListByCompany(companyID string) ([]entity.PurchaseOrder, error) {
	return s.poRepo.ListByCompany(companyID)
}

func (s *PurchaseOrderService) GetItems(poID string) ([]entity.PurchaseOrderItem, error) {
	if _, err := s.GetByID(poID); err != nil {
		return nil, err
	}
	return s.poRepo.GetItemsByOrderID(poID)
}

type UpdatePORequest struct {
	PONumber             string          `json:"po_number"`
	Supplier             string          `json:"supplier"`
	OrderDate            string          `json:"order_date"`
	ExpectedDeliveryDate string          `json:"expected_delivery_date"`
	Status               string          `json:"status"`
	Notes                string          `json:"notes"`
	Items                []POItemRequest `json:"items"`
}

// Update 覆盖订单头字段。请求带明细时整体替换明细，不做合并。
func (s *PurchaseOrderService) Update(id string, req UpdatePORequest) (*entity.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewPurchaseOrderRepository(tx)
		po, err := repo.GetByIDForUpdate(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		po.PONumber = req.PONumber
		po.Supplier = req.Supplier
		po.OrderDate = parseDate(req.OrderDate)
		po.ExpectedDeliveryDate = parseDate(req.ExpectedDeliveryDate)
		if req.Status != "" {
			po.Status = req.Status
		}
		po.Notes = req.Notes

		if len(req.Items) > 0 {
			if err := repo.DeleteItemsByOrderID(po.ID); err != nil {
				return err
			}
			for _, it := range req.Items {
				item := &entity.PurchaseOrderItem{
					ID:               uuid.New().String(),
					PurchaseOrderID:  po.ID,
					ProductID:        it.ProductID,
					Quantity:         it.Quantity,
					UnitPrice:        it.UnitPrice,
					Subtotal:         float64(it.Quantity) * it.UnitPrice,
					ReceivedQuantity: 0,
				}
				if err := repo.CreateItem(item); err != nil {
					return err
				}
			}
		}

		items, err := repo.GetItemsByOrderID(po.ID)
		if err != nil {
			return err
		}
		po.TotalAmount = OrderTotal(items)
		po.UpdatedAt = time.Now()
		return repo.Save(po)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete 删除订单及其明细。仅 PENDING 状态可删。
func (s *PurchaseOrderService) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewPurchaseOrderRepository(tx)
		po, err := repo.GetByIDForUpdate(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if po.Status != entity.POStatusPending {
			return ErrOrderNotPending
		}
		// 明细随订单显式删除，不依赖数据库级联
		if err := repo.DeleteItemsByOrderID(id); err != nil {
			return err
		}
		return repo.Delete(id)
	})
}

func (s *PurchaseOrderService) AddItem(poID string, req POItemRequest) (*entity.PurchaseOrderItem, error) {
	var saved *entity.PurchaseOrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewPurchaseOrderRepository(tx)
		po, err := repo.GetByIDForUpdate(poID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		item := &entity.PurchaseOrderItem{
			ID:               uuid.New().String(),
			PurchaseOrderID:  po.ID,
			ProductID:        req.ProductID,
			Quantity:         req.Quantity,
			UnitPrice:        req.UnitPrice,
			Subtotal:         float64(req.Quantity) * req.UnitPrice,
			ReceivedQuantity: 0,
		}
		if err := repo.CreateItem(item); err != nil {
			return err
		}

		items, err := repo.GetItemsByOrderID(po.ID)
		if err != nil {
			return err
		}
		po.TotalAmount = OrderTotal(items)
		if err := repo.Save(po); err != nil {
			return err
		}
		saved = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

type UpdateItemRequest struct {
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
}

func (s *PurchaseOrderService) UpdateItem(itemID string, req UpdateItemRequest) (*entity.PurchaseOrderItem, error) {
	var saved *entity.PurchaseOrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewPurchaseOrderRepository(tx)
		item, err := repo.GetItemByIDForUpdate(itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		item.Quantity = req.Quantity
		item.UnitPrice = req.UnitPrice
		item.Subtotal = float64(req.Quantity) * req.UnitPrice
		if err := repo.SaveItem(item); err != nil {
			return err
		}

		po, err := repo.GetByIDForUpdate(item.PurchaseOrderID)
		if err != nil {
			return err
		}
		items, err := repo.GetItemsByOrderID(po.ID)
		if err != nil {
			return err
		}
		po.TotalAmount = OrderTotal(items)
		if err := repo.Save(po); err != nil {
			return err
		}
		saved = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *PurchaseOrderService) RemoveItem(itemID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewPurchaseOrderRepository(tx)
		item, err := repo.GetItemByIDForUpdate(itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		po, err := repo.GetByIDForUpdate(item.PurchaseOrderID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(itemID); err != nil {
			return err
		}

		items, err := repo.GetItemsByOrderID(po.ID)
		if err != nil {
			return err
		}
		po.TotalAmount = OrderTotal(items)
		return repo.Save(po)
	})
}

type ReceiptItem struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// ReceiveInventory 收货：累加明细已收数量并入库。整个循环在一个事务里执行，
// 订单、明细和库存行都加 FOR UPDATE 锁，并发收货按行锁串行化。
// 引用不存在明细的条目跳过，不影响其余条目。
func (s *PurchaseOrderService) ReceiveInventory(poID string, entries []ReceiptItem) (*entity.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		poRepo := repository.NewPurchaseOrderRepository(tx)
		invRepo := repository.NewInventoryRepository(tx)

		po, err := poRepo.GetByIDForUpdate(poID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		allReceived := true
		for _, entry := range entries {
			item, err := poRepo.GetItemByIDForUpdate(entry.ItemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			item.ReceivedQuantity += entry.Quantity
			if err := poRepo.SaveItem(item); err != nil {
				return err
			}

			inv, err := invRepo.GetByProductForUpdate(item.ProductID)
			switch {
			case err == nil:
				inv.Quantity += entry.Quantity
				if err := invRepo.Save(inv); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				inv = &entity.Inventory{
					ID:        uuid.New().String(),
					ProductID: item.ProductID,
					Quantity:  entry.Quantity,
				}
				if err := invRepo.Create(inv); err != nil {
					return err
				}
			default:
				return err
			}

			if item.ReceivedQuantity < item.Quantity {
				allReceived = false
			}
		}

		if allReceived {
			po.Status = entity.POStatusReceived
		}
		po.UpdatedAt = time.Now()
		return poRepo.Save(po)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(poID)
}

var poExportHeaders = []string{
	"PO Number", "Supplier", "Status", "Order Date", "Expected Delivery", "Total Amount", "Notes",
}

// ExportByCompany 导出公司采购订单为 xlsx
func (s *PurchaseOrderService) ExportByCompany(companyID string) (*excelize.File, string, error) {
	orders, err := s.poRepo.ListByCompany(companyID)
	if err != nil {
		return nil, "", fmt.Errorf("list purchase orders: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Purchase Orders"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, h := range poExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, po := range orders {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), po.PONumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), po.Supplier)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), po.Status)
		if po.OrderDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), po.OrderDate.Format("2006-01-02"))
		}
		if po.ExpectedDeliveryDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), po.ExpectedDeliveryDate.Format("2006-01-02"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), po.TotalAmount)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), po.Notes)
	}

	filename := fmt.Sprintf("purchase_orders_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
