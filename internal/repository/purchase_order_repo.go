package repository

import (
	"github.com/bitfantasy/nimo-inventory/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

// --- Purchase Order ---

func (r *PurchaseOrderRepository) Create(po *entity.PurchaseOrder) error {
	return r.db.Create(po).Error
}

func (r *PurchaseOrderRepository) GetByID(id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ?", id).First(&po).Error
	return &po, err
}

// GetByIDForUpdate 锁定订单行后返回，用于收货事务
func (r *PurchaseOrderRepository) GetByIDForUpdate(id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&po).Error
	return &po, err
}

func (r *PurchaseOrderRepository) ListByCompany(companyID string) ([]entity.PurchaseOrder, error) {
	var pos []entity.PurchaseOrder
	err := r.db.Preload("Items").Where("company_id = ?", companyID).
		Order("created_at DESC").Find(&pos).Error
	return pos, err
}

func (r *PurchaseOrderRepository) Save(po *entity.PurchaseOrder) error {
	return r.db.Save(po).Error
}

func (r *PurchaseOrderRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.PurchaseOrder{}).Error
}

// --- Items ---

func (r *PurchaseOrderRepository) CreateItem(item *entity.PurchaseOrderItem) error {
	return r.db.Create(item).Error
}

func (r *PurchaseOrderRepository) GetItemByID(id string) (*entity.PurchaseOrderItem, error) {
	var item entity.PurchaseOrderItem
	err := r.db.Where("id = ?", id).First(&item).Error
	return &item, err
}

// GetItemByIDForUpdate 锁定明细行后返回，用于收货事务
func (r *PurchaseOrderRepository) GetItemByIDForUpdate(id string) (*entity.PurchaseOrderItem, error) {
	var item entity.PurchaseOrderItem
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&item).Error
	return &item, err
}

func (r *PurchaseOrderRepository) GetItemsByOrderID(poID string) ([]entity.PurchaseOrderItem, error) {
	var items []entity.PurchaseOrderItem
	err := r.db.Where("purchase_order_id = ?", poID).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *PurchaseOrderRepository) SaveItem(item *entity.PurchaseOrderItem) error {
	return r.db.Save(item).Error
}

func (r *PurchaseOrderRepository) DeleteItem(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.PurchaseOrderItem{}).Error
}

func (r *PurchaseOrderRepository) DeleteItemsByOrderID(poID string) error {
	return r.db.Where("purchase_order_id = ?", poID).Delete(&entity.PurchaseOrderItem{}).Error
}

// --- 聚合查询 ---

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func (r *PurchaseOrderRepository) CountByStatus(companyID string) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.Model(&entity.PurchaseOrder{}).
		Select("status, count(*) as count").
		Where("company_id = ?", companyID).
		Group("status").Scan(&counts).Error
	return counts, err
}

// PendingValue 待收货订单的总金额
func (r *PurchaseOrderRepository) PendingValue(companyID string) (float64, error) {
	var result struct{ Total float64 }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(total_amount), 0) as total
		FROM inv_purchase_orders
		WHERE company_id = ? AND status = 'PENDING'
	`, companyID).Scan(&result).Error
	return result.Total, err
}
