package repository

import (
	"github.com/bitfantasy/nimo-inventory/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetByProduct 按产品定位库存记录，product_id 唯一索引保证至多一条
func (r *InventoryRepository) GetByProduct(productID string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.db.Where("product_id = ?", productID).First(&inv).Error
	return &inv, err
}

// GetByProductForUpdate 锁定库存行后返回，用于收货事务
func (r *InventoryRepository) GetByProductForUpdate(productID string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).First(&inv).Error
	return &inv, err
}

func (r *InventoryRepository) Create(inv *entity.Inventory) error {
	return r.db.Create(inv).Error
}

func (r *InventoryRepository) Save(inv *entity.Inventory) error {
	return r.db.Save(inv).Error
}

type InventoryListParams struct {
	CompanyID string
	Page      int
	Size      int
}

func (r *InventoryRepository) List(params InventoryListParams) ([]entity.Inventory, int64, error) {
	query := r.db.Model(&entity.Inventory{})
	if params.CompanyID != "" {
		query = query.Joins("JOIN inv_products p ON p.id = inv_inventories.product_id").
			Where("p.company_id = ?", params.CompanyID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.Inventory
	err := query.Preload("Product").Order("inv_inventories.updated_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// TotalUnits 公司在库总件数
func (r *InventoryRepository) TotalUnits(companyID string) (int64, error) {
	var result struct{ Total int64 }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(i.quantity), 0) as total
		FROM inv_inventories i
		JOIN inv_products p ON p.id = i.product_id
		WHERE p.company_id = ?
	`, companyID).Scan(&result).Error
	return result.Total, err
}
