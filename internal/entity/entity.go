package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&Company{},
		&User{},
		&Product{},

		// 采购
		&PurchaseOrder{},
		&PurchaseOrderItem{},

		// 库存
		&Inventory{},
	)
}
