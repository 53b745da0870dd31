package entity

import (
	"time"
)

// Inventory 库存记录。ProductID 上有唯一索引：每个产品至多一条库存记录，
// 收货按产品直接定位，不做全表扫描。
type Inventory struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID string    `json:"product_id" gorm:"type:uuid;not null;uniqueIndex"`
	Quantity  int       `json:"quantity" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (Inventory) TableName() string {
	return "inv_inventories"
}
