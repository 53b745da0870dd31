package entity

import (
	"time"
)

// PurchaseOrderStatus 采购订单状态
const (
	POStatusPending   = "PENDING"
	POStatusReceived  = "RECEIVED"
	POStatusCancelled = "CANCELLED"
)

// PurchaseOrder 采购订单
type PurchaseOrder struct {
	ID                   string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID            string     `json:"company_id" gorm:"type:uuid;not null;index"`
	CreatedBy            string     `json:"created_by" gorm:"size:64;not null"`
	PONumber             string     `json:"po_number" gorm:"size:50;index"`
	Supplier             string     `json:"supplier" gorm:"size:128"`
	OrderDate            *time.Time `json:"order_date"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	TotalAmount          float64    `json:"total_amount" gorm:"type:decimal(12,2);default:0"`
	Status               string     `json:"status" gorm:"size:20;not null;default:PENDING"`
	Notes                string     `json:"notes" gorm:"type:text"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	Company *Company            `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Items   []PurchaseOrderItem `json:"items,omitempty" gorm:"foreignKey:PurchaseOrderID"`
}

func (PurchaseOrder) TableName() string {
	return "inv_purchase_orders"
}

// PurchaseOrderItem 采购订单明细。PurchaseOrderID 是唯一的归属字段，
// 反向引用只作查询用，不做双向对象图。
type PurchaseOrderItem struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PurchaseOrderID  string    `json:"purchase_order_id" gorm:"type:uuid;not null;index"`
	ProductID        string    `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity         int       `json:"quantity" gorm:"not null;default:0"`
	UnitPrice        float64   `json:"unit_price" gorm:"type:decimal(12,4);not null;default:0"`
	Subtotal         float64   `json:"subtotal" gorm:"type:decimal(12,2);not null;default:0"`
	ReceivedQuantity int       `json:"received_quantity" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (PurchaseOrderItem) TableName() string {
	return "inv_purchase_order_items"
}
