package entity

import (
	"time"
)

// Product 产品。采购与库存模块只读，不在这里维护。
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID   string    `json:"company_id" gorm:"type:uuid;not null;index"`
	SKU         string    `json:"sku" gorm:"size:64;index"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"type:decimal(12,2);default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "inv_products"
}

// Company 公司（租户）
type Company struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Company) TableName() string {
	return "inv_companies"
}

// User 用户。认证与角色管理由外部系统负责。
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Username  string    `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:128"`
	Email     string    `json:"email" gorm:"size:128"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "inv_users"
}
