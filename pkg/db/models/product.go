package models

import "github.com/shopspring/decimal"

// Product is a sellable item. Inventory is a stock count and stays
// non-negative at every committed state.
type Product struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string          `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Image      string          `gorm:"column:image;type:varchar(255);default:default.svg" json:"image"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Inventory  int             `gorm:"column:inventory;not null;default:0" json:"inventory"`
	CategoryID int64           `gorm:"column:category_id;not null" json:"categoryId"`
	Category   *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
