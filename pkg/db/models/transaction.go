package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a committed sale. It exclusively owns its contents:
// they are created with it and removed when the sale is reversed.
type Transaction struct {
	ID              int64                 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Total           decimal.Decimal       `gorm:"column:total;type:decimal(10,2);not null" json:"total"`
	Coupon          *string               `gorm:"column:coupon;type:varchar(30)" json:"coupon"`
	Discount        decimal.Decimal       `gorm:"column:discount;type:decimal(10,2);not null;default:0" json:"discount"`
	TransactionDate time.Time             `gorm:"column:transaction_date;autoCreateTime" json:"transactionDate"`
	Contents        []TransactionContents `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"contents"`
}

// TransactionContents is one line item: quantity of a product at the unit
// price charged at the time of sale.
type TransactionContents struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Quantity      int             `gorm:"column:quantity;not null" json:"quantity"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	ProductID     int64           `gorm:"column:product_id;not null" json:"productId"`
	Product       *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	TransactionID int64           `gorm:"column:transaction_id;not null" json:"-"`
}
