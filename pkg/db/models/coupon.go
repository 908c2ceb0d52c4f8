package models

import "time"

// Coupon is a named percentage discount valid through the end of its
// expiration day.
type Coupon struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"column:name;type:varchar(30);not null;unique" json:"name"`
	Percentage     int       `gorm:"column:percentage;not null" json:"percentage"`
	ExpirationDate time.Time `gorm:"column:expiration_date;type:date;not null" json:"expirationDate"`
}
