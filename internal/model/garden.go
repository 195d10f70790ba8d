package model

import "time"

// Garden is a rentable plot. Rows are owned by the tenancy service; only
// the id and name are read here.
type Garden struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
