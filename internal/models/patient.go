package models

import "time"

type Patient struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Age       int       `json:"age"`
	Gender    string    `gorm:"size:10" json:"gender"`
	Contact   string    `gorm:"size:50" json:"contact"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Patient model
func (Patient) TableName() string {
	return "patients"
}
