package models

import "time"

const (
	StaffRoleDoctor       = "doctor"
	StaffRoleNurse        = "nurse"
	StaffRolePharmacist   = "pharmacist"
	StaffRoleReceptionist = "receptionist"
)

// Staff holds doctors, nurses, pharmacists and receptionists in one table
type Staff struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Role           string    `gorm:"size:20;not null;index" json:"role"`
	FirstName      string    `gorm:"size:100;not null" json:"firstName"`
	LastName       string    `gorm:"size:100;not null" json:"lastName"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone          string    `gorm:"size:30;not null" json:"phone"`
	Status         string    `gorm:"size:20;not null" json:"status"`
	Specialization string    `gorm:"size:100" json:"specialization,omitempty"`
	LicenseNumber  string    `gorm:"size:50" json:"licenseNumber,omitempty"`
	Department     string    `gorm:"size:100" json:"department,omitempty"`
	Experience     int       `json:"experience"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TableName specifies the table name for Staff model
func (Staff) TableName() string {
	return "staff"
}
