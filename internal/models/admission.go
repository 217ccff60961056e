package models

import "time"

const (
	AdmissionTypeEmergency = "emergency"
	AdmissionTypePlanned   = "planned"
)

const (
	AdmissionStatusActive     = "active"
	AdmissionStatusDischarged = "discharged"
)

// Admission links a patient to a room for a period of care.
// It moves from active to discharged once and never back.
type Admission struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	PatientID        string     `gorm:"size:36;not null;index" json:"patientId"`
	RoomID           string     `gorm:"size:36;not null;index" json:"roomId"`
	AdmissionDate    time.Time  `gorm:"not null" json:"admissionDate"`
	AdmissionType    string     `gorm:"size:20;not null" json:"admissionType"`
	Status           string     `gorm:"size:20;not null;index" json:"status"`
	ExpectedDuration int        `json:"expectedDuration"`
	Notes            string     `gorm:"type:text" json:"notes"`
	DischargedAt     *time.Time `json:"dischargedAt,omitempty"`
	CreatedAt        time.Time  `gorm:"precision:6;index" json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for Admission model
func (Admission) TableName() string {
	return "admissions"
}

func (a *Admission) IsActive() bool {
	return a.Status == AdmissionStatusActive
}

// ExpectedDischarge is the admission date plus the expected stay in days
func (a *Admission) ExpectedDischarge() time.Time {
	return a.AdmissionDate.AddDate(0, 0, a.ExpectedDuration)
}

// IsOverstaying reports an active admission past its expected discharge
func (a *Admission) IsOverstaying(now time.Time) bool {
	return a.IsActive() && a.ExpectedDuration > 0 && now.After(a.ExpectedDischarge())
}

// AdmissionFilter narrows ListAdmissions; empty fields match everything
type AdmissionFilter struct {
	PatientID string
	RoomID    string
	Status    string
}
