package models

import "time"

const (
	RoomTypeStandard = "standard"
	RoomTypeDeluxe   = "deluxe"
	RoomTypeSuite    = "suite"
	RoomTypeICU      = "icu"
)

const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
	RoomStatusReserved    = "reserved"
)

// Room is a ward room with a fixed number of beds
type Room struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	Number           string    `gorm:"size:20;not null;uniqueIndex" json:"number"`
	Floor            string    `gorm:"size:10;not null" json:"floor"`
	Type             string    `gorm:"size:20;not null" json:"type"`
	Capacity         int       `gorm:"not null" json:"capacity"`
	CurrentOccupancy int       `gorm:"not null" json:"currentOccupancy"`
	Status           string    `gorm:"size:20;not null;index" json:"status"`
	Price            float64   `gorm:"not null" json:"price"`
	Facilities       []string  `gorm:"serializer:json;type:text" json:"facilities"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Room model
func (Room) TableName() string {
	return "rooms"
}

// HasOverride reports whether staff pinned the status manually
func (r *Room) HasOverride() bool {
	return r.Status == RoomStatusMaintenance || r.Status == RoomStatusReserved
}

// IsFull reports whether every bed is taken
func (r *Room) IsFull() bool {
	return r.CurrentOccupancy >= r.Capacity
}

// AvailableBeds never reports a negative count
func (r *Room) AvailableBeds() int {
	if r.IsFull() {
		return 0
	}
	return r.Capacity - r.CurrentOccupancy
}

// RefreshStatus derives available/occupied from occupancy unless an override is set
func (r *Room) RefreshStatus() {
	if r.HasOverride() {
		return
	}
	if r.IsFull() {
		r.Status = RoomStatusOccupied
	} else {
		r.Status = RoomStatusAvailable
	}
}

// RoomAvailability is the bed summary shown at reception
type RoomAvailability struct {
	RoomID        string   `json:"roomId"`
	RoomNumber    string   `json:"roomNumber"`
	Floor         string   `json:"floor"`
	Type          string   `json:"type"`
	Status        string   `json:"status"`
	AvailableBeds int      `json:"availableBeds"`
	TotalBeds     int      `json:"totalBeds"`
	Price         float64  `json:"price"`
	Facilities    []string `json:"facilities"`
}
