package database

import (
	"fmt"

	"hospital-admissions/internal/models"

	"gorm.io/gorm"
)

var seedRooms = []models.Room{
	{
		ID: "R101", Number: "101", Floor: "1", Type: models.RoomTypeStandard,
		Capacity: 2, Status: models.RoomStatusAvailable, Price: 100,
		Facilities: []string{"bed", "bathroom", "tv"},
	},
	{
		ID: "R102", Number: "102", Floor: "1", Type: models.RoomTypeDeluxe,
		Capacity: 1, Status: models.RoomStatusAvailable, Price: 200,
		Facilities: []string{"bed", "bathroom", "tv", "wifi", "minibar"},
	},
	{
		ID: "R201", Number: "201", Floor: "2", Type: models.RoomTypeICU,
		Capacity: 1, Status: models.RoomStatusAvailable, Price: 500,
		Facilities: []string{"medical equipment", "monitoring system", "oxygen supply"},
	},
}

var seedPatients = []models.Patient{
	{ID: "P1001", Name: "John Doe", Age: 45, Gender: "male", Contact: "+1-555-0101"},
	{ID: "P1002", Name: "Jane Smith", Age: 32, Gender: "female", Contact: "+1-555-0102"},
	{ID: "P1003", Name: "Robert Johnson", Age: 58, Gender: "male", Contact: "+1-555-0103"},
}

// Seed loads the demo rooms and patients into empty tables only
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Room{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count rooms: %w", err)
	}
	if count == 0 {
		rooms := make([]models.Room, len(seedRooms))
		copy(rooms, seedRooms)
		if err := db.Create(&rooms).Error; err != nil {
			return fmt.Errorf("failed to seed rooms: %w", err)
		}
	}

	if err := db.Model(&models.Patient{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count patients: %w", err)
	}
	if count == 0 {
		patients := make([]models.Patient, len(seedPatients))
		copy(patients, seedPatients)
		if err := db.Create(&patients).Error; err != nil {
			return fmt.Errorf("failed to seed patients: %w", err)
		}
	}

	return nil
}
