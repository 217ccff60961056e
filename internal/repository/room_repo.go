package repository

import (
	"context"
	"errors"

	"hospital-admissions/internal/models"
	"hospital-admissions/pkg/apperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// WithTx binds the repository to an open transaction
func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{db: tx}
}

// GetAllRooms retrieves every room ordered by room number
func (r *RoomRepository) GetAllRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).Order("number ASC").Find(&rooms).Error
	return rooms, err
}

// GetRoomByID retrieves a room by ID
func (r *RoomRepository) GetRoomByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	return roomOrNotFound(&room, err)
}

// GetRoomForUpdate reads a room and holds its row lock until the transaction ends
func (r *RoomRepository) GetRoomForUpdate(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&room).Error
	return roomOrNotFound(&room, err)
}

// GetRoomByNumber retrieves a room by its unique room number
func (r *RoomRepository) GetRoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where("number = ?", number).First(&room).Error
	return roomOrNotFound(&room, err)
}

// CreateRoom creates a new room
func (r *RoomRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// UpdateRoom writes every column of an existing room
func (r *RoomRepository) UpdateRoom(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// DeleteRoom removes a room permanently
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Room{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("room")
	}
	return nil
}

// BedTotals sums capacity and occupancy across all rooms
func (r *RoomRepository) BedTotals(ctx context.Context) (total int64, occupied int64, err error) {
	var row struct {
		Total    int64
		Occupied int64
	}
	err = r.db.WithContext(ctx).Model(&models.Room{}).
		Select("COALESCE(SUM(capacity), 0) AS total, COALESCE(SUM(current_occupancy), 0) AS occupied").
		Scan(&row).Error
	return row.Total, row.Occupied, err
}

// CountByStatus returns the number of rooms per status
func (r *RoomRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func roomOrNotFound(room *models.Room, err error) (*models.Room, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("room")
		}
		return nil, err
	}
	return room, nil
}
