package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoomRefreshStatus(t *testing.T) {
	tests := []struct {
		name     string
		room     Room
		want     string
		wantBeds int
	}{
		{"empty room", Room{Capacity: 2, CurrentOccupancy: 0, Status: RoomStatusOccupied}, RoomStatusAvailable, 2},
		{"partly filled", Room{Capacity: 2, CurrentOccupancy: 1, Status: RoomStatusAvailable}, RoomStatusAvailable, 1},
		{"full", Room{Capacity: 1, CurrentOccupancy: 1, Status: RoomStatusAvailable}, RoomStatusOccupied, 0},
		{"maintenance kept", Room{Capacity: 2, CurrentOccupancy: 0, Status: RoomStatusMaintenance}, RoomStatusMaintenance, 2},
		{"reserved kept", Room{Capacity: 1, CurrentOccupancy: 1, Status: RoomStatusReserved}, RoomStatusReserved, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := tt.room
			room.RefreshStatus()
			assert.Equal(t, tt.want, room.Status)
			assert.Equal(t, tt.wantBeds, room.AvailableBeds())
		})
	}
}

func TestAdmissionIsOverstaying(t *testing.T) {
	admitted := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := Admission{AdmissionDate: admitted, ExpectedDuration: 3, Status: AdmissionStatusActive}

	assert.Equal(t, admitted.AddDate(0, 0, 3), a.ExpectedDischarge())
	assert.False(t, a.IsOverstaying(admitted.AddDate(0, 0, 2)))
	assert.True(t, a.IsOverstaying(admitted.AddDate(0, 0, 4)))

	a.Status = AdmissionStatusDischarged
	assert.False(t, a.IsOverstaying(admitted.AddDate(0, 0, 4)))

	open := Admission{AdmissionDate: admitted, Status: AdmissionStatusActive}
	assert.False(t, open.IsOverstaying(admitted.AddDate(1, 0, 0)))
}
