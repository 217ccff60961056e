package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"hospital-admissions/internal/database"
	"hospital-admissions/internal/events"
	"hospital-admissions/internal/models"
	"hospital-admissions/internal/repository"
	"hospital-admissions/internal/testutil"
	"hospital-admissions/internal/validation"
	"hospital-admissions/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockPublisher struct {
	mu        sync.Mutex
	events    []events.AdmissionEvent
	PublishFn func(ctx context.Context, event events.AdmissionEvent) error
}

func (m *mockPublisher) Publish(ctx context.Context, event events.AdmissionEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.PublishFn != nil {
		return m.PublishFn(ctx, event)
	}
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.Type)
	}
	return types
}

type fixture struct {
	db         *gorm.DB
	rooms      *repository.RoomRepository
	admissions *repository.AdmissionRepository
	audit      *repository.AuditRepository
	publisher  *mockPublisher
	admission  *AdmissionService
	room       *RoomService
	patient    *PatientService
	staff      *StaffService
	stats      *StatsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	require.NoError(t, database.Seed(db))

	v, err := validation.New()
	require.NoError(t, err)

	log := logger.Discard()
	tm := repository.NewTransactionManager(db)
	rooms := repository.NewRoomRepo(db)
	admissions := repository.NewAdmissionRepo(db)
	audit := repository.NewAuditRepo(db)
	patients := repository.NewPatientRepo(db)
	staff := repository.NewStaffRepo(db)
	publisher := &mockPublisher{}

	return &fixture{
		db:         db,
		rooms:      rooms,
		admissions: admissions,
		audit:      audit,
		publisher:  publisher,
		admission:  NewAdmissionService(tm, rooms, admissions, audit, publisher, v, log),
		room:       NewRoomService(tm, rooms, admissions, audit, v, log),
		patient:    NewPatientService(patients, v, log),
		staff:      NewStaffService(staff, audit, v, log),
		stats:      NewStatsService(rooms, admissions, patients, staff),
	}
}

func (f *fixture) mustRoom(t *testing.T, id string) *models.Room {
	t.Helper()
	room, err := f.rooms.GetRoomByID(context.Background(), id)
	require.NoError(t, err)
	return room
}

func (f *fixture) addRoom(t *testing.T, number string, capacity int) *models.Room {
	t.Helper()
	room, err := f.room.CreateRoom(context.Background(), CreateRoomRequest{
		Number:   number,
		Floor:    "3",
		Type:     models.RoomTypeStandard,
		Capacity: capacity,
		Price:    120,
	}, nil)
	require.NoError(t, err)
	return room
}

func daysAgo(n int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, -n)
	return &t
}
