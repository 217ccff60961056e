package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"hospital-admissions/internal/app"
	"hospital-admissions/internal/config"
	"hospital-admissions/internal/database"
	"hospital-admissions/internal/events"
	"hospital-admissions/internal/testutil"
	"hospital-admissions/pkg/logger"
	"hospital-admissions/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newServer(t *testing.T, authEnabled bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetBcryptCost(bcrypt.MinCost)

	db := testutil.NewDB(t)
	require.NoError(t, database.Seed(db))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:       "e2e-access",
			RefreshSecret:      "e2e-refresh",
			AccessTokenExpiry:  time.Minute,
			RefreshTokenExpiry: time.Hour,
		},
		Auth: config.AuthConfig{
			Enabled:       authEnabled,
			AdminUsername: "admin",
			AdminPassword: "admin-pass",
		},
		Worker: config.WorkerConfig{OverstayCheckInterval: time.Minute},
	}

	log := logger.Discard()
	application, err := app.New(cfg, db, events.NewLogPublisher(log), log)
	require.NoError(t, err)

	return &testServer{t: t, router: application.Router}
}

func (s *testServer) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

type room struct {
	ID               string `json:"id"`
	Number           string `json:"number"`
	Capacity         int    `json:"capacity"`
	CurrentOccupancy int    `json:"currentOccupancy"`
	Status           string `json:"status"`
}

type admission struct {
	ID           string     `json:"id"`
	PatientID    string     `json:"patientId"`
	RoomID       string     `json:"roomId"`
	Status       string     `json:"status"`
	DischargedAt *time.Time `json:"dischargedAt"`
}

// login stores the caller's access token for later requests
func (s *testServer) login(username, password string) {
	s.t.Helper()
	s.token = ""
	w, env := s.do(http.MethodPost, "/auth/login", map[string]any{"username": username, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code)
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(s.t, login.AccessToken)
	s.token = login.AccessToken
}

func (s *testServer) room(id string) room {
	s.t.Helper()
	w, env := s.do(http.MethodGet, "/api/rooms/"+id, nil)
	require.Equal(s.t, http.StatusOK, w.Code)
	var r room
	require.NoError(s.t, json.Unmarshal(env.Data, &r))
	return r
}

func (s *testServer) admit(patientID, roomID string) (*httptest.ResponseRecorder, admission) {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/admissions", map[string]any{
		"patientId":     patientID,
		"roomId":        roomID,
		"admissionType": "emergency",
	})
	var a admission
	if w.Code == http.StatusCreated {
		require.NoError(s.t, json.Unmarshal(env.Data, &a))
	}
	return w, a
}

func TestHealth(t *testing.T) {
	s := newServer(t, false)
	w, env := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestAdmitDischargeLifecycle(t *testing.T) {
	s := newServer(t, false)

	w, adm := s.admit("P1001", "R201")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "active", adm.Status)

	r := s.room("R201")
	assert.Equal(t, 1, r.CurrentOccupancy)
	assert.Equal(t, "occupied", r.Status)

	w, env := s.do(http.MethodPut, "/api/admissions", map[string]any{"id": adm.ID, "status": "discharged"})
	require.Equal(t, http.StatusOK, w.Code)
	var discharged admission
	require.NoError(t, json.Unmarshal(env.Data, &discharged))
	assert.Equal(t, "discharged", discharged.Status)
	assert.NotNil(t, discharged.DischargedAt)

	r = s.room("R201")
	assert.Equal(t, 0, r.CurrentOccupancy)
	assert.Equal(t, "available", r.Status)

	w, env = s.do(http.MethodPost, "/api/admissions/"+adm.ID+"/discharge", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "admission is already discharged", env.Error)
	assert.Equal(t, 0, s.room("R201").CurrentOccupancy)
}

func TestAdmitErrors(t *testing.T) {
	s := newServer(t, false)

	w, _ := s.admit("P1001", "R102")
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		error  string
	}{
		{"room occupied", map[string]any{"patientId": "P1002", "roomId": "R102"}, http.StatusBadRequest, "room is not available"},
		{"room missing", map[string]any{"patientId": "P1002", "roomId": "R999"}, http.StatusNotFound, "room not found"},
		{"missing patient", map[string]any{"roomId": "R101"}, http.StatusBadRequest, ""},
		{"bad type", map[string]any{"patientId": "P1002", "roomId": "R101", "admissionType": "walk-in"}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(http.MethodPost, "/api/admissions", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
			if tt.error != "" {
				assert.Equal(t, tt.error, env.Error)
			}
		})
	}

	w, env := s.do(http.MethodGet, "/api/admissions?roomId=R102", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Admissions []admission `json:"admissions"`
		Count      int         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Count)

	w, _ = s.do(http.MethodPut, "/api/admissions", map[string]any{"id": list.Admissions[0].ID, "status": "active"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodGet, "/api/admissions/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "admission not found", env.Error)
}

func TestConcurrentAdmitsForLastBed(t *testing.T) {
	s := newServer(t, false)

	const callers = 6
	codes := make([]int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			raw, _ := json.Marshal(map[string]any{"patientId": "P1003", "roomId": "R102"})
			req := httptest.NewRequest(http.MethodPost, "/api/admissions", bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		if code == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusBadRequest, code)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, s.room("R102").CurrentOccupancy)
}

func TestRoomRoutes(t *testing.T) {
	s := newServer(t, false)

	w, env := s.do(http.MethodPost, "/api/rooms", map[string]any{
		"number": "301", "floor": "3", "type": "suite", "capacity": 2, "price": 300,
		"facilities": []string{"bed", "sofa"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created room
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "available", created.Status)

	w, env = s.do(http.MethodPost, "/api/rooms", map[string]any{
		"number": "301", "floor": "3", "type": "suite", "capacity": 2, "price": 300,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "room number 301 already exists", env.Error)

	w, _ = s.do(http.MethodPut, "/api/rooms/"+created.ID, map[string]any{"number": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "301", s.room(created.ID).Number)

	w, _ = s.do(http.MethodPost, "/api/rooms", map[string]any{"number": "302", "floor": "3", "type": "suite", "capacity": 0, "price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPut, "/api/rooms", map[string]any{"id": created.ID, "status": "maintenance"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "maintenance", s.room(created.ID).Status)

	w, _ = s.do(http.MethodPut, "/api/rooms/"+created.ID, map[string]any{"status": "available"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "available", s.room(created.ID).Status)

	w, _ = s.do(http.MethodPut, "/api/rooms/"+created.ID, map[string]any{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodGet, "/api/rooms/availability", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var availability []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &availability))
	assert.Len(t, availability, 4)

	w, _ = s.admit("P1001", created.ID)
	require.Equal(t, http.StatusCreated, w.Code)
	w, env = s.do(http.MethodDelete, "/api/rooms/"+created.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "room still has admitted patients", env.Error)

	w, _ = s.do(http.MethodDelete, "/api/rooms", map[string]any{"id": "R201"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/rooms?id=R201", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/rooms", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Rooms []room `json:"rooms"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 3, list.Count)
}

func TestPatientAndStaffRoutes(t *testing.T) {
	s := newServer(t, false)

	w, env := s.do(http.MethodGet, "/api/patients?id=P1002", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "Jane Smith")

	w, _ = s.do(http.MethodGet, "/api/patients/P4040", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, "/api/patients", map[string]any{"name": "Ada", "age": 36, "gender": "female"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, env = s.do(http.MethodGet, "/api/patients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"count":4`)

	w, env = s.do(http.MethodPost, "/api/staff", map[string]any{
		"role": "doctor", "firstName": "Meredith", "lastName": "Grey",
		"email": "grey@example.org", "phone": "+1 555 123 4567",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "specialization is required for doctors", env.Error)

	w, env = s.do(http.MethodPost, "/api/staff", map[string]any{
		"role": "doctor", "firstName": "Meredith", "lastName": "Grey",
		"email": "grey@example.org", "phone": "+1 555 123 4567", "specialization": "General Surgery",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var member struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &member))

	w, _ = s.do(http.MethodGet, "/api/staff/"+member.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/staff?role=nurse", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"count":0`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, true)

	w, _ := s.admit("P1001", "R101")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "hospital_total_patients 3")
	assert.Contains(t, body, "hospital_total_beds 4")
	assert.Contains(t, body, "hospital_occupied_beds 0")
	assert.Contains(t, body, `hospital_rooms{status="available"} 3`)
}

func TestAuthEnabledRoleChecks(t *testing.T) {
	s := newServer(t, true)

	w, _ := s.do(http.MethodGet, "/api/rooms", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.login("admin", "admin-pass")
	for _, u := range []map[string]any{
		{"username": "nurse1", "password": "secret1", "role": "nurse"},
		{"username": "desk1", "password": "secret1", "role": "receptionist"},
	} {
		w, env := s.do(http.MethodPost, "/auth/users", u)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, string(env.Data), u["role"].(string))
	}

	s.login("nurse1", "secret1")
	w, _ = s.do(http.MethodGet, "/api/rooms", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.admit("P1001", "R101")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPost, "/auth/users", map[string]any{"username": "nurse2", "password": "secret1", "role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.login("desk1", "secret1")
	w, _ = s.admit("P1001", "R101")
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(http.MethodPost, "/api/rooms", map[string]any{"number": "999", "floor": "9", "type": "icu", "capacity": 1, "price": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.token = ""
	w, env := s.do(http.MethodPost, "/auth/login", map[string]any{"username": "desk1", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", env.Error)

	w, _ = s.do(http.MethodPost, "/auth/users", map[string]any{"username": "anon", "password": "secret1", "role": "admin"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSelfRegistrationIsPatientOnly(t *testing.T) {
	s := newServer(t, true)

	for _, role := range []string{"admin", "receptionist", "doctor"} {
		w, env := s.do(http.MethodPost, "/auth/register", map[string]any{"username": "mallory-" + role, "password": "secret1", "role": role})
		assert.Equal(t, http.StatusBadRequest, w.Code, role)
		assert.False(t, env.Success)
	}

	w, env := s.do(http.MethodPost, "/auth/register", map[string]any{"username": "mallory", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var registered struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	assert.Equal(t, "patient", registered.User.Role)
	assert.NotEmpty(t, w.Result().Cookies())

	s.token = registered.AccessToken
	w, _ = s.do(http.MethodDelete, "/api/rooms/R201", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.admit("P1001", "R101")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPost, "/auth/users", map[string]any{"username": "mallory2", "password": "secret1", "role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.login("admin", "admin-pass")
	assert.Equal(t, "R201", s.room("R201").ID)
}
