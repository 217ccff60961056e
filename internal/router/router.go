package router

import (
	"net/http"

	"hospital-admissions/internal/config"
	"hospital-admissions/internal/handler"
	"hospital-admissions/internal/middleware"
	"hospital-admissions/internal/models"
	"hospital-admissions/pkg/logger"
	"hospital-admissions/pkg/utils"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Room      *handler.RoomHandler
	Admission *handler.AdmissionHandler
	Patient   *handler.PatientHandler
	Staff     *handler.StaffHandler
	Metrics   http.Handler
}

var (
	allStaff      = []string{models.RoleAdmin, models.RoleDoctor, models.RoleNurse, models.RolePharmacist, models.RoleReceptionist}
	clinicalStaff = []string{models.RoleAdmin, models.RoleDoctor, models.RoleNurse, models.RoleReceptionist}
	frontDesk     = []string{models.RoleAdmin, models.RoleReceptionist}
	adminOnly     = []string{models.RoleAdmin}
)

// New builds the gin engine. With auth disabled every /api route is open.
func New(cfg *config.Config, log *logger.Logger, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "hospital-admissions",
		})
	})

	// scraped without credentials
	r.GET("/api/metrics", gin.WrapH(h.Metrics))

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)

		// staff accounts are provisioned by an admin even when /api is open
		auth.POST("/users", middleware.AuthMiddleware(), middleware.RequireRoles(adminOnly...), h.Auth.CreateUser)
	}

	requireRoles := func(roles []string) gin.HandlerFunc {
		if !cfg.Auth.Enabled {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RequireRoles(roles...)
	}

	api := r.Group("/api")
	if cfg.Auth.Enabled {
		api.Use(middleware.AuthMiddleware())
	}

	rooms := api.Group("/rooms")
	{
		rooms.GET("", h.Room.GetAllRooms)
		rooms.GET("/availability", h.Room.GetAvailability)
		rooms.GET("/:id", h.Room.GetRoom)

		rooms.POST("", requireRoles(adminOnly), h.Room.CreateRoom)
		rooms.PUT("", requireRoles(adminOnly), h.Room.UpdateRoom)
		rooms.PUT("/:id", requireRoles(adminOnly), h.Room.UpdateRoom)
		rooms.DELETE("", requireRoles(adminOnly), h.Room.DeleteRoom)
		rooms.DELETE("/:id", requireRoles(adminOnly), h.Room.DeleteRoom)
	}

	admissions := api.Group("/admissions")
	{
		admissions.GET("", requireRoles(clinicalStaff), h.Admission.GetAdmissions)
		admissions.GET("/:id", requireRoles(clinicalStaff), h.Admission.GetAdmission)

		admissions.POST("", requireRoles(frontDesk), h.Admission.Admit)
		admissions.PUT("", requireRoles(frontDesk), h.Admission.UpdateAdmission)
		admissions.POST("/:id/discharge", requireRoles(frontDesk), h.Admission.Discharge)
	}

	patients := api.Group("/patients")
	{
		patients.GET("", requireRoles(allStaff), h.Patient.GetPatients)
		patients.GET("/:id", requireRoles(allStaff), h.Patient.GetPatient)
		patients.POST("", requireRoles(frontDesk), h.Patient.CreatePatient)
	}

	staff := api.Group("/staff")
	{
		staff.GET("", requireRoles(allStaff), h.Staff.GetStaff)
		staff.GET("/:id", requireRoles(allStaff), h.Staff.GetStaffMember)
		staff.POST("", requireRoles(adminOnly), h.Staff.CreateStaff)
	}

	return r
}
