package server

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hrms/api/internal/config"
	"hrms/api/internal/handler"
	"hrms/api/internal/middleware"
	"hrms/api/internal/model"
	"hrms/api/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server represents the HTTP server
type Server struct {
	router       *gin.Engine
	config       *config.Config
	db           *gorm.DB
	redis        *redis.Client
	nats         *nats.Conn
	wsHub        *handler.WSHub
	wsHandler    *handler.WSHandler
	autoCheckout *service.AutoCheckoutService
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) *Server {
	return &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,
		nats:   natsConn,
	}
}

// Setup initializes routes and handlers
func (s *Server) Setup() {
	// WebSocket hub relays attendance events to browsers
	s.wsHub = handler.NewWSHub(s.nats)
	s.wsHandler = handler.NewWSHandler(s.wsHub)

	// Initialize services
	events := service.NewEventPublisher(s.nats)
	authService := service.NewAuthService(s.db)
	userService := service.NewUserService(s.db)
	employeeService := service.NewEmployeeService(s.db, s.redis)
	geofenceService := service.NewGeofenceService(s.db, s.redis)
	attendanceService := service.NewAttendanceService(s.db, geofenceService, employeeService, events)
	s.autoCheckout = service.NewAutoCheckoutService(s.db, events, s.config.AutoCheckoutTime)
	leaveService := service.NewLeaveService(s.db, employeeService)
	payslipService := service.NewPayslipService(s.db, employeeService)
	dashboardService := service.NewDashboardService(s.db, employeeService, attendanceService, leaveService)
	exportService := service.NewExportService(attendanceService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, s.config.JWTSecret, s.config.JWTExpiry)
	userHandler := handler.NewUserHandler(userService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, s.autoCheckout, geofenceService, exportService)
	officeHandler := handler.NewOfficeHandler(geofenceService)
	leaveHandler := handler.NewLeaveHandler(leaveService)
	payslipHandler := handler.NewPayslipHandler(payslipService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Start WebSocket hub in background
	go s.wsHub.Run()
	log.Println("[Server] WebSocket hub started")

	// Setup Gin router
	s.router = gin.Default()

	// CORS middleware
	s.router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Redis-backed rate limiting
	if s.config.RateLimit.Enabled {
		limiter := middleware.NewRedisRateLimiter(s.redis)
		group := middleware.NewRateLimitGroup(limiter, s.config.RateLimit.DefaultRule.ToMiddlewareConfig())
		for _, rule := range s.config.RateLimit.SpecificRules {
			group.AddSpecificConfig(rule.Path, rule.ToMiddlewareConfig())
		}
		s.router.Use(group.Middleware())
	}

	// Swagger UI
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	s.router.POST("/api/v1/auth/login", authHandler.Login)

	// WebSocket routes
	s.router.GET("/ws/attendance", s.wsHandler.HandleAttendance)
	s.router.GET("/ws/stats", s.wsHandler.GetStats)

	staff := middleware.RequireRoles(model.RoleAdmin, model.RoleHR)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)
	employeeOnly := middleware.RequireRoles(model.RoleEmployee)

	// Protected routes
	api := s.router.Group("/api/v1")
	api.Use(authHandler.AuthMiddleware())
	{
		// Auth
		api.GET("/auth/me", authHandler.GetMe)

		// Staff accounts (ADMIN only)
		api.GET("/users", adminOnly, userHandler.List)
		api.POST("/users", adminOnly, userHandler.Create)
		api.PUT("/users/:email", adminOnly, userHandler.Update)
		api.DELETE("/users/:email", adminOnly, userHandler.Delete)
		api.POST("/users/:email/reset-password", adminOnly, userHandler.ResetPassword)
		api.POST("/users/change-password", userHandler.ChangePassword)

		// Profile self-service
		api.GET("/profile/me", userHandler.GetProfile)
		api.PUT("/profile/me", userHandler.UpdateProfile)

		// Employee directory (staff)
		api.GET("/employees", staff, employeeHandler.List)
		api.POST("/employees", staff, employeeHandler.Create)
		api.GET("/employees/:id", staff, employeeHandler.Get)
		api.PUT("/employees/:id", staff, employeeHandler.Update)
		api.DELETE("/employees/:id", adminOnly, employeeHandler.Delete)

		// Attendance
		api.POST("/attendance/mark", attendanceHandler.Mark)
		api.PUT("/attendance/edit", staff, attendanceHandler.Edit)
		api.GET("/attendance", staff, attendanceHandler.List)
		api.GET("/attendance/me", attendanceHandler.Me)
		api.GET("/attendance/summary/:employeeId", attendanceHandler.Summary)
		api.GET("/attendance/export", attendanceHandler.Export)
		api.POST("/attendance/preview-location", employeeOnly, attendanceHandler.PreviewLocation)
		api.POST("/auto-checkout", adminOnly, attendanceHandler.TriggerAutoCheckout)

		// Offices and geo-fencing (admin manages, everyone reads offices)
		api.GET("/offices", officeHandler.List)
		api.POST("/offices", adminOnly, officeHandler.Create)
		api.PUT("/offices/:id", adminOnly, officeHandler.Update)
		api.DELETE("/offices/:id", adminOnly, officeHandler.Delete)
		api.GET("/settings/geo-fencing", adminOnly, officeHandler.GetSetting)
		api.PUT("/settings/geo-fencing", adminOnly, officeHandler.SetSetting)

		// Leaves
		api.POST("/leaves", leaveHandler.Apply)
		api.GET("/leaves/me", leaveHandler.ListMine)
		api.GET("/leaves", staff, leaveHandler.ListAll)
		api.PUT("/leaves/:id/action", staff, leaveHandler.Act)

		// Payslips
		api.POST("/payslips/generate", staff, payslipHandler.Generate)
		api.GET("/payslips", staff, payslipHandler.ListAll)
		api.GET("/payslips/me", payslipHandler.ListMine)

		// Dashboards
		api.GET("/dashboard/total-employees", staff, dashboardHandler.TotalEmployees)
		api.GET("/dashboard/today-attendance", staff, dashboardHandler.TodayAttendance)
		api.GET("/dashboard/pending-leaves", staff, dashboardHandler.PendingLeaves)
		api.GET("/dashboard/monthly-attendance", staff, dashboardHandler.MonthlyAttendance)
		api.GET("/dashboard/employee-summary", dashboardHandler.EmployeeSummary)
	}
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	log.Printf("[Server] HTTP server listening on %s", addr)
	return s.router.Run(addr)
}

// AutoCheckout exposes the sweeper for lifecycle control
func (s *Server) AutoCheckout() *service.AutoCheckoutService {
	return s.autoCheckout
}

// GetRouter returns the gin router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() {
	if s.autoCheckout != nil {
		s.autoCheckout.Stop()
		log.Println("[Server] Auto-checkout scheduler stopped")
	}
	if s.wsHub != nil {
		s.wsHub.Stop()
		log.Println("[Server] WebSocket hub stopped")
	}
}
