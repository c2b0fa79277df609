package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"gymdesk/internal/auth"
	"gymdesk/internal/availability"
	"gymdesk/internal/class"
	"gymdesk/internal/config"
	"gymdesk/internal/conflict"
	"gymdesk/internal/email"
	"gymdesk/internal/room"
	"gymdesk/internal/session"
	"gymdesk/internal/trainer"
	"gymdesk/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	resolver := conflict.NewResolver(conflict.NewStore(db))

	userRepo := user.NewRepository(db)
	userHandler := user.NewHandler(user.NewService(userRepo, cfg.JWTSecret))

	availabilityHandler := availability.NewHandler(availability.NewService(availability.NewRepository(db)))
	roomHandler := room.NewHandler(room.NewService(room.NewRepository(db), resolver))
	trainerHandler := trainer.NewHandler(trainer.NewService(trainer.NewRepository(db), resolver))
	classHandler := class.NewHandler(class.NewService(class.NewRepository(db), userRepo, emailService))
	sessionHandler := session.NewHandler(session.NewService(session.NewRepository(db), userRepo, emailService))

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/rooms", roomHandler.ListRooms)
		protected.GET("/rooms/available", roomHandler.FindAvailableRooms)
		protected.GET("/trainers", trainerHandler.ListTrainers)
		protected.GET("/trainers/available", trainerHandler.FindAvailableTrainers)
		protected.GET("/classes", classHandler.ListClasses)
	}

	member := router.Group("/")
	member.Use(authMiddleware, auth.RequireRole(auth.RoleMember))
	{
		member.GET("/classes/enrolled", classHandler.ListMyClasses)
		member.POST("/classes/:classID/enroll", classHandler.Enroll)
		member.DELETE("/classes/:classID/enroll", classHandler.Withdraw)
		member.POST("/sessions", sessionHandler.BookSession)
		member.GET("/sessions", sessionHandler.ListMySessions)
		member.PUT("/sessions/:sessionID", sessionHandler.RescheduleSession)
		member.DELETE("/sessions/:sessionID", sessionHandler.CancelSession)
	}

	trainerGroup := router.Group("/trainer")
	trainerGroup.Use(authMiddleware, auth.RequireRole(auth.RoleTrainer))
	{
		trainerGroup.GET("/availability", availabilityHandler.GetAvailability)
		trainerGroup.PUT("/availability", availabilityHandler.SetAvailability)
		trainerGroup.GET("/availability/check", availabilityHandler.CheckCovering)
		trainerGroup.GET("/sessions", sessionHandler.ListTrainerSessions)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/rooms", roomHandler.CreateRoom)
		admin.GET("/rooms", roomHandler.ListRooms)
		admin.DELETE("/rooms/:roomID", roomHandler.DeleteRoom)
		admin.GET("/rooms/check-availability", roomHandler.CheckAvailability)
		admin.POST("/classes", classHandler.CreateClass)
		admin.PUT("/classes/:classID", classHandler.UpdateClass)
		admin.DELETE("/classes/:classID", classHandler.DeleteClass)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
