package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ronin-tn/blassa-sub000/internal/config"
	"github.com/ronin-tn/blassa-sub000/internal/database"
	"github.com/ronin-tn/blassa-sub000/internal/handlers"
	"github.com/ronin-tn/blassa-sub000/internal/logging"
	"github.com/ronin-tn/blassa-sub000/internal/middleware"
	"github.com/ronin-tn/blassa-sub000/internal/services"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	if err := services.InitRedis(); err != nil {
		logger.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	if err := services.InitStorage(); err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	if services.IsUsingS3() {
		logger.Info("photo storage ready", "backend", "s3")
	} else {
		logger.Info("photo storage ready", "backend", "local")
	}

	hub := services.NewHub()
	go hub.Run()

	notifier := services.NewNotifier(db, hub)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))
	router.Use(middleware.Observability(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "connections": hub.ConnectedUsers()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/uploads", "/app/uploads")

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", handlers.Register(db))
		auth.POST("/login", handlers.Login(db))
		auth.POST("/refresh", handlers.RefreshToken(db))
		auth.POST("/verify-email", handlers.VerifyEmail(db))
		auth.POST("/resend-verification", handlers.ResendVerification(db, hub))
		auth.POST("/forgot-password", handlers.ForgotPassword(db, hub))
		auth.POST("/verify-otp", handlers.VerifyResetCode(db))
		auth.POST("/reset-password", handlers.ResetPassword(db))
	}

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/ws", handlers.WebSocketHandler(hub))

		api.GET("/users/profile", handlers.GetProfile(db))
		api.PUT("/users/profile", handlers.UpdateProfile(db))
		api.POST("/users/profile/complete", handlers.CompleteProfile(db))
		api.POST("/users/profile/picture", handlers.UploadProfilePicture(db))
		api.GET("/users/:id", handlers.GetPublicProfile(db))
		api.GET("/users/:id/reviews", handlers.GetReceivedReviews(db))
		api.GET("/users/:id/rating", handlers.GetUserRating(db))

		api.GET("/rides/search", handlers.SearchRides(db))
		api.GET("/rides/:id", handlers.GetRide(db))
		api.GET("/rides/:id/view", handlers.GetRideView(db))

		api.GET("/notifications", handlers.GetNotifications(db))
		api.POST("/notifications/read-all", handlers.MarkAllNotificationsRead(db))
		api.POST("/notifications/:id/read", handlers.MarkNotificationRead(db))

		api.GET("/reviews/received", handlers.GetMyReceivedReviews(db))
		api.GET("/reviews/sent", handlers.GetSentReviews(db))

		api.POST("/reports", handlers.CreateReport(db))
		api.GET("/reports/mine", handlers.GetMyReports(db))
	}

	// Publishing, booking and reviewing require a completed profile.
	complete := router.Group("/api")
	complete.Use(middleware.AuthMiddleware(), middleware.RequireCompleteProfile())
	{
		complete.POST("/rides", handlers.CreateRide(db))
		complete.GET("/rides/mine", handlers.GetMyRides(db))
		complete.POST("/rides/:id/start", handlers.StartRide(db, notifier))
		complete.POST("/rides/:id/complete", handlers.CompleteRide(db, notifier))
		complete.POST("/rides/:id/cancel", handlers.CancelRide(db, notifier))
		complete.PATCH("/rides/:id/status", handlers.UpdateRideStatus(db, notifier))
		complete.POST("/rides/:id/cancel-booking", handlers.CancelBookingByRide(db, notifier))
		complete.GET("/rides/:id/passengers", handlers.GetRideBookings(db))

		complete.POST("/bookings", handlers.CreateBooking(db, notifier))
		complete.GET("/bookings/mine", handlers.GetMyBookings(db))
		complete.GET("/bookings/ride-ids", handlers.GetBookedRideIDs(db))
		complete.POST("/bookings/:id/accept", handlers.AcceptBooking(db, notifier))
		complete.POST("/bookings/:id/reject", handlers.RejectBooking(db, notifier))
		complete.POST("/bookings/:id/cancel", handlers.CancelBooking(db, notifier))

		complete.POST("/reviews", handlers.CreateReview(db, notifier))

		complete.POST("/vehicles", handlers.CreateVehicle(db))
		complete.GET("/vehicles", handlers.GetMyVehicles(db))
		complete.DELETE("/vehicles/:id", handlers.DeleteVehicle(db))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
