// Package main runs the dojo booking HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/martial-dojo/backend/config"
	"github.com/martial-dojo/backend/internal/auth"
	"github.com/martial-dojo/backend/internal/classes"
	"github.com/martial-dojo/backend/internal/middleware"
	"github.com/martial-dojo/backend/internal/models"
	"github.com/martial-dojo/backend/internal/payments"
	"github.com/martial-dojo/backend/internal/selections"
	"github.com/martial-dojo/backend/internal/users"
	"github.com/martial-dojo/backend/pkg/database"
	"github.com/martial-dojo/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	mongoClient, err := database.Connect(ctx, cfg.Mongo.URI, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("mongodb disconnect", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	authHandler := auth.NewHandler(jwtService)

	// Identity
	userRepo := users.NewRepository(db)
	userHandler := users.NewHandler(userRepo, logger)

	// Catalog
	classRepo := classes.NewRepository(db)
	classHandler := classes.NewHandler(classRepo, logger)

	// Cart
	selectionRepo := selections.NewRepository(db)
	selectionHandler := selections.NewHandler(selectionRepo, logger)

	// Payments
	paymentRepo := payments.NewRepository(db)
	stripeClient := payments.NewStripeClient(cfg.Stripe.SecretKey)
	paymentHandler := payments.NewHandler(paymentRepo, selectionRepo, classRepo, stripeClient, logger)

	requireJWT := middleware.JWT(jwtService)
	requireAdmin := middleware.RequireRole(userRepo, models.RoleAdmin)
	requireInstructor := middleware.RequireRole(userRepo, models.RoleInstructor)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/", func(c *gin.Context) { response.OK(c, gin.H{"message": "Dojo is opened"}) })

	// Auth (public)
	router.POST("/jwt", authHandler.IssueToken)

	// Users
	router.GET("/users", requireJWT, requireAdmin, userHandler.List)
	router.GET("/users/instructor", userHandler.ListInstructors)
	router.POST("/users", userHandler.Register)
	router.GET("/users/admin/:email", requireJWT, userHandler.CheckAdmin)
	router.GET("/users/instructor/:email", requireJWT, userHandler.CheckInstructor)
	router.PATCH("/users/admin/:id", requireJWT, requireAdmin, userHandler.GrantAdmin)
	router.PATCH("/users/instructor/:id", requireJWT, requireAdmin, userHandler.GrantInstructor)
	router.DELETE("/users/:id", requireJWT, requireAdmin, userHandler.Delete)

	// Classes
	router.GET("/classes", requireJWT, classHandler.List)
	router.GET("/classes/approved", classHandler.ListApproved)
	router.GET("/api/classes", classHandler.ListByInstructor)
	router.GET("/api/classes/approved/dsc", classHandler.ListPopular)
	router.PATCH("/classes/feedback/:id", classHandler.UpdateFeedback)
	router.PATCH("/classes/admin/:id", classHandler.UpdateStatus)
	router.POST("/classes", requireJWT, requireInstructor, classHandler.Create)

	// Selections (cart)
	router.GET("/selectedClasses", requireJWT, selectionHandler.List)
	router.POST("/selectedClasses", selectionHandler.Add)
	router.DELETE("/selectedClasses/:id", requireJWT, selectionHandler.Remove)

	// Payments
	router.POST("/create-payment-intent", requireJWT, paymentHandler.CreateIntent)
	router.POST("/payments", requireJWT, paymentHandler.Settle)
	router.GET("/enrolled", requireJWT, paymentHandler.Enrolled)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
